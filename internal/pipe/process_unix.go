//go:build !windows
// +build !windows

package pipe

import (
	"syscall"
	"time"
)

// runInOwnProcessGroup arranges for the command to be run in its own
// process group.
func (p *process) runInOwnProcessGroup() {
	if p.cmd.SysProcAttr == nil {
		p.cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	p.cmd.SysProcAttr.Setpgid = true
}

// kill is called to kill the process if the context expires. `err` is
// the corresponding value of `Context.Err()`.
func (p *process) kill(err error) {
	// The calls to `syscall.Kill()` in this method are racy: the
	// process might be reaped immediately before them. There's no way
	// to avoid that without duplicating a lot of `exec.Cmd`.
	target := p.cmd.Process.Pid
	if p.ownGroup {
		// We started the process with PGID == PID:
		target = -target
	}

	select {
	case <-p.done:
		// Process has ended; no need to kill it again.
		return
	default:
	}

	// Record the `ctx.Err()`, which will be reported instead of the
	// process's own exit status.
	p.ctxErr.Store(err)

	// First try to kill using a relatively gentle signal so that the
	// processes have a chance to clean up after themselves:
	_ = syscall.Kill(target, syscall.SIGTERM)

	// Well-behaved processes should exit after the above, but if they
	// don't exit within 2s, kill the whole lot of them:
	go func() {
		timer := time.NewTimer(2 * time.Second)
		defer timer.Stop()

		select {
		case <-p.done:
			// Process has ended; no need to kill it again.
		case <-timer.C:
			_ = syscall.Kill(target, syscall.SIGKILL)
		}
	}()
}
