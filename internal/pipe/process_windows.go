//go:build windows
// +build windows

package pipe

// runInOwnProcessGroup is not supported on Windows.
func (p *process) runInOwnProcessGroup() {}

// kill is called to kill the process if the context expires. `err` is
// the corresponding value of `Context.Err()`.
func (p *process) kill(err error) {
	select {
	case <-p.done:
		// Process has ended; no need to kill it again.
		return
	default:
	}

	p.ctxErr.Store(err)

	_ = p.cmd.Process.Kill()
}
