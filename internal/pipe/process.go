package pipe

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync/atomic"
	"unicode"

	"golang.org/x/sync/errgroup"
	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// process is an external command that is part of a join: either a
// stage of one of the pipelines or the joiner itself. A process that
// could not be started still exists, with a failing exit status.
type process struct {
	command Command
	cmd     *exec.Cmd

	// ownGroup tells whether the process gets its own process group
	// (so that it and its children can be killed together).
	ownGroup bool

	// startErr is set if the command could not be started at all.
	startErr error
	started  bool

	// stdout and stderr are non-nil if the corresponding output of
	// the command is being captured.
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	wg     errgroup.Group

	done   chan struct{}
	status ExitStatus
	err    error

	// If the context expired and we attempted to kill the command,
	// `ctx.Err()` is stored here.
	ctxErr atomic.Value
}

// newProcess prepares (but doesn't start) a process running `command`
// in `env`. The caller may set up the command's stdio via `p.cmd`
// before calling `start()`, as long as `p.startErr` is nil.
func newProcess(command Command, env Env) *process {
	p := &process{
		command: command,
		done:    make(chan struct{}),
	}

	cmd, err := command.execCmd(env)
	if err != nil {
		p.startErr = err
		return p
	}
	p.cmd = cmd
	return p
}

// capture arranges for the output of `pipe` (`p.cmd.StdoutPipe` or
// `p.cmd.StderrPipe`) to be read into a buffer.
func (p *process) capture(pipe func() (io.ReadCloser, error)) *bytes.Buffer {
	if p.startErr != nil {
		return nil
	}

	// We can't just set `p.cmd.Stderr = &buf`, because if we do then
	// `p.cmd.Wait()` doesn't wait to be sure that all of the output
	// has been captured. By doing this ourselves, we can be sure.
	r, err := pipe()
	if err != nil {
		p.startErr = err
		return nil
	}

	var buf bytes.Buffer
	p.wg.Go(func() error {
		_, err := io.Copy(&buf, r)
		// We don't consider `ErrClosed` an error:
		if err != nil && !errors.Is(err, os.ErrClosed) {
			return err
		}
		return nil
	})
	return &buf
}

func (p *process) captureStdout() {
	p.stdout = p.capture(p.cmd.StdoutPipe)
}

func (p *process) captureStderr() {
	p.stderr = p.capture(p.cmd.StderrPipe)
}

// start starts the process in the background. Failure to start is
// recorded in the process's status rather than returned. If `ctx`
// expires before the process exits, the process is killed.
func (p *process) start(ctx context.Context) {
	if p.startErr == nil {
		if p.ownGroup {
			p.runInOwnProcessGroup()
		}
		p.startErr = p.cmd.Start()
	}

	if p.startErr != nil {
		p.status = spawnFailureStatus(p.startErr)
		// Any capturing goroutines see their pipes closed by
		// `Cmd.Start()`:
		_ = p.wg.Wait()
		close(p.done)
		return
	}
	p.started = true

	// Arrange for the process to be killed (gently) if the context
	// expires before the command exits normally:
	go func() {
		select {
		case <-ctx.Done():
			p.kill(ctx.Err())
		case <-p.done:
			// Process already done; no need to kill anything.
		}
	}()
}

// wait waits for the process to exit and returns its status. It must
// be called exactly once for each process.
func (p *process) wait() ExitStatus {
	if !p.started {
		return p.status
	}

	defer close(p.done)

	// Make sure that any captured output is copied before
	// `p.cmd.Wait()` closes the read ends of the pipes:
	wErr := p.wg.Wait()

	err := p.cmd.Wait()
	p.status = exitStatus(p.cmd.ProcessState)

	var eErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &eErr):
		// A failing exit status is reported via `p.status`.
	default:
		p.err = err
	}
	if p.err == nil && wErr != nil {
		p.err = wErr
	}

	// If the process looks like it was killed by us, report `ctxErr`
	// instead:
	if ctxErr, ok := p.ctxErr.Load().(error); ok && p.status.Signaled() {
		p.err = ctxErr
	}

	return p.status
}

// stderrText returns the captured stderr of the process, decoded as
// UTF-8 (with invalid bytes replaced by U+FFFD) and with trailing
// whitespace removed. It returns "" if stderr wasn't captured.
func (p *process) stderrText() string {
	if p.stderr == nil || p.stderr.Len() == 0 {
		return ""
	}

	// The decoder replaces invalid bytes with U+FFFD rather than
	// failing.
	decoded, _, _ := transform.Bytes(xunicode.UTF8.NewDecoder(), p.stderr.Bytes())
	return strings.TrimRightFunc(string(decoded), unicode.IsSpace)
}
