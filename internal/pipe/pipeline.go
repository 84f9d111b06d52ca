package pipe

import (
	"context"
	"os"
	"strings"
)

// Pipeline represents a Unix-like pipe of external commands, like
// `cmd1 | cmd2 | cmd3`. The output of each command is connected to the
// input of the next one.
type Pipeline []Command

// String returns the pipeline the way a shell user would write it.
func (p Pipeline) String() string {
	strs := make([]string, len(p))
	for i, c := range p {
		strs[i] = c.String()
	}
	return strings.Join(strs, " | ")
}

// Group is the set of processes that were started for one pipeline,
// in pipeline order.
type Group struct {
	pipeline Pipeline
	procs    []*process
}

// startGroup starts all of the commands of `p`, connecting the stdout
// of each to the stdin of the next and the stdout of the last one to
// `w`. It doesn't wait for any of them. Commands that can't be started
// are recorded as failed processes. `startGroup` takes ownership of
// `w` and closes its own copy once every command has been started.
func startGroup(ctx context.Context, cfg *config, p Pipeline, w *os.File) *Group {
	defer w.Close()

	g := &Group{pipeline: p}

	// The read end of the pipe that the previous stage writes to, or
	// nil for the first stage (which reads from the null device).
	var stdin *os.File

	for i, c := range p {
		// Stages stay in the caller's process group, so that they can
		// read from the terminal (e.g., to prompt for a password).
		proc := newProcess(c, cfg.env)
		last := i == len(p)-1

		var stdout, nextStdin *os.File
		if last {
			stdout = w
		} else if proc.startErr == nil {
			r, pw, err := os.Pipe()
			if err != nil {
				proc.startErr = err
			} else {
				stdout, nextStdin = pw, r
			}
		}

		if proc.startErr == nil {
			// Careful: assigning a nil `*os.File` to these fields would
			// produce a non-nil `io.Reader`/`io.Writer`.
			if stdin != nil {
				proc.cmd.Stdin = stdin
			}
			proc.cmd.Stdout = stdout

			switch {
			case cfg.mergeStderr:
				proc.cmd.Stderr = stdout
			case cfg.captureStderr():
				proc.captureStderr()
			default:
				proc.cmd.Stderr = cfg.stderr
			}
		}

		proc.start(ctx)
		cfg.logger.Debug("started pipeline command", "command", c.String(), "status", proc.status, "err", proc.startErr)

		// The child processes have their own copies of these now:
		if stdin != nil {
			_ = stdin.Close()
		}
		if stdout != nil && !last {
			_ = stdout.Close()
		}
		stdin = nextStdin

		g.procs = append(g.procs, proc)
	}

	return g
}

// wait waits for every process of the group to exit.
func (g *Group) wait() {
	for _, proc := range g.procs {
		proc.wait()
	}
}

// inspected returns the processes whose exit status decides whether
// the pipeline failed: all of them if `all` is set, otherwise only the
// last one, which is the status that a shell would report.
func (g *Group) inspected(all bool) []*process {
	if all || len(g.procs) == 0 {
		return g.procs
	}
	return g.procs[len(g.procs)-1:]
}

// err returns the first error (other than a failing exit status) that
// was encountered while running the group's processes.
func (g *Group) err() error {
	for _, proc := range g.procs {
		if proc.err != nil {
			return proc.err
		}
	}
	return nil
}
