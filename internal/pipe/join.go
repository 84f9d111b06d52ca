package pipe

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/runsascoded/dffs/internal/counts"
)

// ErrEmptyPipeline is returned by `Join()` if either pipeline has no
// commands.
var ErrEmptyPipeline = errors.New("pipeline has no commands")

// Diagnostic describes an inspected pipeline command that failed.
type Diagnostic struct {
	Command Command
	Status  ExitStatus

	// Stderr is the captured stderr of the command, if any, with
	// trailing whitespace removed.
	Stderr string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("Pipeline command failed: `%s` (exit %s)", d.Command, d.Status)
}

// JoinResult is the outcome of a `Join()`.
type JoinResult struct {
	// Code is the status of the first failed pipeline command, or (if
	// no pipeline failed) the status of the joiner. A joiner killed
	// by SIGPIPE counts as successful.
	Code ExitStatus

	// Failed is set if an inspected pipeline command failed, in which
	// case the joiner's output was not written.
	Failed bool

	Diagnostics []Diagnostic

	// Output is everything that the joiner wrote to its stdout.
	Output []byte
}

// ExitCode returns the code that the calling program should exit
// with.
func (r *JoinResult) ExitCode() int {
	return r.Code.Code()
}

// Join runs pipelines `p1` and `p2` concurrently, and runs `joiner`
// with two additional arguments: the paths of named pipes from which
// the outputs of `p1` and `p2` can be read. For example, with `joiner`
// "diff", the two outputs are compared.
//
// If the last command of either pipeline fails (or any command, with
// `WithCheckAllStages()`), each failure is reported to stderr, the
// joiner's output is suppressed, and the status of the first failure
// is returned. Otherwise the joiner's output is written to stdout and
// its status is returned.
//
// A command that can't be started counts as a failed command; an
// error is returned only if the join itself couldn't be set up, if
// the joiner couldn't be started, or if `ctx` expired.
func Join(ctx context.Context, joiner Command, p1, p2 Pipeline, options ...Option) (*JoinResult, error) {
	cfg := newConfig(options)

	pipelines := []Pipeline{p1, p2}
	for i, p := range pipelines {
		if len(p) == 0 {
			return nil, fmt.Errorf("pipeline %d: %w", i+1, ErrEmptyPipeline)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cs, err := newChannels(len(pipelines))
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := cs.cleanup(); err != nil {
			cfg.logger.Warn("removing channels", "dir", cs.dir, "err", err)
		}
	}()

	j := newProcess(joiner.WithArgs(cs.paths()...), cfg.env)
	j.ownGroup = true
	if j.startErr == nil {
		j.cmd.Stderr = cfg.stderr
		j.captureStdout()
	}
	j.start(ctx)
	if !j.started {
		return nil, fmt.Errorf("starting `%s`: %w", joiner, j.startErr)
	}

	// Reap the joiner in the background. Once it is gone, nobody will
	// open the channels for reading anymore, so release any pipeline
	// that is still waiting for a reader.
	joined := make(chan struct{})
	go func() {
		defer close(joined)
		j.wait()
		cs.release()
	}()

	if cfg.verbose {
		for _, p := range pipelines {
			cfg.logger.Printf("Running pipeline: %s", p)
		}
	}

	groups := make([]*Group, len(pipelines))
	var eg errgroup.Group
	for i, p := range pipelines {
		c := cs.list[i]
		eg.Go(func() error {
			w, err := c.openWriter()
			if err != nil {
				return fmt.Errorf("opening channel for pipeline %d: %w", i+1, err)
			}
			groups[i] = startGroup(ctx, cfg, p, w)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		cancel()
		for _, g := range groups {
			if g != nil {
				g.wait()
			}
		}
		<-joined
		return nil, err
	}

	// Every pipeline process has to finish before we look at the
	// joiner, which might be waiting for their output to end.
	for _, g := range groups {
		g.wait()
	}

	if err := ctx.Err(); err != nil {
		<-joined
		return nil, err
	}

	result := &JoinResult{}
	for _, g := range groups {
		for _, proc := range g.inspected(cfg.checkAllStages) {
			if proc.status.Success() {
				continue
			}

			d := Diagnostic{
				Command: proc.command,
				Status:  proc.status,
				Stderr:  proc.stderrText(),
			}
			if !proc.started && d.Stderr == "" {
				d.Stderr = proc.startErr.Error()
			}

			if !result.Failed {
				result.Failed = true
				result.Code = proc.status
			}
			result.Diagnostics = append(result.Diagnostics, d)

			fmt.Fprintln(cfg.stderr, d)
			if d.Stderr != "" {
				fmt.Fprintln(cfg.stderr, d.Stderr)
			}
		}
	}
	for _, g := range groups {
		if err := g.err(); err != nil {
			cfg.logger.Debug("pipeline error", "pipeline", g.pipeline.String(), "err", err)
		}
	}

	<-joined

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if j.stdout != nil {
		result.Output = j.stdout.Bytes()
	}

	if result.Failed {
		cfg.logger.Debug("suppressing joiner output", "size", counts.Bytes(len(result.Output)))
		return result, nil
	}

	if j.err != nil {
		return nil, fmt.Errorf("running `%s`: %w", joiner, j.err)
	}
	result.Code = IgnoreStatus(j.status, IsSIGPIPE)
	cfg.logger.Debug("joiner finished", "status", j.status, "output", counts.Bytes(len(result.Output)))

	out := bufio.NewWriter(cfg.stdout)
	_, err = out.Write(result.Output)
	if err == nil {
		err = out.Flush()
	}
	if err != nil && !IsPipeError(err) {
		return result, fmt.Errorf("writing output: %w", err)
	}

	return result, nil
}

// Run runs a single command with the standard input of the calling
// process, and returns its status. A command killed by SIGPIPE counts
// as successful. A command that can't be started is reported to
// stderr and gets the status that a shell would give it.
func Run(ctx context.Context, command Command, options ...Option) (ExitStatus, error) {
	cfg := newConfig(options)

	if cfg.verbose {
		cfg.logger.Printf("Running: %s", command)
	}

	p := newProcess(command, cfg.env)
	if p.startErr == nil {
		p.cmd.Stdin = os.Stdin
		p.cmd.Stdout = cfg.stdout
		p.cmd.Stderr = cfg.stderr
	}
	p.start(ctx)
	if !p.started {
		fmt.Fprintf(cfg.stderr, "%s: %v\n", command, p.startErr)
		return p.status, nil
	}

	status := p.wait()
	if err := ctx.Err(); err != nil {
		return status, err
	}
	if p.err != nil {
		return status, fmt.Errorf("running `%s`: %w", command, p.err)
	}

	return IgnoreStatus(status, IsSIGPIPE), nil
}
