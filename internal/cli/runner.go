package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/runsascoded/dffs/internal/config"
	"github.com/runsascoded/dffs/internal/logging"
	"github.com/runsascoded/dffs/internal/pipe"
	"github.com/runsascoded/dffs/internal/plan"
)

// runner runs plans with the settings of one command invocation.
type runner struct {
	cfg    *config.Config
	logger *log.Logger
	stdout io.Writer
	stderr io.Writer
}

func newRunner(cmd *cobra.Command) (*runner, error) {
	cfg, err := config.Load(cmd.Context(), cmd.Flags())
	if err != nil {
		return nil, err
	}

	// The logger and the commands write to the same stream:
	stderr := pipe.SyncWriter(cmd.ErrOrStderr())
	logger := logging.New(stderr, cfg.Verbose)
	if err := logging.SetLevel(logger, cfg.LogLevel); err != nil {
		return nil, err
	}
	if cfg.File != "" {
		logger.Debug("read config file", "path", cfg.File)
	}

	return &runner{
		cfg:    cfg,
		logger: logger,
		stdout: cmd.OutOrStdout(),
		stderr: stderr,
	}, nil
}

// shell tells whether commands given as text are run through a shell.
func (r *runner) shell() bool {
	return !r.cfg.NoShell
}

func (r *runner) options() []pipe.Option {
	options := []pipe.Option{
		pipe.WithStdout(r.stdout),
		pipe.WithStderr(r.stderr),
		pipe.WithLogger(r.logger),
	}
	if r.cfg.ShellExecutable != "" {
		options = append(options, pipe.WithShell(r.cfg.ShellExecutable))
	}
	if r.cfg.NoShell {
		options = append(options, pipe.WithoutShell())
	}
	if r.cfg.Pipefail {
		options = append(options, pipe.WithCheckAllStages())
	}
	if r.cfg.MergeStderr {
		options = append(options, pipe.WithMergedStderr())
	}
	if r.cfg.Verbose {
		options = append(options, pipe.WithVerbose())
	}
	return options
}

// run carries out `p` and returns the status that the command should
// exit with.
func (r *runner) run(ctx context.Context, p *plan.Plan) (int, error) {
	if p.IsDirect() {
		status, err := pipe.Run(ctx, *p.Direct, r.options()...)
		if err != nil {
			return 0, err
		}
		return status.Code(), nil
	}

	result, err := pipe.Join(ctx, p.Joiner, p.Left, p.Right, r.options()...)
	if err != nil {
		return 0, fmt.Errorf("comparing pipelines: %w", err)
	}
	return result.ExitCode(), nil
}

// exit turns an exit status into the error that makes the command
// exit with it.
func exit(code int) error {
	if code == 0 {
		return nil
	}
	return &ExitError{Code: code}
}
