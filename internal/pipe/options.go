package pipe

import (
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/runsascoded/dffs/internal/logging"
)

type config struct {
	env Env

	mergeStderr    bool
	checkAllStages bool
	verbose        bool

	stdout io.Writer
	stderr io.Writer
	logger *log.Logger
}

func newConfig(options []Option) *config {
	cfg := &config{
		env:    Env{UseShell: true},
		stdout: os.Stdout,
		stderr: os.Stderr,
	}

	for _, option := range options {
		option(cfg)
	}

	cfg.stderr = SyncWriter(cfg.stderr)

	if cfg.logger == nil {
		cfg.logger = logging.New(cfg.stderr, cfg.verbose)
	}

	return cfg
}

// SyncWriter returns a writer that passes writes through to `w` and
// that may be shared by several goroutines (and processes). Files are
// returned unchanged, since the OS takes care of them, as are writers
// that `SyncWriter()` returned. A logger that writes to the same
// stream as the commands started by `Join()` or `Run()` should be
// given the result, as should `WithStderr()`.
func SyncWriter(w io.Writer) io.Writer {
	switch w.(type) {
	case *os.File, *syncWriter:
		return w
	default:
		return &syncWriter{w: w}
	}
}

type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (sw *syncWriter) Write(p []byte) (int, error) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return sw.w.Write(p)
}

// captureStderr tells whether the stderr of pipeline commands is
// captured (to be shown if the command fails) rather than passed
// straight through.
func (cfg *config) captureStderr() bool {
	return cfg.checkAllStages && !cfg.mergeStderr
}

// Option is a type alias for Join and Run functional options.
type Option func(*config)

// WithDir sets the default directory for running external commands.
func WithDir(dir string) Option {
	return func(cfg *config) {
		cfg.env.Dir = dir
	}
}

// WithShell runs shell commands using the shell `executable` rather
// than `$SHELL`.
func WithShell(executable string) Option {
	return func(cfg *config) {
		cfg.env.UseShell = true
		cfg.env.Shell = executable
	}
}

// WithoutShell runs shell commands without a shell, by splitting them
// into words and executing them directly.
func WithoutShell() Option {
	return func(cfg *config) {
		cfg.env.UseShell = false
	}
}

// WithMergedStderr sends the stderr of each pipeline command into the
// same stream as its stdout, so that it is compared too.
func WithMergedStderr() Option {
	return func(cfg *config) {
		cfg.mergeStderr = true
	}
}

// WithCheckAllStages makes the failure of any pipeline command (not
// just the last one of each pipeline) fail the join, like `set -o
// pipefail`.
func WithCheckAllStages() Option {
	return func(cfg *config) {
		cfg.checkAllStages = true
	}
}

// WithVerbose reports each pipeline before running it.
func WithVerbose() Option {
	return func(cfg *config) {
		cfg.verbose = true
	}
}

// WithStdout sets where the joiner's output is written. The default
// is `os.Stdout`.
func WithStdout(stdout io.Writer) Option {
	return func(cfg *config) {
		cfg.stdout = stdout
	}
}

// WithStderr sets where diagnostics and the stderr of commands are
// written. The default is `os.Stderr`.
func WithStderr(stderr io.Writer) Option {
	return func(cfg *config) {
		cfg.stderr = stderr
	}
}

// WithLogger sets the logger used for verbose and debug output.
func WithLogger(logger *log.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}
