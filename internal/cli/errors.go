package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/runsascoded/dffs/internal/plan"
)

// ExitError makes a command exit with `Code` without printing
// anything more; whatever there was to say has been said.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// UsageError reports invalid command-line arguments. It makes the
// command exit with status 2.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

func usageErrorf(format string, args ...interface{}) error {
	return &UsageError{Err: fmt.Errorf(format, args...)}
}

// Exit codes for failures of the commands themselves.
const (
	exitFailure     = 1
	exitUsage       = 2
	exitInterrupted = 130
)

// exitCode reports `err` (if necessary) to `stderr` and returns the
// status that the command should exit with.
func exitCode(stderr io.Writer, err error) int {
	var exitErr *ExitError
	var usageErr *UsageError

	switch {
	case err == nil:
		return 0
	case errors.As(err, &exitErr):
		return exitErr.Code
	case errors.As(err, &usageErr), errors.Is(err, plan.ErrUsage):
		fmt.Fprintf(stderr, "Error: %s\n", err)
		fmt.Fprintln(stderr, "Run with --help for usage.")
		return exitUsage
	case errors.Is(err, context.Canceled):
		return exitInterrupted
	default:
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return exitFailure
	}
}
