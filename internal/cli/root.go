package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/runsascoded/dffs/internal/version"
)

// newCommand returns a command with the settings shared by all dffs
// commands.
func newCommand(use, short, long string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		Long:          long,
		Version:       version.Info(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")
	cmd.Flags().BoolP("version", "V", false, "show version and exit")
	cmd.Flags().SortFlags = false
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	return cmd
}

// helpOnNoArgs prints the help of `cmd` to stderr and returns the
// usage error status, for commands that can't do anything useful
// without arguments.
func helpOnNoArgs(cmd *cobra.Command) error {
	cmd.SetOut(cmd.ErrOrStderr())
	_ = cmd.Help()
	return &ExitError{Code: exitUsage}
}

// Execute runs `cmd` with `args` and returns the status that the
// program should exit with. Errors are reported to the command's
// stderr.
func Execute(ctx context.Context, cmd *cobra.Command, args []string) int {
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return exitCode(cmd.ErrOrStderr(), err)
}

// Main runs the command returned by `newCmd` with the program's
// arguments, and exits. SIGINT or SIGTERM cancel the command, which
// terminates any processes that it started.
func Main(newCmd func() *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := Execute(ctx, newCmd(), os.Args[1:])
	stop()
	os.Exit(code)
}

// changed tells whether any of the named flags were set.
func changed(flags *pflag.FlagSet, names ...string) bool {
	for _, name := range names {
		if flags.Changed(name) {
			return true
		}
	}
	return false
}
