package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runsascoded/dffs/internal/shellinit"
)

// NewShellIntegrationCommand returns the `dffs-shell-integration`
// command, which prints shell aliases for the other commands.
func NewShellIntegrationCommand() *cobra.Command {
	cmd := newCommand(
		"dffs-shell-integration [bash|zsh|fish] [diff-x|comm-x|git-diff-x]",
		"Print shell aliases for the dffs commands",
		`Print shell aliases for the dffs commands, optionally only those for one
command. The shell defaults to the one named by $SHELL.

Usage:

  # Bash/Zsh: add to your ~/.bashrc or ~/.zshrc:
  eval "$(dffs-shell-integration bash)"

  # For one command only:
  eval "$(dffs-shell-integration bash diff-x)"

  # Fish: add to your ~/.config/fish/config.fish:
  dffs-shell-integration fish | source`,
	)
	cmd.Args = func(_ *cobra.Command, args []string) error {
		if len(args) > 2 {
			return usageErrorf("too many arguments: %s", strings.Join(args, " "))
		}
		return nil
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		shell := shellinit.DetectShell(os.Getenv("SHELL"))
		if len(args) > 0 {
			shell = args[0]
		}
		var cli string
		if len(args) > 1 {
			cli = args[1]
		}

		if err := shellinit.Render(cmd.OutOrStdout(), shell, cli); err != nil {
			return &UsageError{Err: err}
		}
		return nil
	}

	return cmd
}
