package cli

import (
	"github.com/spf13/cobra"

	"github.com/runsascoded/dffs/internal/plan"
)

// NewCommXCommand returns the `comm-x` command.
func NewCommXCommand() *cobra.Command {
	var cf commonFlags
	var flags plan.CommFlags

	cmd := newCommand(
		"comm-x [flags] [exec_cmd...] <path1> <path2>",
		"comm two files after running them through a pipeline of other commands",
		`Select or reject lines common to two input streams, after running each
through a pipeline of other commands.

Example:

  # Lines that occur in both files, whatever their order:
  comm-x -12 sort a.txt b.txt`,
	)
	addCommonFlags(cmd.Flags(), &cf)
	cmd.Flags().BoolVarP(&flags.Exclude1, "exclude-1", "1", false, "exclude lines only found in the first pipeline")
	cmd.Flags().BoolVarP(&flags.Exclude2, "exclude-2", "2", false, "exclude lines only found in the second pipeline")
	cmd.Flags().BoolVarP(&flags.Exclude3, "exclude-3", "3", false, "exclude lines found in both pipelines")
	cmd.Flags().BoolVarP(&flags.CaseInsensitive, "case-insensitive", "i", false, "compare lines case-insensitively")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return helpOnNoArgs(cmd)
		}

		cmds, path1, path2, err := plan.SplitPaths(args)
		if err != nil {
			return err
		}

		r, err := newRunner(cmd)
		if err != nil {
			return err
		}

		p, err := plan.Comm(cf.commands(cmds), path1, path2, flags, r.shell())
		if err != nil {
			return err
		}

		code, err := r.run(cmd.Context(), p)
		if err != nil {
			return err
		}
		return exit(code)
	}

	return cmd
}
