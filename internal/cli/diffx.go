package cli

import (
	"github.com/spf13/cobra"

	"github.com/runsascoded/dffs/internal/plan"
)

// NewDiffXCommand returns the `diff-x` command.
func NewDiffXCommand() *cobra.Command {
	var cf commonFlags
	var df diffFlags

	cmd := newCommand(
		"diff-x [flags] [exec_cmd...] <path1> <path2>",
		"Diff two files after running them through a pipeline of other commands",
		`Diff two files after running them through a pipeline of other commands.

Each command is run in turn on the output of the previous one; the first
one also gets the path of the file as an argument. Without commands, the
files are diffed directly.

Examples:

  # Compare the sorted, de-duplicated lines of two files:
  diff-x 'sort -u' a.txt b.txt

  # Compare two JSON files after normalizing them:
  diff-x -x 'jq -S .' old.json new.json`,
	)
	addCommonFlags(cmd.Flags(), &cf)
	addDiffFlags(cmd.Flags(), &df)

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

		p, err := plan.Diff(cf.commands(cmds), path1, path2, df.diffArgs(cmd, r.cfg), r.shell())
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
