package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runsascoded/dffs/git"
	"github.com/runsascoded/dffs/internal/plan"
)

// NewGitDiffXCommand returns the `git-diff-x` command (which Git also
// runs as `git diff-x`).
func NewGitDiffXCommand() *cobra.Command {
	var cf commonFlags
	var df diffFlags
	var refspec, ref string
	var cached bool

	cmd := newCommand(
		"git-diff-x [flags] [exec_cmd...] [<path> | - <path>...]",
		"Diff a Git-tracked file at two commits (or a commit vs. the worktree), after piping both through other commands",
		`Diff files at two commits, or at one commit and in the current worktree
(or index), after running both through a pipeline of commands.

Use '-' to separate the commands from the paths when diffing more than
one path; each path is printed to stderr before its diff. Without
commands, this runs 'git diff'.

Examples:

  # Compare the line count of 'foo' at the previous and current commits:
  git diff-x -r HEAD^..HEAD 'wc -l' foo

  # Colorized diff of the md5sum of 'foo', at HEAD vs. the worktree:
  git diff-x -c md5sum foo

  # Compare the largest 10 numbers in file1 and file2 (HEAD vs. worktree):
  git diff-x 'sort -rn' 'head' - file1 file2`,
	)
	addCommonFlags(cmd.Flags(), &cf)
	addDiffFlags(cmd.Flags(), &df)
	cmd.Flags().StringVarP(
		&refspec, "refspec", "r", "",
		"`<commit1>..<commit2>` (compare two commits) or <commit> (compare <commit> to the worktree)",
	)
	cmd.Flags().StringVarP(&ref, "ref", "R", "", "diff a single `commit`; alias for -r <commit>^..<commit>")
	cmd.Flags().BoolVarP(&cached, "cached", "C", false, "compare HEAD vs. staged changes (the index)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return helpOnNoArgs(cmd)
		}
		ctx := cmd.Context()

		positional, paths, err := plan.SplitGitArgs(args)
		if err != nil {
			return err
		}
		rs, err := plan.ParseRefspec(refspec, ref, cached)
		if err != nil {
			return err
		}

		r, err := newRunner(cmd)
		if err != nil {
			return err
		}

		cmds := cf.commands(positional)
		var prefix string
		if len(cmds) > 0 {
			repo, err := git.Default(ctx)
			if err != nil {
				return err
			}
			prefix = repo.Prefix()
			r.logger.Debug("found repository", "top", repo.TopLevel(), "prefix", prefix)
		}
		diffArgs := df.diffArgs(cmd, r.cfg)

		code := 0
		for _, path := range paths {
			if len(paths) > 1 {
				fmt.Fprintln(r.stderr, path)
			}

			p, err := plan.GitDiff(cmds, path, prefix, rs, diffArgs, r.shell())
			if err != nil {
				return err
			}
			c, err := r.run(ctx, p)
			if err != nil {
				return err
			}
			if code == 0 {
				code = c
			}
		}
		return exit(code)
	}

	return cmd
}
