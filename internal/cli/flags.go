package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/runsascoded/dffs/internal/config"
	"github.com/runsascoded/dffs/internal/plan"
	"github.com/runsascoded/dffs/isatty"
)

// commonFlags are the flags shared by the comparison commands. The
// flags that correspond to config settings are read through
// `config.Load()` instead.
type commonFlags struct {
	execCmds []string
}

func addCommonFlags(flags *pflag.FlagSet, cf *commonFlags) {
	flags.StringP(
		"shell-executable", "s", "",
		"shell to use for executing commands (default $SHELL)",
	)
	flags.BoolP(
		"no-shell", "S", false,
		"run commands directly instead of through a shell",
	)
	flags.BoolP("verbose", "v", false, "log the pipelines being run to stderr")
	flags.BoolP(
		"pipefail", "P", false,
		"check all pipeline commands for errors (like bash's `set -o pipefail`);\n"+
			"by default only the last command of each pipeline is checked",
	)
	flags.Bool(
		"merge-stderr", false,
		"include the stderr of pipeline commands in the compared output",
	)
	flags.StringArrayVarP(
		&cf.execCmds, "exec-cmd", "x", nil,
		"`command` to run each input through (repeatable); these come before\n"+
			"any commands given as positional arguments",
	)
}

// commands returns the pipeline commands: those given with `-x`,
// followed by the positional ones.
func (cf *commonFlags) commands(positional []string) []string {
	cmds := append([]string(nil), cf.execCmds...)
	return append(cmds, positional...)
}

// diffFlags are the flags passed through to `diff`.
type diffFlags struct {
	color            bool
	unified          int
	ignoreWhitespace bool
}

func addDiffFlags(flags *pflag.FlagSet, df *diffFlags) {
	flags.BoolVarP(&df.color, "color", "c", false, "colorize the output (default: if stdout is a terminal)")
	f := flags.VarPF(&NegatedBoolValue{&df.color}, "no-color", "", "don't colorize the output")
	f.NoOptDefVal = "true"
	flags.IntVarP(&df.unified, "unified", "U", 0, "number of `lines` of context to show")
	flags.BoolVarP(&df.ignoreWhitespace, "ignore-whitespace", "w", false, "ignore whitespace differences")
}

// diffArgs returns the arguments for `diff`. Explicit `--color` or
// `--no-color` flags win; otherwise the configured color mode
// decides.
func (df *diffFlags) diffArgs(cmd *cobra.Command, cfg *config.Config) plan.DiffArgs {
	flags := cmd.Flags()

	args := plan.DiffArgs{IgnoreWhitespace: df.ignoreWhitespace}
	if flags.Changed("unified") {
		unified := df.unified
		args.Unified = &unified
	}
	if changed(flags, "color", "no-color") {
		args.Color = df.color
	} else {
		args.Color = config.UseColor(cfg.Color, isatty.IsTerminal(cmd.OutOrStdout()))
	}
	return args
}
