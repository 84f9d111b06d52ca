// Package plan turns what the user asked for (commands, paths, refs,
// and comparison options) into the commands that implement it: either
// two pipelines and a joiner that compares their outputs, or a single
// command to be run directly when there is nothing to pipe through.
package plan

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/runsascoded/dffs/internal/pipe"
)

// ErrUsage is wrapped by errors that are caused by invalid arguments.
var ErrUsage = errors.New("usage error")

func usageErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrUsage, fmt.Sprintf(format, args...))
}

// Plan describes what to run for one comparison. Exactly one of
// `Direct` and (`Joiner`, `Left`, `Right`) is set.
type Plan struct {
	// Direct, if set, is run on its own, with the terminal as its
	// stdin and stdout.
	Direct *pipe.Command

	// Joiner compares the outputs of `Left` and `Right`.
	Joiner pipe.Command
	Left   pipe.Pipeline
	Right  pipe.Pipeline
}

// IsDirect tells whether the plan consists of a single command.
func (p *Plan) IsDirect() bool {
	return p.Direct != nil
}

func direct(c pipe.Command) *Plan {
	return &Plan{Direct: &c}
}

// command returns the command for `text`, with `args` appended. If
// `shell` is false, `text` is split into words now, so that it can be
// run without a shell.
func command(text string, shell bool, args ...string) (pipe.Command, error) {
	c := pipe.ShellCommand(text)
	if !shell {
		split, err := c.Split()
		if err != nil {
			return pipe.Command{}, fmt.Errorf("%w: %w", ErrUsage, err)
		}
		c = split
	}
	return c.WithArgs(args...), nil
}

// pipeline returns the pipeline `head | cmds[0] | cmds[1] | ...`,
// where `head`, if not empty, is prepended as the first command. If
// `path` is not empty, it is appended as an argument to the first of
// `cmds`.
func pipeline(head []pipe.Command, cmds []string, path string, shell bool) (pipe.Pipeline, error) {
	p := append(pipe.Pipeline(nil), head...)
	for i, text := range cmds {
		var args []string
		if i == 0 && path != "" {
			args = []string{path}
		}
		c, err := command(text, shell, args...)
		if err != nil {
			return nil, err
		}
		p = append(p, c)
	}
	return p, nil
}

// SplitPaths splits the positional arguments of diff-x and comm-x:
// the last two are the paths to compare, and any before them are the
// commands to pipe each path through.
func SplitPaths(args []string) ([]string, string, string, error) {
	if len(args) < 2 {
		return nil, "", "", usageErrorf("at least two paths are required")
	}
	n := len(args)
	return args[:n-2], args[n-2], args[n-1], nil
}

// DiffArgs are the options passed through to `diff`.
type DiffArgs struct {
	IgnoreWhitespace bool

	// Unified, if set, is the number of lines of context.
	Unified *int

	Color bool
}

// Args returns the command-line arguments for `diff`.
func (a DiffArgs) Args() []string {
	var args []string
	if a.IgnoreWhitespace {
		args = append(args, "-w")
	}
	if a.Unified != nil {
		args = append(args, "-U", strconv.Itoa(*a.Unified))
	}
	if a.Color {
		args = append(args, "--color=always")
	}
	return args
}

func diffCommand(diffArgs DiffArgs) pipe.Command {
	return pipe.ArgvCommand(append([]string{"diff"}, diffArgs.Args()...)...)
}

// Diff plans the comparison of `path1` and `path2` with `diff`, after
// piping each through `cmds` (the first of which gets the path as an
// argument). Without `cmds`, the files are diffed directly.
func Diff(cmds []string, path1, path2 string, diffArgs DiffArgs, shell bool) (*Plan, error) {
	return twoFiles(diffCommand(diffArgs), cmds, path1, path2, shell)
}

// CommFlags are the options passed through to `comm`.
type CommFlags struct {
	// Exclude1, Exclude2, and Exclude3 suppress the lines only in the
	// first input, only in the second input, and in both,
	// respectively.
	Exclude1 bool
	Exclude2 bool
	Exclude3 bool

	CaseInsensitive bool
}

// Args returns the command-line arguments for `comm`.
func (f CommFlags) Args() []string {
	var args []string
	for _, flag := range []struct {
		set bool
		arg string
	}{
		{f.Exclude1, "-1"},
		{f.Exclude2, "-2"},
		{f.Exclude3, "-3"},
		{f.CaseInsensitive, "-i"},
	} {
		if flag.set {
			args = append(args, flag.arg)
		}
	}
	return args
}

// Comm plans the comparison of `path1` and `path2` with `comm`, like
// `Diff()`.
func Comm(cmds []string, path1, path2 string, flags CommFlags, shell bool) (*Plan, error) {
	joiner := pipe.ArgvCommand(append([]string{"comm"}, flags.Args()...)...)
	return twoFiles(joiner, cmds, path1, path2, shell)
}

func twoFiles(joiner pipe.Command, cmds []string, path1, path2 string, shell bool) (*Plan, error) {
	if len(cmds) == 0 {
		return direct(joiner.WithArgs(path1, path2)), nil
	}

	left, err := pipeline(nil, cmds, path1, shell)
	if err != nil {
		return nil, err
	}
	right, err := pipeline(nil, cmds, path2, shell)
	if err != nil {
		return nil, err
	}

	return &Plan{Joiner: joiner, Left: left, Right: right}, nil
}
