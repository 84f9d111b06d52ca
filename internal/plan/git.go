package plan

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/runsascoded/dffs/internal/pipe"
)

// Refspec names the two versions of a file that git-diff-x compares.
type Refspec struct {
	// Text is the refspec as given to `git diff`.
	Text string

	// Ref1 is the "before" commit.
	Ref1 string

	// Ref2 is the "after" commit, or "" to compare against the
	// worktree (or the index, with `--cached`).
	Ref2 string

	// Cached is set to compare against the index.
	Cached bool
}

// ParseRefspec determines what git-diff-x compares from its options,
// at most one of which may be set:
//
//	refspec "A..B" → A vs. B
//	refspec "A"    → A vs. the worktree
//	ref "A"        → A^ vs. A
//	cached         → HEAD vs. the index
//	(none)         → HEAD vs. the worktree
func ParseRefspec(refspec, ref string, cached bool) (Refspec, error) {
	n := 0
	for _, set := range []bool{refspec != "", ref != "", cached} {
		if set {
			n++
		}
	}
	if n > 1 {
		return Refspec{}, usageErrorf("specify at most one of -r/--refspec, -R/--ref, -C/--cached")
	}

	switch {
	case ref != "":
		refspec = ref + "^.." + ref
	case refspec == "":
		refspec = "HEAD"
	}

	if refspec == ".." {
		return Refspec{}, usageErrorf("invalid refspec %q", refspec)
	}

	r := Refspec{Text: refspec, Cached: cached}
	i := strings.Index(refspec, "..")
	if i < 0 {
		r.Ref1 = refspec
		return r, nil
	}

	// As in Git, an omitted end of a range means HEAD:
	r.Ref1, r.Ref2 = refspec[:i], refspec[i+2:]
	if r.Ref1 == "" {
		r.Ref1 = "HEAD"
	}
	if r.Ref2 == "" {
		r.Ref2 = "HEAD"
	}

	return r, nil
}

// SplitGitArgs splits the positional arguments of git-diff-x into
// commands and paths. A "-" argument separates the commands from one
// or more paths; otherwise the last argument is the only path.
func SplitGitArgs(args []string) ([]string, []string, error) {
	for i, arg := range args {
		if arg == "-" {
			paths := args[i+1:]
			if len(paths) == 0 {
				return nil, nil, usageErrorf("no paths after '-'")
			}
			return args[:i], paths, nil
		}
	}

	if len(args) == 0 {
		return nil, nil, usageErrorf("a path is required")
	}
	n := len(args)
	return args[:n-1], args[n-1:], nil
}

// gitShow returns the command that writes the version of `gitPath`
// (relative to the top of the working tree) from `rev`.
func gitShow(rev, gitPath string) pipe.Command {
	return pipe.ArgvCommand("git", "show", rev+":"+gitPath)
}

// GitDiff plans the comparison of two versions of `file` (relative to
// the current directory, which is at `prefix` within the working
// tree), after piping each through `cmds`.
func GitDiff(cmds []string, file, prefix string, refspec Refspec, diffArgs DiffArgs, shell bool) (*Plan, error) {
	if len(cmds) == 0 {
		return GitDiffDirect(file, refspec, diffArgs), nil
	}

	gitPath := path.Clean(prefix + filepath.ToSlash(file))
	left, err := pipeline([]pipe.Command{gitShow(refspec.Ref1, gitPath)}, cmds, "", shell)
	if err != nil {
		return nil, err
	}

	var right pipe.Pipeline
	switch {
	case refspec.Ref2 != "":
		right, err = pipeline([]pipe.Command{gitShow(refspec.Ref2, gitPath)}, cmds, "", shell)
	case refspec.Cached:
		// Stage 0 of the index:
		right, err = pipeline([]pipe.Command{gitShow(":0", gitPath)}, cmds, "", shell)
	default:
		right, err = pipeline(nil, cmds, file, shell)
	}
	if err != nil {
		return nil, err
	}

	return &Plan{Joiner: diffCommand(diffArgs), Left: left, Right: right}, nil
}

// GitDiffDirect plans `git diff` of `file` when there are no commands
// to pipe through.
func GitDiffDirect(file string, refspec Refspec, diffArgs DiffArgs) *Plan {
	args := append([]string{"git", "diff"}, diffArgs.Args()...)
	if refspec.Cached {
		args = append(args, "--cached")
	}
	args = append(args, refspec.Text, "--", file)
	return direct(pipe.ArgvCommand(args...))
}
