package git

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/github/go-pipe/pipe"
)

// Repository represents the working tree of a Git repository, as seen
// from some directory inside of it.
type Repository struct {
	// topLevel is the absolute path of the top level of the working
	// tree.
	topLevel string

	// prefix is the path of the directory relative to `topLevel`,
	// with a trailing slash, or "" for the top level itself.
	prefix string

	// gitBin is the path of the `git` executable that should be used
	// when running commands in this repository.
	gitBin string
}

// Open returns the repository whose working tree contains `dir`.
func Open(ctx context.Context, dir string) (*Repository, error) {
	// Find the `git` executable to be used:
	gitBin, err := findGitBin()
	if err != nil {
		return nil, fmt.Errorf(
			"could not find 'git' executable (is it in your PATH?): %w", err,
		)
	}

	p := pipe.New(pipe.WithDir(dir))
	p.Add(
		pipe.CommandStage(
			"git-rev-parse",
			//nolint:gosec // `gitBin` is chosen carefully.
			exec.Command(gitBin, "rev-parse", "--show-toplevel", "--show-prefix"),
		),
	)
	out, err := p.Output(ctx)
	if err != nil {
		return nil, fmt.Errorf("'%s' is not inside a git working tree: %w", dir, err)
	}

	// `--show-prefix` outputs an empty line at the top level:
	lines := strings.Split(strings.TrimSuffix(string(out), "\n"), "\n")
	if len(lines) != 2 || lines[0] == "" {
		return nil, fmt.Errorf("unexpected output from 'git rev-parse': %q", out)
	}

	return &Repository{
		topLevel: lines[0],
		prefix:   lines[1],
		gitBin:   gitBin,
	}, nil
}

// Repositories opened by `Default()`, by working directory. They are
// never invalidated: a process's view of a working tree doesn't
// change while it runs.
var defaultMemo struct {
	sync.Mutex
	repos map[string]*Repository
}

// Default returns the repository containing the current working
// directory. The result is memoized.
func Default(ctx context.Context) (*Repository, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("determining current directory: %w", err)
	}

	defaultMemo.Lock()
	defer defaultMemo.Unlock()

	if repo, ok := defaultMemo.repos[cwd]; ok {
		return repo, nil
	}

	repo, err := Open(ctx, cwd)
	if err != nil {
		return nil, err
	}
	if defaultMemo.repos == nil {
		defaultMemo.repos = make(map[string]*Repository)
	}
	defaultMemo.repos[cwd] = repo
	return repo, nil
}

// TopLevel returns the absolute path of the top level of the working
// tree.
func (repo *Repository) TopLevel() string {
	return repo.topLevel
}

// Prefix returns the path of the directory from which the repository
// was opened, relative to the top level and with a trailing slash, or
// "" if it was opened from the top level. Prepending it to a path
// relative to that directory yields the path that Git uses for the
// file, e.g., in `git show HEAD:<path>`.
func (repo *Repository) Prefix() string {
	return repo.prefix
}

// GitCommand returns a command that runs `git` with `callerArgs` at
// the top level of the working tree.
func (repo *Repository) GitCommand(callerArgs ...string) *exec.Cmd {
	//nolint:gosec // `gitBin` is chosen carefully, and the rest of
	// the args are up to the caller.
	cmd := exec.Command(repo.gitBin, callerArgs...)
	cmd.Dir = repo.topLevel
	return cmd
}
