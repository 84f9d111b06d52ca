package pipe

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"

	"github.com/cli/safeexec"
	"github.com/kballard/go-shellquote"
)

// defaultShell is used for shell commands if neither an explicit
// shell nor `$SHELL` is available.
const defaultShell = "/bin/sh"

// Env represents the environment that commands should run in.
type Env struct {
	// The directory in which external commands should be executed by
	// default.
	Dir string

	// UseShell tells whether shell commands are run through a shell.
	// If it is false, their text is split into words (following POSIX
	// shell quoting rules) and executed directly.
	UseShell bool

	// Shell is the shell executable used for shell commands. If it is
	// empty, `$SHELL` is used, falling back to `/bin/sh`.
	Shell string
}

func (env Env) shell() string {
	if env.Shell != "" {
		return env.Shell
	}
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh
	}
	return defaultShell
}

// Command is a single command of a pipeline. It is either a string
// that is interpreted by a shell, or an argument vector that is
// executed directly. Commands are immutable.
type Command struct {
	text  string
	argv  []string
	shell bool
}

// ShellCommand returns a `Command` whose `text` is interpreted by a
// shell, like `sh -c "$text"`.
func ShellCommand(text string) Command {
	return Command{text: text, shell: true}
}

// ArgvCommand returns a `Command` that runs `args[0]` with the
// remaining `args` as its arguments, without any shell
// interpretation.
func ArgvCommand(args ...string) Command {
	if len(args) == 0 || args[0] == "" {
		panic("attempt to create command with empty command")
	}

	return Command{argv: append([]string(nil), args...)}
}

// IsShell tells whether `c` is interpreted by a shell.
func (c Command) IsShell() bool {
	return c.shell
}

// Args returns a copy of the argument vector of an argv command, or
// nil for a shell command.
func (c Command) Args() []string {
	if c.shell {
		return nil
	}
	return append([]string(nil), c.argv...)
}

// String returns the text of a shell command, or the shell-quoted
// form of an argv command.
func (c Command) String() string {
	if c.shell {
		return c.text
	}
	return shellquote.Join(c.argv...)
}

// WithArgs returns a copy of `c` with `extra` appended as additional
// positional arguments. For shell commands, the arguments are quoted
// so that the shell sees them as single words.
func (c Command) WithArgs(extra ...string) Command {
	if len(extra) == 0 {
		return c
	}
	if c.shell {
		return ShellCommand(c.text + " " + shellquote.Join(extra...))
	}
	return ArgvCommand(append(c.Args(), extra...)...)
}

// Split returns the argv form of `c`. The text of a shell command is
// split into words the way a POSIX shell would (without expanding
// anything); argv commands are returned unchanged.
func (c Command) Split() (Command, error) {
	if !c.shell {
		return c, nil
	}

	words, err := shellquote.Split(c.text)
	if err != nil {
		return Command{}, fmt.Errorf("splitting command %q: %w", c.text, err)
	}
	if len(words) == 0 {
		return Command{}, fmt.Errorf("empty command %q", c.text)
	}
	return ArgvCommand(words...), nil
}

// execCmd returns an `*exec.Cmd` that runs `c` in `env`. Executables
// are looked up using `safeexec`, so that (on Windows) an executable
// in the current directory is never picked up by accident.
func (c Command) execCmd(env Env) (*exec.Cmd, error) {
	if c.shell && !env.UseShell {
		split, err := c.Split()
		if err != nil {
			return nil, err
		}
		c = split
	}

	var name string
	var args []string
	if c.shell {
		name = env.shell()
		args = []string{"-c", c.text}
	} else {
		name = c.argv[0]
		args = c.argv[1:]
	}

	path, err := safeexec.LookPath(name)
	if err != nil {
		return nil, err
	}

	//nolint:gosec // Running user-supplied commands is the point.
	cmd := exec.Command(path, args...)
	cmd.Args[0] = name
	cmd.Dir = env.Dir
	return cmd, nil
}

// spawnFailureStatus returns the status recorded for a command that
// could not be started, following the conventions of POSIX shells.
func spawnFailureStatus(err error) ExitStatus {
	switch {
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return 127
	case errors.Is(err, fs.ErrPermission):
		return 126
	default:
		return 1
	}
}
