// Package shellinit generates the shell aliases for the dffs commands
// that users can load into their shell.
package shellinit

import (
	_ "embed"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

// Shells that aliases can be generated for.
const (
	Bash = "bash"
	Zsh  = "zsh"
	Fish = "fish"
)

// CLIs whose aliases can be selected individually.
var CLIs = []string{"diff-x", "comm-x", "git-diff-x"}

//go:embed aliases.toml
var aliasesTOML string

// Alias is a shell alias `Name` for `Command`.
type Alias struct {
	Name    string `toml:"name"`
	Command string `toml:"command"`
}

// Section is a group of aliases for one of the CLIs, printed under
// `Title` (and `Note`, if any).
type Section struct {
	CLI     string  `toml:"cli"`
	Title   string  `toml:"title"`
	Note    string  `toml:"note"`
	Aliases []Alias `toml:"aliases"`
}

// Table is the whole alias table, as embedded from `aliases.toml`.
type Table struct {
	Header   []string  `toml:"header"`
	Sections []Section `toml:"sections"`
}

var tableMemo struct {
	once  sync.Once
	table *Table
	err   error
}

// Aliases returns the built-in alias table.
func Aliases() (*Table, error) {
	tableMemo.once.Do(func() {
		var table Table
		if _, err := toml.Decode(aliasesTOML, &table); err != nil {
			tableMemo.err = fmt.Errorf("parsing alias table: %w", err)
			return
		}
		tableMemo.table = &table
	})
	return tableMemo.table, tableMemo.err
}

// DetectShell returns the kind of shell named by `shellPath` (usually
// the value of `$SHELL`), defaulting to bash.
func DetectShell(shellPath string) string {
	switch name := filepath.Base(shellPath); {
	case strings.Contains(name, Fish):
		return Fish
	case strings.Contains(name, Zsh):
		return Zsh
	default:
		return Bash
	}
}

func validShell(shell string) bool {
	return shell == Bash || shell == Zsh || shell == Fish
}

func validCLI(cli string) bool {
	for _, c := range CLIs {
		if c == cli {
			return true
		}
	}
	return false
}

// Render writes the aliases for `shell` to `w`. If `cli` is not
// empty, only the aliases for that command are written.
func Render(w io.Writer, shell, cli string) error {
	if !validShell(shell) {
		return fmt.Errorf("unknown shell %q (expected one of %s, %s, %s)", shell, Bash, Zsh, Fish)
	}
	if cli != "" && !validCLI(cli) {
		return fmt.Errorf("unknown CLI %q (expected one of %s)", cli, strings.Join(CLIs, ", "))
	}

	table, err := Aliases()
	if err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString("# dffs shell integration\n")
	if shell == Fish {
		b.WriteString("# Add to your ~/.config/fish/config.fish:\n")
		b.WriteString("#   dffs-shell-integration fish | source\n")
	} else {
		fmt.Fprintf(&b, "# Add to your ~/.%src:\n", shell)
		fmt.Fprintf(&b, "#   eval \"$(dffs-shell-integration %s)\"\n", shell)
	}
	for _, line := range table.Header {
		fmt.Fprintf(&b, "# %s\n", line)
	}

	for _, section := range table.Sections {
		if cli != "" && section.CLI != cli {
			continue
		}

		fmt.Fprintf(&b, "\n# %s\n", section.Title)
		if section.Note != "" {
			fmt.Fprintf(&b, "# %s\n", section.Note)
		}
		for _, alias := range section.Aliases {
			b.WriteString(aliasLine(shell, alias))
			b.WriteByte('\n')
		}
	}

	_, err = io.WriteString(w, b.String())
	return err
}

// aliasLine returns the line that defines `alias` in `shell`.
func aliasLine(shell string, alias Alias) string {
	if shell == Fish {
		return fmt.Sprintf("alias %s '%s'", alias.Name, strings.ReplaceAll(alias.Command, `'`, `\'`))
	}
	return fmt.Sprintf("alias %s='%s'", alias.Name, strings.ReplaceAll(alias.Command, `'`, `'\''`))
}
