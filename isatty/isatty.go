package isatty

import (
	"io"
	"os"

	goisatty "github.com/mattn/go-isatty"
)

// Isatty tells whether `fd` refers to a terminal (including a Cygwin
// or MSYS pseudo-terminal).
func Isatty(fd uintptr) bool {
	return goisatty.IsTerminal(fd) || goisatty.IsCygwinTerminal(fd)
}

// IsTerminal tells whether `w` is an open file that refers to a
// terminal. Writers that aren't files never are.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	return Isatty(f.Fd())
}
