package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// New returns a logger that writes plain-text records to `w` (usually
// stderr) without timestamps. Only warnings and errors are shown
// unless `verbose` is set.
func New(w io.Writer, verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.InfoLevel
	}

	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: false,
	})
}

// SetLevel sets the level of `logger` from its name ("debug", "info",
// "warn", "error"). An empty name leaves the level unchanged.
func SetLevel(logger *log.Logger, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	level, err := log.ParseLevel(strings.ToLower(name))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", name, err)
	}
	logger.SetLevel(level)
	return nil
}
