// Package config assembles the settings of the dffs commands from, in
// increasing order of precedence: built-in defaults, the user's config
// file, `dffs.*` git configuration, `DFFS_*` environment variables,
// and command-line flags.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/runsascoded/dffs/git"
)

// EnvPrefix is the prefix of environment variables that override
// settings, e.g., `DFFS_PIPEFAIL=1`.
const EnvPrefix = "DFFS"

// Setting keys, and the flags that they are bound to.
const (
	KeyShellExecutable = "shell_executable"
	KeyNoShell         = "no_shell"
	KeyPipefail        = "pipefail"
	KeyVerbose         = "verbose"
	KeyMergeStderr     = "merge_stderr"
	KeyColor           = "color"
	KeyLogLevel        = "log_level"
)

var flagNames = map[string]string{
	KeyShellExecutable: "shell-executable",
	KeyNoShell:         "no-shell",
	KeyPipefail:        "pipefail",
	KeyVerbose:         "verbose",
	KeyMergeStderr:     "merge-stderr",
}

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds the settings shared by the dffs commands.
type Config struct {
	// ShellExecutable is the shell used to run commands; "" means
	// `$SHELL`.
	ShellExecutable string

	NoShell     bool
	Pipefail    bool
	Verbose     bool
	MergeStderr bool

	// Color is one of "auto", "always", or "never".
	Color string

	LogLevel string

	// File is the config file that was read, or "" if there was none.
	File string
}

// SetDefaults registers the built-in default of every setting with
// `v`.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyShellExecutable, "")
	v.SetDefault(KeyNoShell, false)
	v.SetDefault(KeyPipefail, false)
	v.SetDefault(KeyVerbose, false)
	v.SetDefault(KeyMergeStderr, false)
	v.SetDefault(KeyColor, ColorAuto)
	v.SetDefault(KeyLogLevel, "")
}

// GitConfigFunc returns the `dffs.*` settings from git configuration,
// with the "dffs." prefix removed.
type GitConfigFunc func(ctx context.Context) (map[string]string, error)

type loadOptions struct {
	file      string
	gitConfig GitConfigFunc
}

// Option configures `Load()`.
type Option func(*loadOptions)

// WithFile reads settings from `path` instead of the default config
// file. The file must exist.
func WithFile(path string) Option {
	return func(opts *loadOptions) {
		opts.file = path
	}
}

// WithGitConfig replaces the source of git configuration settings;
// `nil` disables them.
func WithGitConfig(f GitConfigFunc) Option {
	return func(opts *loadOptions) {
		opts.gitConfig = f
	}
}

// DefaultFile returns the path of the user's config file,
// `$XDG_CONFIG_HOME/dffs/config.toml` (by default under
// `~/.config`).
func DefaultFile() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "dffs", "config.toml")
}

// RepositoryGitConfig reads the `dffs.*` settings of the repository
// containing the current directory. Outside of a repository there
// are none.
func RepositoryGitConfig(ctx context.Context) (map[string]string, error) {
	repo, err := git.Default(ctx)
	if err != nil {
		// Not in a repository (or no git at all).
		return nil, nil
	}
	gitConfig, err := repo.Config(ctx, "dffs")
	if err != nil {
		return nil, err
	}
	return gitConfig.Map(), nil
}

// Load reads the configuration, with `flags` (which may be nil) taking
// precedence over everything else. Only flags that were set on the
// command line override other settings.
func Load(ctx context.Context, flags *pflag.FlagSet, options ...Option) (*Config, error) {
	opts := loadOptions{gitConfig: RepositoryGitConfig}
	for _, option := range options {
		option(&opts)
	}

	v := viper.New()
	SetDefaults(v)
	v.SetConfigType("toml")

	file := opts.file
	mustExist := file != ""
	if file == "" {
		file = DefaultFile()
	}

	var cfg Config
	if file != "" {
		v.SetConfigFile(file)
		err := v.ReadInConfig()
		switch {
		case err == nil:
			cfg.File = file
		case !mustExist && errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("reading config file %s: %w", file, err)
		}
	}

	if opts.gitConfig != nil {
		entries, err := opts.gitConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("reading dffs git config: %w", err)
		}
		if len(entries) > 0 {
			m := make(map[string]interface{}, len(entries))
			for key, value := range entries {
				// Git doesn't allow underscores in variable names:
				m[strings.ReplaceAll(key, "-", "_")] = value
			}
			if err := v.MergeConfigMap(m); err != nil {
				return nil, fmt.Errorf("merging dffs git config: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for key, name := range flagNames {
			if flag := flags.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, fmt.Errorf("binding flag --%s: %w", name, err)
				}
			}
		}
	}

	cfg.ShellExecutable = v.GetString(KeyShellExecutable)
	cfg.NoShell = v.GetBool(KeyNoShell)
	cfg.Pipefail = v.GetBool(KeyPipefail)
	cfg.Verbose = v.GetBool(KeyVerbose)
	cfg.MergeStderr = v.GetBool(KeyMergeStderr)
	cfg.LogLevel = v.GetString(KeyLogLevel)

	color, err := ParseColor(v.GetString(KeyColor))
	if err != nil {
		return nil, err
	}
	cfg.Color = color

	return &cfg, nil
}

// ParseColor normalizes a color setting. Besides the color modes, the
// usual boolean spellings are accepted.
func ParseColor(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", ColorAuto:
		return ColorAuto, nil
	case ColorAlways, "true", "yes", "on", "1":
		return ColorAlways, nil
	case ColorNever, "false", "no", "off", "0":
		return ColorNever, nil
	default:
		return "", fmt.Errorf("invalid color setting %q (expected auto, always, or never)", s)
	}
}

// UseColor tells whether to colorize output in color mode `mode`,
// given whether the output is a terminal.
func UseColor(mode string, isTerminal bool) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return isTerminal
	}
}
