package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runsascoded/dffs/internal/config"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func newFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.StringP("shell-executable", "s", "", "")
	flags.BoolP("no-shell", "S", false, "")
	flags.BoolP("pipefail", "P", false, "")
	flags.BoolP("verbose", "v", false, "")
	flags.Bool("merge-stderr", false, "")
	return flags
}

func noGitConfig(context.Context) (map[string]string, error) {
	return nil, nil
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	ctx := context.Background()

	cfg, err := config.Load(ctx, newFlags(), config.WithGitConfig(noGitConfig))
	require.NoError(t, err)
	assert.Equal(t, config.Config{Color: config.ColorAuto}, *cfg)
}

func TestLoadPrecedence(t *testing.T) {
	ctx := context.Background()

	path := writeConfig(t, `
shell_executable = "/bin/zsh"
pipefail = true
color = "never"
verbose = true
`)
	gitConfig := func(context.Context) (map[string]string, error) {
		return map[string]string{
			"shell-executable": "/bin/bash",
			"merge-stderr":     "true",
		}, nil
	}
	t.Setenv("DFFS_COLOR", "always")
	t.Setenv("DFFS_VERBOSE", "false")

	flags := newFlags()
	require.NoError(t, flags.Parse([]string{"-S"}))

	cfg, err := config.Load(ctx, flags, config.WithFile(path), config.WithGitConfig(gitConfig))
	require.NoError(t, err)
	assert.Equal(t, path, cfg.File)
	// git config beats the file:
	assert.Equal(t, "/bin/bash", cfg.ShellExecutable)
	assert.True(t, cfg.MergeStderr)
	// The file beats the defaults:
	assert.True(t, cfg.Pipefail)
	// The environment beats the file:
	assert.Equal(t, config.ColorAlways, cfg.Color)
	assert.False(t, cfg.Verbose)
	// Flags beat everything:
	assert.True(t, cfg.NoShell)

	flags = newFlags()
	require.NoError(t, flags.Parse([]string{"-s", "/bin/dash", "-v"}))
	cfg, err = config.Load(ctx, flags, config.WithFile(path), config.WithGitConfig(gitConfig))
	require.NoError(t, err)
	assert.Equal(t, "/bin/dash", cfg.ShellExecutable)
	assert.True(t, cfg.Verbose)
}

func TestLoadDefaultFile(t *testing.T) {
	ctx := context.Background()

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "dffs"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dffs", "config.toml"), []byte("no_shell = true\n"), 0o600))

	assert.Equal(t, filepath.Join(dir, "dffs", "config.toml"), config.DefaultFile())

	cfg, err := config.Load(ctx, nil, config.WithGitConfig(noGitConfig))
	require.NoError(t, err)
	assert.True(t, cfg.NoShell)
	assert.Equal(t, config.DefaultFile(), cfg.File)
}

func TestLoadErrors(t *testing.T) {
	ctx := context.Background()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	_, err := config.Load(ctx, nil, config.WithFile(filepath.Join(t.TempDir(), "missing.toml")))
	assert.Error(t, err)

	_, err = config.Load(ctx, nil, config.WithFile(writeConfig(t, "color = \"sometimes\"\n")), config.WithGitConfig(noGitConfig))
	assert.Error(t, err)

	_, err = config.Load(ctx, nil, config.WithFile(writeConfig(t, "this is not toml")), config.WithGitConfig(noGitConfig))
	assert.Error(t, err)

	gitErr := errors.New("git exploded")
	_, err = config.Load(ctx, nil, config.WithGitConfig(func(context.Context) (map[string]string, error) {
		return nil, gitErr
	}))
	assert.ErrorIs(t, err, gitErr)
}

func TestParseColor(t *testing.T) {
	t.Parallel()

	for in, expected := range map[string]string{
		"":       config.ColorAuto,
		"auto":   config.ColorAuto,
		"Always": config.ColorAlways,
		"true":   config.ColorAlways,
		"never":  config.ColorNever,
		"0":      config.ColorNever,
	} {
		actual, err := config.ParseColor(in)
		require.NoError(t, err)
		assert.Equal(t, expected, actual, in)
	}

	_, err := config.ParseColor("sometimes")
	assert.Error(t, err)
}

func TestUseColor(t *testing.T) {
	t.Parallel()

	assert.True(t, config.UseColor(config.ColorAlways, false))
	assert.False(t, config.UseColor(config.ColorNever, true))
	assert.True(t, config.UseColor(config.ColorAuto, true))
	assert.False(t, config.UseColor(config.ColorAuto, false))
}
