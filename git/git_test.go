package git_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runsascoded/dffs/git"
	"github.com/runsascoded/dffs/internal/testutils"
)

func TestOpen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	path := testutils.NewRepository(t)
	testutils.AddFile(t, path, "sub/dir/a.txt", "a\n")

	repo, err := git.Open(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, path, repo.TopLevel())
	assert.Equal(t, "", repo.Prefix())

	repo, err = git.Open(ctx, filepath.Join(path, "sub", "dir"))
	require.NoError(t, err)
	assert.Equal(t, path, repo.TopLevel())
	assert.Equal(t, "sub/dir/", repo.Prefix())
}

func TestOpenNotARepository(t *testing.T) {
	ctx := context.Background()

	dir := t.TempDir()
	t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(dir))

	_, err := git.Open(ctx, dir)
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	ctx := context.Background()

	path := testutils.NewRepository(t)
	testutils.AddFile(t, path, "sub/a.txt", "a\n")
	t.Chdir(filepath.Join(path, "sub"))

	repo, err := git.Default(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sub/", repo.Prefix())

	again, err := git.Default(ctx)
	require.NoError(t, err)
	assert.Same(t, repo, again)
}

func TestGitCommand(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	path := testutils.NewRepository(t)
	testutils.AddFile(t, path, "sub/a.txt", "a\n")
	timestamp := time.Unix(1112911993, 0)
	testutils.Commit(t, path, &timestamp, "Add a.txt")

	repo, err := git.Open(ctx, filepath.Join(path, "sub"))
	require.NoError(t, err)

	// Commands run at the top level, whatever the repository was
	// opened from:
	out, err := repo.GitCommand("show", "HEAD:"+repo.Prefix()+"a.txt").Output()
	require.NoError(t, err)
	assert.Equal(t, "a\n", string(out))
}

func TestConfig(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	path := testutils.NewRepository(t)
	testutils.ConfigAdd(t, path, "dffs.pipefail", "true")
	testutils.ConfigAdd(t, path, "dffs.shell-executable", "/bin/bash")
	testutils.ConfigAdd(t, path, "dffsx.other", "ignored")

	repo, err := git.Open(ctx, path)
	require.NoError(t, err)

	config, err := repo.Config(ctx, "dffs")
	require.NoError(t, err)
	m := config.Map()
	assert.Equal(t, "true", m["pipefail"])
	assert.Equal(t, "/bin/bash", m["shell-executable"])
	assert.NotContains(t, m, "other")
}
