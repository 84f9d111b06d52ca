package testutils

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// NewRepository creates a new, empty, non-bare Git repository in a
// temporary directory that is removed when the test is done, and
// returns its path (with any symlinks resolved, so that it can be
// compared to what Git reports).
func NewRepository(t *testing.T) string {
	t.Helper()

	repoPath, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, GitCommand(t, repoPath, "init", "--quiet").Run(), "initializing repository")
	ConfigAdd(t, repoPath, "commit.gpgsign", "false")

	return repoPath
}

func GitCommand(t *testing.T, repoPath string, args ...string) *exec.Cmd {
	t.Helper()

	gitArgs := []string{"-C", repoPath}
	gitArgs = append(gitArgs, args...)
	cmd := exec.Command("git", gitArgs...)
	cmd.Env = append(os.Environ(), "GIT_CONFIG_NOSYSTEM=1")
	return cmd
}

// WriteFile writes `contents` to the file at `relativePath` within
// the working tree at `repoPath`, creating directories as needed,
// without adding it to the index.
func WriteFile(t *testing.T, repoPath string, relativePath, contents string) {
	t.Helper()

	dirPath := filepath.Dir(relativePath)
	if dirPath != "." {
		require.NoError(t, os.MkdirAll(filepath.Join(repoPath, dirPath), 0o777), "creating subdir")
	}

	filename := filepath.Join(repoPath, relativePath)
	require.NoErrorf(t, os.WriteFile(filename, []byte(contents), 0o666), "writing file %q", filename)
}

// AddFile writes a file (like `WriteFile()`) and adds it to the index.
func AddFile(t *testing.T, repoPath string, relativePath, contents string) {
	t.Helper()

	WriteFile(t, repoPath, relativePath, contents)

	cmd := GitCommand(t, repoPath, "add", relativePath)
	require.NoErrorf(t, cmd.Run(), "adding file %q", relativePath)
}

// Commit commits whatever is in the index, with a fixed author and a
// timestamp that is advanced after each use.
func Commit(t *testing.T, repoPath string, timestamp *time.Time, message string) {
	t.Helper()

	cmd := GitCommand(t, repoPath, "commit", "--quiet", "--allow-empty", "-m", message)
	AddAuthorInfo(cmd, timestamp)
	out, err := cmd.CombinedOutput()
	require.NoErrorf(t, err, "committing: %s", out)
}

func AddAuthorInfo(cmd *exec.Cmd, timestamp *time.Time) {
	if cmd.Env == nil {
		cmd.Env = os.Environ()
	}
	cmd.Env = append(cmd.Env,
		"GIT_AUTHOR_NAME=Arthur",
		"GIT_AUTHOR_EMAIL=arthur@example.com",
		fmt.Sprintf("GIT_AUTHOR_DATE=%d -0700", timestamp.Unix()),
		"GIT_COMMITTER_NAME=Constance",
		"GIT_COMMITTER_EMAIL=constance@example.com",
		fmt.Sprintf("GIT_COMMITTER_DATE=%d -0700", timestamp.Unix()),
	)
	*timestamp = timestamp.Add(60 * time.Second)
}

// ConfigAdd adds a key-value pair to the gitconfig in the repository
// at `repoPath`.
func ConfigAdd(t *testing.T, repoPath string, key, value string) {
	t.Helper()

	err := GitCommand(t, repoPath, "config", "--add", key, value).Run()
	require.NoError(t, err)
}
