package plan_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runsascoded/dffs/internal/plan"
)

func intPtr(i int) *int {
	return &i
}

func TestSplitPaths(t *testing.T) {
	t.Parallel()

	cmds, path1, path2, err := plan.SplitPaths([]string{"sort", "head -n 3", "a.txt", "b.txt"})
	require.NoError(t, err)
	assert.Equal(t, []string{"sort", "head -n 3"}, cmds)
	assert.Equal(t, "a.txt", path1)
	assert.Equal(t, "b.txt", path2)

	cmds, _, _, err = plan.SplitPaths([]string{"a.txt", "b.txt"})
	require.NoError(t, err)
	assert.Empty(t, cmds)

	_, _, _, err = plan.SplitPaths([]string{"a.txt"})
	assert.ErrorIs(t, err, plan.ErrUsage)
}

func TestDiffArgs(t *testing.T) {
	t.Parallel()

	assert.Empty(t, plan.DiffArgs{}.Args())
	assert.Equal(
		t,
		[]string{"-w", "-U", "5", "--color=always"},
		plan.DiffArgs{IgnoreWhitespace: true, Unified: intPtr(5), Color: true}.Args(),
	)
	assert.Equal(t, []string{"-U", "0"}, plan.DiffArgs{Unified: intPtr(0)}.Args())
}

func TestDiff(t *testing.T) {
	t.Parallel()

	p, err := plan.Diff(
		[]string{"sort -u", "head -n 3"}, "a.txt", "my file.txt",
		plan.DiffArgs{IgnoreWhitespace: true}, true,
	)
	require.NoError(t, err)
	assert.False(t, p.IsDirect())
	assert.Equal(t, "diff -w", p.Joiner.String())
	assert.Equal(t, "sort -u a.txt | head -n 3", p.Left.String())
	assert.Equal(t, "sort -u 'my file.txt' | head -n 3", p.Right.String())
	assert.True(t, p.Left[0].IsShell())
}

func TestDiffWithoutShell(t *testing.T) {
	t.Parallel()

	p, err := plan.Diff([]string{"jq -c '.[] | .id'"}, "a.json", "b c.json", plan.DiffArgs{}, false)
	require.NoError(t, err)
	require.Len(t, p.Left, 1)
	assert.False(t, p.Left[0].IsShell())
	assert.Equal(t, []string{"jq", "-c", ".[] | .id", "a.json"}, p.Left[0].Args())
	assert.Equal(t, []string{"jq", "-c", ".[] | .id", "b c.json"}, p.Right[0].Args())

	_, err = plan.Diff([]string{"jq '"}, "a", "b", plan.DiffArgs{}, false)
	assert.ErrorIs(t, err, plan.ErrUsage)
}

func TestDiffDirect(t *testing.T) {
	t.Parallel()

	p, err := plan.Diff(nil, "a.txt", "b.txt", plan.DiffArgs{Color: true}, true)
	require.NoError(t, err)
	require.True(t, p.IsDirect())
	assert.Equal(t, []string{"diff", "--color=always", "a.txt", "b.txt"}, p.Direct.Args())
}

func TestComm(t *testing.T) {
	t.Parallel()

	flags := plan.CommFlags{Exclude1: true, Exclude3: true, CaseInsensitive: true}
	assert.Equal(t, []string{"-1", "-3", "-i"}, flags.Args())

	p, err := plan.Comm([]string{"sort"}, "a", "b", flags, true)
	require.NoError(t, err)
	assert.Equal(t, "comm -1 -3 -i", p.Joiner.String())
	assert.Equal(t, "sort a", p.Left.String())
	assert.Equal(t, "sort b", p.Right.String())

	p, err = plan.Comm(nil, "a", "b", plan.CommFlags{Exclude2: true}, true)
	require.NoError(t, err)
	require.True(t, p.IsDirect())
	assert.Equal(t, []string{"comm", "-2", "a", "b"}, p.Direct.Args())
}

func TestParseRefspec(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name            string
		refspec, ref    string
		cached          bool
		expectedText    string
		expectedRef1    string
		expectedRef2    string
		expectedIsError bool
	}{
		{name: "default", expectedText: "HEAD", expectedRef1: "HEAD"},
		{name: "cached", cached: true, expectedText: "HEAD", expectedRef1: "HEAD"},
		{name: "one-commit", refspec: "v1.0", expectedText: "v1.0", expectedRef1: "v1.0"},
		{name: "range", refspec: "HEAD~2..HEAD", expectedText: "HEAD~2..HEAD", expectedRef1: "HEAD~2", expectedRef2: "HEAD"},
		{name: "open-range", refspec: "main..", expectedText: "main..", expectedRef1: "main", expectedRef2: "HEAD"},
		{name: "ref", ref: "abc123", expectedText: "abc123^..abc123", expectedRef1: "abc123^", expectedRef2: "abc123"},
		{name: "two-options", refspec: "HEAD", ref: "HEAD", expectedIsError: true},
		{name: "ref-and-cached", ref: "HEAD", cached: true, expectedIsError: true},
		{name: "empty-range", refspec: "..", expectedIsError: true},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			r, err := plan.ParseRefspec(tc.refspec, tc.ref, tc.cached)
			if tc.expectedIsError {
				assert.ErrorIs(t, err, plan.ErrUsage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedText, r.Text)
			assert.Equal(t, tc.expectedRef1, r.Ref1)
			assert.Equal(t, tc.expectedRef2, r.Ref2)
			assert.Equal(t, tc.cached, r.Cached)
		})
	}
}

func TestSplitGitArgs(t *testing.T) {
	t.Parallel()

	cmds, paths, err := plan.SplitGitArgs([]string{"wc -l", "foo"})
	require.NoError(t, err)
	assert.Equal(t, []string{"wc -l"}, cmds)
	assert.Equal(t, []string{"foo"}, paths)

	cmds, paths, err = plan.SplitGitArgs([]string{"sort -rn", "head", "-", "file1", "file2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"sort -rn", "head"}, cmds)
	assert.Equal(t, []string{"file1", "file2"}, paths)

	cmds, paths, err = plan.SplitGitArgs([]string{"foo"})
	require.NoError(t, err)
	assert.Empty(t, cmds)
	assert.Equal(t, []string{"foo"}, paths)

	_, _, err = plan.SplitGitArgs(nil)
	assert.ErrorIs(t, err, plan.ErrUsage)

	_, _, err = plan.SplitGitArgs([]string{"cat", "-"})
	assert.ErrorIs(t, err, plan.ErrUsage)
}

func TestGitDiff(t *testing.T) {
	t.Parallel()

	cmds := []string{"sort", "uniq -c"}

	t.Run("worktree", func(t *testing.T) {
		t.Parallel()

		r, err := plan.ParseRefspec("", "", false)
		require.NoError(t, err)
		p, err := plan.GitDiff(cmds, "my file", "sub/", r, plan.DiffArgs{}, true)
		require.NoError(t, err)
		assert.Equal(t, "diff", p.Joiner.String())
		assert.Equal(t, "git show 'HEAD:sub/my file' | sort | uniq -c", p.Left.String())
		assert.Equal(t, "sort 'my file' | uniq -c", p.Right.String())
	})

	t.Run("two-commits", func(t *testing.T) {
		t.Parallel()

		r, err := plan.ParseRefspec("HEAD^..HEAD", "", false)
		require.NoError(t, err)
		p, err := plan.GitDiff(cmds, "f", "", r, plan.DiffArgs{Color: true}, true)
		require.NoError(t, err)
		assert.Equal(t, "diff --color=always", p.Joiner.String())
		assert.Equal(t, "git show HEAD^:f | sort | uniq -c", p.Left.String())
		assert.Equal(t, "git show HEAD:f | sort | uniq -c", p.Right.String())
	})

	t.Run("cached", func(t *testing.T) {
		t.Parallel()

		r, err := plan.ParseRefspec("", "", true)
		require.NoError(t, err)
		p, err := plan.GitDiff(cmds, "../up.txt", "sub/", r, plan.DiffArgs{}, false)
		require.NoError(t, err)
		assert.Equal(t, []string{"git", "show", "HEAD:up.txt"}, p.Left[0].Args())
		assert.Equal(t, []string{"git", "show", ":0:up.txt"}, p.Right[0].Args())
		assert.Equal(t, []string{"sort"}, p.Right[1].Args())
		assert.Len(t, p.Right, 3)
	})

	t.Run("direct", func(t *testing.T) {
		t.Parallel()

		r, err := plan.ParseRefspec("", "", true)
		require.NoError(t, err)
		p, err := plan.GitDiff(nil, "f", "sub/", r, plan.DiffArgs{IgnoreWhitespace: true}, true)
		require.NoError(t, err)
		require.True(t, p.IsDirect())
		assert.Equal(t, []string{"git", "diff", "-w", "--cached", "HEAD", "--", "f"}, p.Direct.Args())
	})
}
