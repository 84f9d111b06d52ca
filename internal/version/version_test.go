package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromBuildInfo(t *testing.T) {
	saved := readBuildInfo
	t.Cleanup(func() { readBuildInfo = saved })

	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{
			Main: debug.Module{Version: "v0.4.1"},
			Settings: []debug.BuildSetting{
				{Key: "vcs", Value: "git"},
				{Key: "vcs.revision", Value: "0123456789abcdef0123456789abcdef01234567"},
			},
		}, true
	}

	v, sha := fromBuildInfo("", "")
	assert.Equal(t, "v0.4.1", v)
	assert.Equal(t, "0123456", sha)

	// Values set at link time take precedence:
	v, sha = fromBuildInfo("v9.9.9", "fedcba9876")
	assert.Equal(t, "v9.9.9", v)
	assert.Equal(t, "fedcba9", sha)

	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, true
	}
	v, sha = fromBuildInfo("", "")
	assert.Equal(t, "unknown", v)
	assert.Equal(t, "", sha)

	readBuildInfo = func() (*debug.BuildInfo, bool) { return nil, false }
	v, sha = fromBuildInfo("", "abc")
	assert.Equal(t, "unknown", v)
	assert.Equal(t, "abc", sha)
}

func TestInfo(t *testing.T) {
	info := Info()
	assert.NotEmpty(t, info)
	assert.Equal(t, String(), info[:len(String())])
	if SHA() != "" {
		assert.Equal(t, String()+" (git: "+SHA()+")", info)
	}
}
