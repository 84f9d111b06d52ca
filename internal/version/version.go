// Package version reports the version of the dffs commands.
package version

import (
	"runtime/debug"
	"sync"
)

// Version and Commit can be set at build time, e.g.:
//
//	go build -ldflags "-X github.com/runsascoded/dffs/internal/version.Version=v1.2.3"
//
// Otherwise they are taken from the module build information.
var (
	Version = ""
	Commit  = ""
)

const unknownVersion = "unknown"

// readBuildInfo is replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

var infoMemo struct {
	once    sync.Once
	version string
	sha     string
}

func resolve() {
	infoMemo.once.Do(func() {
		infoMemo.version, infoMemo.sha = fromBuildInfo(Version, Commit)
	})
}

// fromBuildInfo returns the version and (abbreviated) commit, falling
// back to the module build information for anything not set
// explicitly.
func fromBuildInfo(version, commit string) (string, string) {
	if bi, ok := readBuildInfo(); ok {
		if version == "" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			version = bi.Main.Version
		}
		if commit == "" {
			for _, setting := range bi.Settings {
				if setting.Key == "vcs.revision" {
					commit = setting.Value
				}
			}
		}
	}

	if version == "" {
		version = unknownVersion
	}
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return version, commit
}

// String returns the version number, or "unknown".
func String() string {
	resolve()
	return infoMemo.version
}

// SHA returns the abbreviated git commit that the commands were built
// from, or "" if it isn't known.
func SHA() string {
	resolve()
	return infoMemo.sha
}

// Info returns the version followed by the commit, if known; e.g.,
// "v0.3.0 (git: 1a2b3c4)".
func Info() string {
	resolve()
	if infoMemo.sha == "" {
		return infoMemo.version
	}
	return infoMemo.version + " (git: " + infoMemo.sha + ")"
}
