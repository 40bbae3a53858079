// Package version holds build metadata injected via ldflags.
package version

import "runtime/debug"

//nolint:revive // Set via ldflags at build time.
var (
	Version = ""
	Commit  = ""
	Date    = ""
)

// String returns the version.
// Priority: ldflags > debug.ReadBuildInfo > "(devel)"
func String() string {
	if Version != "" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}

// ShortCommit returns the commit hash.
// Priority: ldflags > vcs.revision > "unknown"
func ShortCommit() string {
	if Commit != "" {
		return Commit
	}
	if v := buildSetting("vcs.revision"); v != "" {
		if len(v) > 7 {
			return v[:7]
		}
		return v
	}
	return "unknown"
}

// BuildDate returns the build date.
// Priority: ldflags > vcs.time > "unknown"
func BuildDate() string {
	if Date != "" {
		return Date
	}
	if v := buildSetting("vcs.time"); v != "" {
		return v
	}
	return "unknown"
}

func buildSetting(key string) string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}
