package app

import (
	"fmt"
	"runtime/debug"
)

// Version, Commit and BuildTime can be set with ldflags, e.g.
// go build -ldflags "-X github.com/heartmarshall/zinote-backend/internal/app.Version=1.0.0" ./cmd/server
// Commit and BuildTime fall back to the VCS stamp the Go toolchain embeds.
var (
	Version   = "dev"
	Commit    = ""
	BuildTime = ""
)

// BuildVersion is the version string reported by startup logs and /health.
func BuildVersion() string {
	return formatVersion(Version, Commit, BuildTime, readVCS)
}

func formatVersion(version, commit, built string, vcs func() (string, string)) string {
	if commit == "" || built == "" {
		rev, at := vcs()
		if commit == "" {
			commit = rev
		}
		if built == "" {
			built = at
		}
	}
	if commit == "" {
		commit = "unknown"
	}
	if built == "" {
		built = "unknown"
	}
	if len(commit) > 12 {
		commit = commit[:12]
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, built)
}

func readVCS() (revision, at string) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", ""
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.time":
			at = s.Value
		}
	}
	return revision, at
}
