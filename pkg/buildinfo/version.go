// Package buildinfo reports which build of stackdraw is running.
//
// Release builds stamp the variables with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/stackdraw/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/stackdraw/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/stackdraw/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Unstamped builds fall back to the VCS settings the toolchain embeds.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}
	for _, s := range info.Settings {
		switch {
		case s.Key == "vcs.revision" && Commit == "none":
			Commit = s.Value
		case s.Key == "vcs.time" && Date == "unknown":
			Date = s.Value
		}
	}
}

// Short is the commit abbreviated to 12 characters.
func Short() string {
	if len(Commit) > 12 {
		return Commit[:12]
	}
	return Commit
}

// String is a one-line summary such as "v0.3.0 (1a2b3c4d5e6f, 2026-01-02T03:04:05Z)".
func String() string {
	return fmt.Sprintf("%s (%s, %s)", Version, Short(), Date)
}

// Template is the cobra version template.
func Template() string {
	return "{{.Name}} " + String() + "\n"
}
