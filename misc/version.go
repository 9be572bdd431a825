// Package misc keeps build information injected by the linker.
package misc

import (
	"runtime/debug"
)

// Set with -ldflags "-X mixgen/misc.version=... -X mixgen/misc.githash=...".
var (
	version = ""
	githash = ""
)

const appName = "mixgen"

func GetAppName() string {
	return appName
}

// GetVersion returns program version, falling back to module build information
// when nothing was injected at link time.
func GetVersion() string {
	if len(version) > 0 {
		return version
	}
	if bi, ok := debug.ReadBuildInfo(); ok && len(bi.Main.Version) > 0 {
		return bi.Main.Version
	}
	return "(devel)"
}

// GetGitHash returns VCS revision program was built from.
func GetGitHash() string {
	if len(githash) > 0 {
		return githash
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
