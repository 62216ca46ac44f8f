package version

import (
	"fmt"
	"runtime"
)

// Build metadata, set from main via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func GetVersion() string {
	return Version
}

// GetVersionInfo includes commit, build date and platform for release
// builds.
func GetVersionInfo() string {
	if Version == "dev" {
		return fmt.Sprintf("quotes dev (%s/%s)", runtime.GOOS, runtime.GOARCH)
	}
	return fmt.Sprintf("quotes %s (commit: %s, built: %s, %s/%s)",
		Version, Commit, Date, runtime.GOOS, runtime.GOARCH)
}

// GetShortVersion is shown in the TUI header.
func GetShortVersion() string {
	return "quotes " + Version
}
