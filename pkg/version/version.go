// Package version holds the build version, set via ldflags:
//
//	go build -ldflags "-X github.com/chazu/facesvg/pkg/version.Version=1.4.0"
package version

import "fmt"

// These variables are set via ldflags during build
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// GetVersion returns the version string. It is also written into every
// document as the shaper:sketchupaddin attribute.
func GetVersion() string {
	return Version
}

// GetFullVersion returns the version with commit and build date.
func GetFullVersion() string {
	if Version == "dev" {
		return "dev"
	}
	return fmt.Sprintf("%s (%s, built %s)", Version, GitCommit, BuildDate)
}
