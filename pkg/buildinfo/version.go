// Package buildinfo carries version metadata stamped in at build time
// with -ldflags "-X github.com/matzehuels/atlas/pkg/buildinfo.Version=...".
package buildinfo

import "fmt"

// Build metadata, overridden by ldflags on release builds.
var (
	Version = "dev"     // semantic version, e.g. "v0.3.1"
	Commit  = "none"    // git commit SHA
	Date    = "unknown" // build timestamp
)

// String formats the build metadata for display.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template is the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
