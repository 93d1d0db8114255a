// Package build holds the version information stamped in at link time, e.g.
// -ldflags "-X go.trai.ch/gryla/internal/build.Version=v0.3.0".
package build

var (
	// Version is the gryla release.
	Version = "dev"

	// Commit is the source revision the binary was built from, if known.
	Commit = ""
)

// String formats the version for display.
func String() string {
	if Commit == "" {
		return Version
	}
	return Version + " (" + Commit + ")"
}
