// Package version holds build metadata injected at link time via ldflags.
package version

//nolint:gochecknoglobals // These variables are populated by the linker at build time.
var (
	// Version is the semantic version of the build.
	Version = "1.0.0"
	// Commit is the git commit hash of the build.
	Commit = "none"
	// BuildTime is the timestamp of the build.
	BuildTime = "unknown"
)

// Short returns the bare version string.
func Short() string {
	return Version
}

// Full returns the version string with commit and build time.
func Full() string {
	return "version: " + Version + ", commit: " + Commit + ", built at: " + BuildTime
}
