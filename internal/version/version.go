// Package version holds build version information, set via -ldflags at build time.
package version

var (
	// Version is the semantic version of the build.
	Version = "dev"
	// Commit is the git commit the binary was built from.
	Commit = "unknown"
)

// Full returns the version string including the commit.
func Full() string {
	return "meetlog-capture " + Version + " (" + Commit + ")"
}
