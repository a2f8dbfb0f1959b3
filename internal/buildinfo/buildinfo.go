// Package buildinfo carries the identifiers stamped into release
// binaries with -ldflags.
package buildinfo

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Short returns the most specific identifier available: the release
// version, else the commit, else "dev".
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if Commit != "" && Commit != "unknown" {
		return Commit
	}
	return "dev"
}

// Full returns all stamped fields for -version output.
func Full() string {
	return Short() + " (commit " + Commit + ", built " + Date + ")"
}
