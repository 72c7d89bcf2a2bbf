// Package version provides build information for agence.
package version

// Version is overridden at build time using ldflags.
var Version = "development"

// Commit is the git commit hash, overridden at build time using ldflags.
var Commit = "unknown"

// String returns the version with the commit appended when it is known.
func String() string {
	if Commit != "unknown" && Commit != "" {
		return Version + "+" + Commit
	}
	return Version
}
