// Package version exposes build metadata stamped in at link time.
package version

// Set via -ldflags "-X handlergen/internal/version.Version=..." and friends.
var (
	Version   = "dev"
	GitCommit = ""
	BuildDate = ""
)
