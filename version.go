package main

import "fmt"

var (
	// Set at build time via go build -ldflags
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// GetVersionInfo returns formatted version information
func GetVersionInfo() string {
	return fmt.Sprintf("openclaw-repair v%s (commit: %s, built: %s)", Version, GitCommit, BuildTime)
}

// GetBuildInfo returns detailed build information
func GetBuildInfo() string {
	return fmt.Sprintf("openclaw-repair v%s\nCommit: %s\nBuild Time: %s",
		Version, GitCommit, BuildTime)
}
