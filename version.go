package main

import "fmt"

// Version and Commit are set via ldflags at build time.
// Example: go build -ldflags "-X main.Version=1.0.0"
var (
	Version = "dev"
	Commit  = "unknown"
)

// BuildVersion returns the version string used in startup logs and /health.
func BuildVersion() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}
