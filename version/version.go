// Package version holds build metadata injected at link time.
package version

import "runtime"

// Set via -ldflags "-X github.com/triagekit/triage/version.GitRelease=...".
var (
	GitRelease    = "dev"
	GitCommit     = "unknown"
	GitCommitDate = "unknown"
)

// GoInfo is the Go toolchain version used to build the binary.
var GoInfo = runtime.Version()
