package contracts

import (
	"fmt"
	"runtime"
)

// Version is the release of rvolchart
const Version = "1.0.0"

// Set at build time with -ldflags "-X rvolchart/pkg/contracts.GitCommit=..."
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// GetFullVersionString returns the version with build and platform details,
// as printed by --version
func GetFullVersionString() string {
	return fmt.Sprintf("%s (built: %s, commit: %s, %s %s/%s)",
		Version, BuildTime, GitCommit, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
