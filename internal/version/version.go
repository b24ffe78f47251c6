package version

import "fmt"

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/arthur-debert/docsync/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/arthur-debert/docsync/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/arthur-debert/docsync/internal/version.Date={{.Date}}
)

// String renders the build information on one line.
func String() string {
	return fmt.Sprintf("docsync %s (commit %s, built %s)", Version, Commit, Date)
}
