package version

import "fmt"

// Version and Commit are set at build time with -ldflags
var (
	Version = "dev"
	Commit  = "none"
)

func String() string {
	if Commit == "none" {
		return Version
	}
	return fmt.Sprintf("%s (%s)", Version, Commit)
}
