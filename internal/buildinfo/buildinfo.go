// Package buildinfo holds version information injected at build time via ldflags:
//
//	go build -ldflags "-X github.com/jqntn/timetracker/internal/buildinfo.Version=1.2.0"
package buildinfo

var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

// IsDev reports whether the binary was built without an injected version.
func IsDev() bool {
	return Version == "" || Version == "dev"
}
