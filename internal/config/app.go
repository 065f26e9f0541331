package config

// Application identity. AppName must stay stable across versions: it names
// the single-instance lock, the settings location and the startup entry.
const (
	AppName  = "timetracker"
	BundleID = "io.github.jqntn.timetracker"

	// RepoOwner and RepoName identify the GitHub repository releases are
	// published to.
	RepoOwner = "jqntn"
	RepoName  = "timetracker"
)
