//go:build !windows

package settings

import "github.com/jqntn/timetracker/internal/config"

// Open returns the platform settings store: settings.yaml in the app
// directory.
func Open() (Store, error) {
	path, err := config.SettingsFile()
	if err != nil {
		return nil, err
	}
	return NewFileStore(path), nil
}
