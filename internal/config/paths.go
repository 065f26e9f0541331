// Package config handles application paths, YAML persistence and logging.
package config

import (
	"os"
	"path/filepath"
)

const (
	// LogsDirName is the name of the logs directory inside the app directory.
	LogsDirName = "logs"
)

// File names
const (
	SettingsFileName = "settings.yaml"
	LogFileName      = "agent.log"
	LockFileSuffix   = ".lock"
)

// AppDir returns the per-user application directory
// (e.g. ~/.config/timetracker on Linux, %AppData%\timetracker on Windows).
func AppDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName), nil
}

// SettingsFile returns the path to the settings.yaml file.
func SettingsFile() (string, error) {
	dir, err := AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, SettingsFileName), nil
}

// LogsDir returns the path to the logs directory.
func LogsDir() (string, error) {
	dir, err := AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, LogsDirName), nil
}

// RuntimeDir returns the directory holding per-session runtime files such as
// the single-instance lock. It prefers $XDG_RUNTIME_DIR and falls back to the
// app directory.
func RuntimeDir() (string, error) {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir, nil
	}
	return AppDir()
}

// LockFile returns the path of the single-instance lock file for name.
func LockFile(name string) (string, error) {
	dir, err := RuntimeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name+LockFileSuffix), nil
}

// EnsureLogsDir creates the logs directory if it doesn't exist.
func EnsureLogsDir() error {
	dir, err := LogsDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}
