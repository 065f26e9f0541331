// Package startup registers the executable to launch at user login.
//
// The registration itself lives outside the process (registry Run key,
// LaunchAgent, XDG autostart entry); IsEnabled always asks the platform.
package startup

import (
	"fmt"
	"os"
	"path/filepath"
)

// Registrar manages the login-startup entry for one application.
type Registrar interface {
	Enable(exePath string) error
	Disable() error
	IsEnabled() (bool, error)
	// WatchPaths lists filesystem locations whose changes may flip
	// IsEnabled. Registry-backed registrars return nil.
	WatchPaths() []string
}

// Executable returns the absolute, symlink-resolved path of the running
// binary.
func Executable() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("get executable path: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	exe, err = filepath.Abs(exe)
	if err != nil {
		return "", fmt.Errorf("abs path: %w", err)
	}
	return exe, nil
}
