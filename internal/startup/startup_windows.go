//go:build windows

package startup

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows/registry"
)

const runKey = `SOFTWARE\Microsoft\Windows\CurrentVersion\Run`

type runKeyRegistrar struct {
	valueName string
}

// New returns the registrar for appName: a value under
// HKCU\...\CurrentVersion\Run.
func New(appName, _ string) Registrar {
	return &runKeyRegistrar{valueName: appName}
}

func (r *runKeyRegistrar) Enable(exePath string) error {
	k, err := registry.OpenKey(registry.CURRENT_USER, runKey, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("open registry key: %w", err)
	}
	defer k.Close()

	// Quote the path to handle spaces
	return k.SetStringValue(r.valueName, fmt.Sprintf(`"%s"`, exePath))
}

func (r *runKeyRegistrar) Disable() error {
	k, err := registry.OpenKey(registry.CURRENT_USER, runKey, registry.SET_VALUE)
	if err != nil {
		// Key doesn't exist = already unregistered
		return nil
	}
	defer k.Close()

	err = k.DeleteValue(r.valueName)
	if errors.Is(err, registry.ErrNotExist) {
		return nil
	}
	return err
}

func (r *runKeyRegistrar) IsEnabled() (bool, error) {
	k, err := registry.OpenKey(registry.CURRENT_USER, runKey, registry.QUERY_VALUE)
	if errors.Is(err, registry.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("open registry key: %w", err)
	}
	defer k.Close()

	_, _, err = k.GetStringValue(r.valueName)
	if errors.Is(err, registry.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *runKeyRegistrar) WatchPaths() []string {
	return nil
}
