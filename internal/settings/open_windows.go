//go:build windows

package settings

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows/registry"

	"github.com/jqntn/timetracker/internal/config"
)

// RegistryStore keeps preferences as DWORD values under
// HKCU\SOFTWARE\<app>.
type RegistryStore struct {
	path string
}

// Open returns the platform settings store: the application's registry key.
func Open() (Store, error) {
	return &RegistryStore{path: `SOFTWARE\` + config.AppName}, nil
}

// String returns the registry key the values live under.
func (s *RegistryStore) String() string {
	return `HKCU\` + s.path
}

// Get implements Store.
func (s *RegistryStore) Get(key string) (uint32, bool, error) {
	k, _, err := registry.CreateKey(registry.CURRENT_USER, s.path, registry.QUERY_VALUE)
	if err != nil {
		return 0, false, fmt.Errorf("open registry key: %w", err)
	}
	defer k.Close()

	v, _, err := k.GetIntegerValue(key)
	if errors.Is(err, registry.ErrNotExist) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read %s: %w", key, err)
	}
	return uint32(v), true, nil
}

// Set implements Store.
func (s *RegistryStore) Set(key string, value uint32) error {
	k, _, err := registry.CreateKey(registry.CURRENT_USER, s.path, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("open registry key: %w", err)
	}
	defer k.Close()

	if err := k.SetDWordValue(key, value); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
