// Package settings persists the agent's user preferences in a key/value
// store scoped to the application.
package settings

// Keys used by the agent. Values are stored as uint32, with 0 meaning false.
const (
	KeyFirstTimeUse = "FirstTimeUse"
	KeyAutoUpdate   = "AutoUpdate"
)

// Store is a key/value store of uint32 values.
type Store interface {
	// Get returns the value for key. ok is false when the key is absent;
	// err is non-nil only when the store itself could not be read.
	Get(key string) (value uint32, ok bool, err error)
	// Set writes the value for key, creating it if needed.
	Set(key string, value uint32) error
}

// Watchable is implemented by stores that live on the filesystem. The
// returned paths are watched to refresh the tray menu when preferences
// change outside the running agent.
type Watchable interface {
	WatchPaths() []string
}

// Bool converts a stored value to a boolean.
func Bool(v uint32) bool {
	return v > 0
}

// FromBool converts a boolean to its stored value.
func FromBool(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// Enabled reads key as a boolean. A missing or unreadable key reads as false.
func Enabled(s Store, key string) bool {
	v, ok, err := s.Get(key)
	if err != nil || !ok {
		return false
	}
	return Bool(v)
}
