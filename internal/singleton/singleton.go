// Package singleton guarantees that only one process of the application runs
// per user session.
package singleton

import "errors"

// ErrAlreadyRunning is returned by Acquire when another process holds the lock.
var ErrAlreadyRunning = errors.New("another instance is already running")

// Lock is a held single-instance lock. It stays valid until Release is called
// or the process exits, whichever comes first.
type Lock struct {
	h handle
}

// Acquire performs a single non-blocking test-and-set of the named lock.
// The name must be stable across versions and builds.
func Acquire(name string) (*Lock, error) {
	if name == "" {
		return nil, errors.New("singleton: empty name")
	}
	h, err := acquire(name)
	if err != nil {
		return nil, err
	}
	return &Lock{h: h}, nil
}

// Release frees the lock. It is safe to call more than once.
func (l *Lock) Release() {
	if l == nil || l.h == nil {
		return
	}
	l.h.release()
	l.h = nil
}

type handle interface {
	release()
}
