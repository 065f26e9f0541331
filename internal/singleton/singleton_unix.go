//go:build !windows

package singleton

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/jqntn/timetracker/internal/config"
)

type flockHandle struct {
	f *os.File
}

// acquire takes an exclusive, non-blocking flock on the lock file. Unlike an
// O_EXCL marker file the lock disappears with the process, so a crash never
// leaves the application unable to start.
func acquire(name string) (handle, error) {
	path, err := config.LockFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve lock path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create lock dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, ErrAlreadyRunning
		}
		return nil, fmt.Errorf("failed to lock %s: %w", path, err)
	}

	// PID is informational only
	_ = f.Truncate(0)
	_, _ = fmt.Fprintf(f, "%d\n", os.Getpid())

	return &flockHandle{f: f}, nil
}

func (h *flockHandle) release() {
	if h.f == nil {
		return
	}
	_ = unix.Flock(int(h.f.Fd()), unix.LOCK_UN)
	h.f.Close()
	h.f = nil
}
