//go:build windows

package singleton

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows"
)

type mutexHandle struct {
	h windows.Handle
}

// acquire creates a named kernel mutex in the session namespace. The kernel
// drops it when the last handle closes, including on abnormal exit.
func acquire(name string) (handle, error) {
	namePtr, err := windows.UTF16PtrFromString(`Local\` + name + "_SingleInstance")
	if err != nil {
		return nil, fmt.Errorf("failed to convert mutex name: %w", err)
	}

	h, err := windows.CreateMutex(nil, false, namePtr)
	if errors.Is(err, windows.ERROR_ALREADY_EXISTS) {
		if h != 0 {
			_ = windows.CloseHandle(h)
		}
		return nil, ErrAlreadyRunning
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create mutex: %w", err)
	}
	return &mutexHandle{h: h}, nil
}

func (m *mutexHandle) release() {
	if m.h != 0 {
		_ = windows.CloseHandle(m.h)
		m.h = 0
	}
}
