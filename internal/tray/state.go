// Package tray implements the notification-area icon, its menu and the
// lifecycle of the single content window.
package tray

import (
	"context"

	"github.com/jqntn/timetracker/internal/updater"
)

// State is the coordinator's window state.
type State int

const (
	NoWindow State = iota
	WindowOpen
)

func (s State) String() string {
	switch s {
	case NoWindow:
		return "NoWindow"
	case WindowOpen:
		return "WindowOpen"
	default:
		return "unknown"
	}
}

// EventKind identifies what happened in the UI.
type EventKind int

// Events delivered to the coordinator.
const (
	EventActivate      EventKind = iota // primary icon click or "Show records"
	EventWindowClosed                   // the content window went away
	EventMenuOpened                     // menu about to be shown; refresh checks
	EventToggleStartup                  // "Run at startup" selected
	EventToggleUpdate                   // "Auto update" selected
	EventExit                           // "Exit" selected
)

func (k EventKind) String() string {
	switch k {
	case EventActivate:
		return "activate"
	case EventWindowClosed:
		return "window-closed"
	case EventMenuOpened:
		return "menu-opened"
	case EventToggleStartup:
		return "toggle-startup"
	case EventToggleUpdate:
		return "toggle-update"
	case EventExit:
		return "exit"
	default:
		return "unknown"
	}
}

// Event is one UI occurrence. window identifies which window a
// EventWindowClosed refers to; handled, if set, is closed once the loop has
// processed the event.
type Event struct {
	Kind    EventKind
	window  uint64
	handled chan struct{}
}

// Window is the content window as seen by the coordinator.
type Window interface {
	// BringToFront asks the OS to raise and focus the window.
	BringToFront() error
	// Close asks the window to go away. The close notification still
	// arrives through the callback given to Open.
	Close() error
}

// WindowOpener creates the content window. onClosed must be called exactly
// once, from any goroutine, after the window is gone.
type WindowOpener interface {
	Open(onClosed func()) (Window, error)
}

// OpenerFunc adapts a function to WindowOpener.
type OpenerFunc func(onClosed func()) (Window, error)

// Open implements WindowOpener.
func (f OpenerFunc) Open(onClosed func()) (Window, error) {
	return f(onClosed)
}

// Menu is the part of the tray menu the coordinator updates.
type Menu interface {
	SetStartupChecked(checked bool)
	SetUpdateChecked(checked bool)
}

// Updater checks for and installs a newer release.
type Updater interface {
	CheckAndApply(ctx context.Context, repo updater.Repo, current string) (*updater.Status, error)
}

type nopMenu struct{}

func (nopMenu) SetStartupChecked(bool) {}
func (nopMenu) SetUpdateChecked(bool)  {}
