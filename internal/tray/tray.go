package tray

import (
	"context"
	"log"
	"time"

	"github.com/jqntn/timetracker/internal/settings"
)

// Menu labels shared by the platform bindings.
const (
	labelShow    = "Show records"
	labelStartup = "Run at startup"
	labelUpdate  = "Auto update"
	labelExit    = "Exit"
)

// menuSyncTimeout bounds how long a right click waits for the check marks
// to be refreshed before the menu is shown anyway.
const menuSyncTimeout = 250 * time.Millisecond

// RunOptions configures the systray binding.
type RunOptions struct {
	Tooltip string
	// WatchPaths are watched for changes that should refresh the menu
	// check marks (settings file, autostart directory).
	WatchPaths []string
	// RefreshEvery re-syncs the check marks periodically, for sources
	// that cannot be watched such as the registry. Zero disables it.
	RefreshEvery time.Duration
}

// Run shows the tray icon and drives c until Exit is selected or ctx is
// cancelled. It blocks the calling goroutine, which must be the main one
// (Cocoa requirement on macOS).
func Run(ctx context.Context, c *Coordinator, opts RunOptions) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	runSystray(ctx, cancel, c, opts)
}

// startLoop runs the coordinator with menu and the refresh producers, and
// calls quit once the loop has returned.
func startLoop(ctx context.Context, c *Coordinator, menu Menu, opts RunOptions, quit func()) {
	go forwardRefreshes(ctx, c, opts)

	go func() {
		if err := c.Run(ctx, menu); err != nil && ctx.Err() == nil {
			log.Printf("[tray] event loop: %v", err)
		}
		quit()
	}()
}

// forwardRefreshes keeps the check marks in sync with changes made outside
// the menu: preferences edited by another process and the startup entry
// toggled by the OS.
func forwardRefreshes(ctx context.Context, c *Coordinator, opts RunOptions) {
	var changes <-chan struct{}
	if len(opts.WatchPaths) > 0 {
		w, err := settings.NewWatcher(opts.WatchPaths...)
		if err != nil {
			log.Printf("[tray] Warning: preferences watcher unavailable: %v", err)
		} else {
			defer w.Stop()
			changes = w.Changes()
		}
	}

	var tick <-chan time.Time
	if opts.RefreshEvery > 0 {
		ticker := time.NewTicker(opts.RefreshEvery)
		defer ticker.Stop()
		tick = ticker.C
	}

	pumpRefreshes(ctx, c, changes, tick)
}

// pumpRefreshes posts EventMenuOpened for every change notification and
// tick until ctx is cancelled or the coordinator stops. Nil channels are
// never selected.
func pumpRefreshes(ctx context.Context, c *Coordinator, changes <-chan struct{}, tick <-chan time.Time) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.Done():
			return
		case <-changes:
			c.Post(Event{Kind: EventMenuOpened})
		case <-tick:
			c.Post(Event{Kind: EventMenuOpened})
		}
	}
}
