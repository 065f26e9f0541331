package tray

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/jqntn/timetracker/internal/settings"
	"github.com/jqntn/timetracker/internal/startup"
	"github.com/jqntn/timetracker/internal/updater"
)

const eventBuffer = 16

// Options configures a Coordinator.
type Options struct {
	Store     settings.Store
	Registrar startup.Registrar
	Updater   Updater
	Opener    WindowOpener

	Repo    updater.Repo
	Version string

	// Executable resolves the path registered for login startup.
	// Defaults to startup.Executable.
	Executable func() (string, error)
}

// Coordinator owns the content window handle and reacts to tray events.
// All handlers run on the goroutine calling Run, so the window handle and
// the cached menu state need no locking; other goroutines only Post.
type Coordinator struct {
	store      settings.Store
	registrar  startup.Registrar
	updater    Updater
	opener     WindowOpener
	repo       updater.Repo
	version    string
	executable func() (string, error)

	menu           Menu
	startupChecked bool
	updateChecked  bool

	state    State
	window   Window
	windowID uint64
	seq      uint64
	exited   bool

	events   chan Event
	done     chan struct{}
	doneOnce sync.Once
}

// New creates a coordinator in the NoWindow state.
func New(opts Options) *Coordinator {
	exe := opts.Executable
	if exe == nil {
		exe = startup.Executable
	}
	return &Coordinator{
		store:      opts.Store,
		registrar:  opts.Registrar,
		updater:    opts.Updater,
		opener:     opts.Opener,
		repo:       opts.Repo,
		version:    opts.Version,
		executable: exe,
		menu:       nopMenu{},
		state:      NoWindow,
		events:     make(chan Event, eventBuffer),
		done:       make(chan struct{}),
	}
}

// State returns the current window state.
func (c *Coordinator) State() State {
	return c.state
}

// Window returns the active content window, or nil.
func (c *Coordinator) Window() Window {
	return c.window
}

// Done is closed once Run has returned.
func (c *Coordinator) Done() <-chan struct{} {
	return c.done
}

// Post queues an event for the event loop. It never blocks after Run has
// returned; such events are dropped.
func (c *Coordinator) Post(ev Event) {
	select {
	case c.events <- ev:
	case <-c.done:
	}
}

// Sync posts ev and waits until the loop has handled it, the loop has
// stopped, or timeout elapses. It reports whether ev was handled.
func (c *Coordinator) Sync(ev Event, timeout time.Duration) bool {
	ev.handled = make(chan struct{})
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case c.events <- ev:
	case <-c.done:
		return false
	case <-timer.C:
		return false
	}

	select {
	case <-ev.handled:
		return true
	case <-c.done:
		return false
	case <-timer.C:
		return false
	}
}

// Run is the event loop. It syncs the menu once, then handles events one at
// a time until Exit is selected or ctx is cancelled. Handler errors are
// logged here and never stop the loop.
func (c *Coordinator) Run(ctx context.Context, menu Menu) error {
	defer c.doneOnce.Do(func() { close(c.done) })

	if menu != nil {
		c.menu = menu
	}
	if err := c.refreshMenu(); err != nil {
		log.Printf("[tray] %s: %v", EventMenuOpened, err)
	}

	for {
		select {
		case <-ctx.Done():
			c.closeWindow()
			return ctx.Err()
		case ev := <-c.events:
			if err := c.Handle(ctx, ev); err != nil {
				log.Printf("[tray] %s: %v", ev.Kind, err)
			}
			if ev.handled != nil {
				close(ev.handled)
			}
			if c.exited {
				return nil
			}
		}
	}
}

// Handle processes a single event on the caller's goroutine.
func (c *Coordinator) Handle(ctx context.Context, ev Event) error {
	switch ev.Kind {
	case EventActivate:
		return c.activate()
	case EventWindowClosed:
		c.windowClosed(ev.window)
		return nil
	case EventMenuOpened:
		return c.refreshMenu()
	case EventToggleStartup:
		err := c.toggleStartup()
		return errors.Join(err, c.refreshMenu())
	case EventToggleUpdate:
		err := c.toggleUpdate(ctx)
		return errors.Join(err, c.refreshMenu())
	case EventExit:
		c.closeWindow()
		c.exited = true
		return nil
	default:
		return fmt.Errorf("unknown event %d", ev.Kind)
	}
}

// activate opens the content window, or raises it if it is already open.
// At most one window exists: the handle is checked before opening.
func (c *Coordinator) activate() error {
	if c.window != nil {
		return c.window.BringToFront()
	}

	c.seq++
	id := c.seq
	w, err := c.opener.Open(func() {
		c.Post(Event{Kind: EventWindowClosed, window: id})
	})
	if err != nil {
		return fmt.Errorf("open window: %w", err)
	}

	c.window = w
	c.windowID = id
	c.state = WindowOpen
	log.Printf("[tray] Window opened (#%d)", id)

	if err := w.BringToFront(); err != nil {
		return fmt.Errorf("bring window to front: %w", err)
	}
	return nil
}

// windowClosed clears the handle if id is the active window. Notifications
// for any other window are stale and ignored.
func (c *Coordinator) windowClosed(id uint64) {
	if c.window == nil || id != c.windowID {
		return
	}
	c.window = nil
	c.windowID = 0
	c.state = NoWindow
	log.Printf("[tray] Window closed (#%d)", id)
}

// closeWindow asks an open window to close. The handle is cleared when its
// close notification is processed, not here.
func (c *Coordinator) closeWindow() {
	if c.window == nil {
		return
	}
	if err := c.window.Close(); err != nil {
		log.Printf("[tray] close window: %v", err)
	}
}

// refreshMenu syncs both check marks with their sources of truth. It only
// reads; a source that cannot be read leaves its check mark as it was.
func (c *Coordinator) refreshMenu() error {
	var errs []error

	enabled, err := c.registrar.IsEnabled()
	if err != nil {
		errs = append(errs, fmt.Errorf("query startup registration: %w", err))
	} else {
		c.startupChecked = enabled
		c.menu.SetStartupChecked(enabled)
	}

	v, ok, err := c.store.Get(settings.KeyAutoUpdate)
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("read %s: %w", settings.KeyAutoUpdate, err))
	case ok:
		c.updateChecked = settings.Bool(v)
		c.menu.SetUpdateChecked(c.updateChecked)
	}

	return errors.Join(errs...)
}

// toggleStartup flips login startup based on the check mark the user saw.
func (c *Coordinator) toggleStartup() error {
	if c.startupChecked {
		if err := c.registrar.Disable(); err != nil {
			return fmt.Errorf("disable startup: %w", err)
		}
		log.Printf("[tray] Run at startup disabled")
		return nil
	}
	if err := c.enableStartup(); err != nil {
		return err
	}
	log.Printf("[tray] Run at startup enabled")
	return nil
}

func (c *Coordinator) enableStartup() error {
	exe, err := c.executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	if err := c.registrar.Enable(exe); err != nil {
		return fmt.Errorf("enable startup: %w", err)
	}
	return nil
}

// toggleUpdate inverts the persisted AutoUpdate flag (missing or unreadable
// counts as disabled) and immediately re-runs the update check.
func (c *Coordinator) toggleUpdate(ctx context.Context) error {
	next := !settings.Enabled(c.store, settings.KeyAutoUpdate)

	var errs []error
	if err := c.store.Set(settings.KeyAutoUpdate, settings.FromBool(next)); err != nil {
		errs = append(errs, fmt.Errorf("write %s: %w", settings.KeyAutoUpdate, err))
	} else {
		log.Printf("[tray] Auto update set to %v", next)
	}
	errs = append(errs, c.AutoUpdate(ctx))
	return errors.Join(errs...)
}
