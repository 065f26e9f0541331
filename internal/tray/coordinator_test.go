package tray

import (
	"context"
	"testing"
	"time"

	"github.com/jqntn/timetracker/internal/settings"
)

func TestActivateOpensSingleWindow(t *testing.T) {
	f := newFixture()

	if f.c.State() != NoWindow || f.c.Window() != nil {
		t.Fatalf("initial state = %v, window = %v", f.c.State(), f.c.Window())
	}

	for i := 0; i < 3; i++ {
		if err := f.handle(EventActivate); err != nil {
			t.Fatalf("activate #%d: %v", i, err)
		}
	}

	if len(f.opener.windows) != 1 {
		t.Fatalf("opened %d windows, want 1", len(f.opener.windows))
	}
	w := f.opener.windows[0]
	if f.c.State() != WindowOpen || f.c.Window() != Window(w) {
		t.Errorf("state = %v, window = %v; want WindowOpen with the opened window", f.c.State(), f.c.Window())
	}
	// Once on open, then once per repeated activation.
	if w.fronted != 3 {
		t.Errorf("BringToFront called %d times, want 3", w.fronted)
	}
}

func TestWindowCloseClearsHandle(t *testing.T) {
	f := newFixture()

	_ = f.handle(EventActivate)
	f.opener.windows[0].userClose()
	f.drain()

	if f.c.State() != NoWindow || f.c.Window() != nil {
		t.Fatalf("after close: state = %v, window = %v", f.c.State(), f.c.Window())
	}

	// A new activation creates a fresh window.
	_ = f.handle(EventActivate)
	if len(f.opener.windows) != 2 {
		t.Fatalf("opened %d windows, want 2", len(f.opener.windows))
	}
	if f.c.Window() != Window(f.opener.windows[1]) {
		t.Error("active window is not the second window")
	}
}

func TestStaleCloseIgnored(t *testing.T) {
	f := newFixture()

	_ = f.handle(EventActivate)
	first := f.opener.windows[0]
	first.userClose()
	f.drain()

	_ = f.handle(EventActivate)
	// A duplicate notification from the first window must not clear the
	// second one.
	first.userClose()
	f.drain()

	if f.c.State() != WindowOpen || f.c.Window() != Window(f.opener.windows[1]) {
		t.Errorf("stale close changed state to %v", f.c.State())
	}
}

func TestHandleInvariantOverScriptedSequence(t *testing.T) {
	f := newFixture()

	script := []string{"activate", "activate", "close", "close", "activate", "menu", "activate", "close", "activate"}
	for i, step := range script {
		switch step {
		case "activate":
			_ = f.handle(EventActivate)
		case "close":
			if w, ok := f.c.Window().(*fakeWindow); ok {
				w.userClose()
			}
			f.drain()
		case "menu":
			_ = f.handle(EventMenuOpened)
		}

		open := 0
		for _, w := range f.opener.windows {
			if w == f.c.Window() {
				open++
			}
		}
		if open > 1 {
			t.Fatalf("step %d (%s): %d windows open", i, step, open)
		}
		if (f.c.Window() == nil) != (f.c.State() == NoWindow) {
			t.Fatalf("step %d (%s): window = %v but state = %v", i, step, f.c.Window(), f.c.State())
		}
	}
	if len(f.opener.windows) != 3 {
		t.Errorf("opened %d windows, want 3", len(f.opener.windows))
	}
}

func TestActivateOpenFailureStaysNoWindow(t *testing.T) {
	f := newFixture()
	f.opener.err = errBoom

	if err := f.handle(EventActivate); err == nil {
		t.Fatal("expected error when the window cannot be opened")
	}
	if f.c.State() != NoWindow || f.c.Window() != nil {
		t.Errorf("state = %v after failed open", f.c.State())
	}
}

func TestMenuOpenedRefreshesChecks(t *testing.T) {
	f := newFixture()
	f.registrar.enabled = true
	f.store.values[settings.KeyAutoUpdate] = 1

	if err := f.handle(EventMenuOpened); err != nil {
		t.Fatalf("menu opened: %v", err)
	}
	if !f.menu.startup || !f.menu.update {
		t.Errorf("menu = %+v, want both checked", f.menu)
	}
	if f.registrar.enables != 0 || f.updater.calls != 0 || len(f.store.setLogs) != 0 {
		t.Error("refresh must not mutate state")
	}
}

func TestMenuOpenedKeepsCheckOnReadFailure(t *testing.T) {
	f := newFixture()
	f.menu.startup = true
	f.registrar.queryErr = errBoom

	if err := f.handle(EventMenuOpened); err == nil {
		t.Error("expected refresh error to be reported")
	}
	if !f.menu.startup {
		t.Error("startup check changed although the query failed")
	}
}

func TestToggleStartup(t *testing.T) {
	f := newFixture()
	_ = f.handle(EventMenuOpened)

	if err := f.handle(EventToggleStartup); err != nil {
		t.Fatalf("toggle on: %v", err)
	}
	if !f.registrar.enabled || f.registrar.exe != "/opt/timetracker/timetracker" {
		t.Fatalf("registrar = %+v, want enabled for the executable", f.registrar)
	}
	if !f.menu.startup {
		t.Error("menu not refreshed after enabling")
	}

	if err := f.handle(EventToggleStartup); err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	if f.registrar.enabled || f.menu.startup {
		t.Errorf("registrar enabled = %v, menu = %v; want both off", f.registrar.enabled, f.menu.startup)
	}
}

func TestToggleStartupFailureIsAbsorbed(t *testing.T) {
	f := newFixture()
	f.registrar.enableErr = errBoom

	if err := f.handle(EventToggleStartup); err == nil {
		t.Error("expected the failure to be reported to the loop")
	}
	if f.registrar.enabled || f.menu.startup {
		t.Error("failed enable must leave startup off")
	}

	f = newFixture()
	f.c.executable = func() (string, error) { return "", errBoom }
	if err := f.handle(EventToggleStartup); err == nil {
		t.Error("expected executable resolution failure")
	}
	if f.registrar.enables != 0 {
		t.Error("registrar called without an executable path")
	}
}

func TestToggleUpdateRoundTrip(t *testing.T) {
	f := newFixture()

	// Missing counts as disabled: first toggle enables and checks.
	if err := f.handle(EventToggleUpdate); err != nil {
		t.Fatalf("toggle on: %v", err)
	}
	if v := f.store.values[settings.KeyAutoUpdate]; v != 1 {
		t.Fatalf("AutoUpdate = %d, want 1", v)
	}
	if f.updater.calls != 1 {
		t.Errorf("update checks = %d, want 1 after enabling", f.updater.calls)
	}
	if !f.menu.update {
		t.Error("menu not checked after enabling")
	}

	if err := f.handle(EventToggleUpdate); err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	if v := f.store.values[settings.KeyAutoUpdate]; v != 0 {
		t.Fatalf("AutoUpdate = %d, want 0", v)
	}
	if f.updater.calls != 1 {
		t.Errorf("update checks = %d, want still 1 after disabling", f.updater.calls)
	}
	if f.menu.update {
		t.Error("menu still checked after disabling")
	}
}

func TestToggleUpdateFromStoredValue(t *testing.T) {
	f := newFixture()
	f.store.values[settings.KeyAutoUpdate] = 0

	_ = f.handle(EventToggleUpdate)
	_ = f.handle(EventToggleUpdate)

	if v := f.store.values[settings.KeyAutoUpdate]; v != 0 {
		t.Errorf("AutoUpdate = %d after two toggles, want original 0", v)
	}
}

func TestExitClosesWindowAndStopsRun(t *testing.T) {
	f := newFixture()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result := make(chan error, 1)
	go func() { result <- f.c.Run(ctx, f.menu) }()

	f.c.Post(Event{Kind: EventActivate})
	f.c.Post(Event{Kind: EventExit})

	select {
	case err := <-result:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-ctx.Done():
		t.Fatal("Run did not return after Exit")
	}

	if len(f.opener.windows) != 1 || f.opener.windows[0].closes != 1 {
		t.Errorf("window not closed on exit")
	}

	// Posting after Run returned must not block.
	f.opener.windows[0].userClose()
	select {
	case <-f.c.Done():
	default:
		t.Error("Done not closed after Run returned")
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	f := newFixture()
	ctx, cancel := context.WithCancel(context.Background())

	result := make(chan error, 1)
	go func() { result <- f.c.Run(ctx, f.menu) }()
	cancel()

	select {
	case err := <-result:
		if err != context.Canceled {
			t.Errorf("Run() error = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestStateString(t *testing.T) {
	if NoWindow.String() != "NoWindow" || WindowOpen.String() != "WindowOpen" {
		t.Error("unexpected State names")
	}
	if EventToggleUpdate.String() != "toggle-update" {
		t.Errorf("EventToggleUpdate = %q", EventToggleUpdate.String())
	}
}
