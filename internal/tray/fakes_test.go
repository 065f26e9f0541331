package tray

import (
	"context"
	"errors"
	"sync"

	"github.com/jqntn/timetracker/internal/updater"
)

// memStore is an in-memory settings.Store.
type memStore struct {
	values  map[string]uint32
	getErr  error
	setErr  map[string]error
	setLogs []string
}

func newMemStore() *memStore {
	return &memStore{values: map[string]uint32{}, setErr: map[string]error{}}
}

func (s *memStore) Get(key string) (uint32, bool, error) {
	if s.getErr != nil {
		return 0, false, s.getErr
	}
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *memStore) Set(key string, value uint32) error {
	if err := s.setErr[key]; err != nil {
		return err
	}
	s.values[key] = value
	s.setLogs = append(s.setLogs, key)
	return nil
}

// fakeRegistrar records login-startup registrations.
type fakeRegistrar struct {
	enabled   bool
	exe       string
	enables   int
	disables  int
	enableErr error
	queryErr  error
}

func (r *fakeRegistrar) Enable(exePath string) error {
	if r.enableErr != nil {
		return r.enableErr
	}
	r.enabled = true
	r.exe = exePath
	r.enables++
	return nil
}

func (r *fakeRegistrar) Disable() error {
	r.enabled = false
	r.disables++
	return nil
}

func (r *fakeRegistrar) IsEnabled() (bool, error) {
	if r.queryErr != nil {
		return false, r.queryErr
	}
	return r.enabled, nil
}

func (r *fakeRegistrar) WatchPaths() []string { return nil }

// fakeUpdater counts update checks.
type fakeUpdater struct {
	calls int
	err   error
}

func (u *fakeUpdater) CheckAndApply(ctx context.Context, repo updater.Repo, current string) (*updater.Status, error) {
	u.calls++
	if u.err != nil {
		return nil, u.err
	}
	return &updater.Status{Version: current}, nil
}

// fakeWindow is a content window driven by the test.
type fakeWindow struct {
	mu       sync.Mutex
	fronted  int
	closes   int
	onClosed func()
}

func (w *fakeWindow) BringToFront() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.fronted++
	return nil
}

func (w *fakeWindow) Close() error {
	w.mu.Lock()
	w.closes++
	w.mu.Unlock()
	return nil
}

// userClose simulates the user closing the window.
func (w *fakeWindow) userClose() {
	w.onClosed()
}

// fakeOpener hands out fakeWindows and remembers them.
type fakeOpener struct {
	windows []*fakeWindow
	err     error
}

func (o *fakeOpener) Open(onClosed func()) (Window, error) {
	if o.err != nil {
		return nil, o.err
	}
	w := &fakeWindow{onClosed: onClosed}
	o.windows = append(o.windows, w)
	return w, nil
}

// fakeMenu records the check marks.
type fakeMenu struct {
	startup, update bool
}

func (m *fakeMenu) SetStartupChecked(checked bool) { m.startup = checked }
func (m *fakeMenu) SetUpdateChecked(checked bool)  { m.update = checked }

type fixture struct {
	c         *Coordinator
	store     *memStore
	registrar *fakeRegistrar
	updater   *fakeUpdater
	opener    *fakeOpener
	menu      *fakeMenu
}

var errBoom = errors.New("boom")

func newFixture() *fixture {
	f := &fixture{
		store:     newMemStore(),
		registrar: &fakeRegistrar{},
		updater:   &fakeUpdater{},
		opener:    &fakeOpener{},
		menu:      &fakeMenu{},
	}
	f.c = New(Options{
		Store:      f.store,
		Registrar:  f.registrar,
		Updater:    f.updater,
		Opener:     f.opener,
		Repo:       updater.Repo{Owner: "jqntn", Name: "timetracker", Bin: "timetracker"},
		Version:    "1.0.0",
		Executable: func() (string, error) { return "/opt/timetracker/timetracker", nil },
	})
	f.c.menu = f.menu
	return f
}

// handle feeds one event synchronously.
func (f *fixture) handle(kind EventKind) error {
	return f.c.Handle(context.Background(), Event{Kind: kind})
}

// drain handles every queued event, e.g. close notifications.
func (f *fixture) drain() {
	for {
		select {
		case ev := <-f.c.events:
			_ = f.c.Handle(context.Background(), ev)
		default:
			return
		}
	}
}
