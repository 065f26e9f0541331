package settings

import (
	"log"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceDelay = 100 * time.Millisecond

// Watcher reports, debounced, that something changed under a set of paths.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	changes   chan struct{}
	done      chan struct{}
	stopOnce  sync.Once

	debounceMu sync.Mutex
	debounce   *time.Timer
}

// NewWatcher starts watching paths. Paths that cannot be watched (for example
// a directory that does not exist yet) are logged and skipped.
func NewWatcher(paths ...string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		changes:   make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
	for _, p := range paths {
		if err := fsWatcher.Add(p); err != nil {
			log.Printf("[watcher] Warning: failed to watch %s: %v", p, err)
		}
	}

	go w.processEvents()
	return w, nil
}

// Changes returns the notification channel. Bursts of filesystem events
// collapse into a single notification.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		_ = w.fsWatcher.Close()

		w.debounceMu.Lock()
		if w.debounce != nil {
			w.debounce.Stop()
		}
		w.debounceMu.Unlock()
	})
}

func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			// Rename matters: SaveYAML writes tmp then renames onto the target.
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			w.debounceEvent()
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Printf("[watcher] error: %v", err)
		}
	}
}

func (w *Watcher) debounceEvent() {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(debounceDelay, w.notify)
}

func (w *Watcher) notify() {
	select {
	case <-w.done:
	case w.changes <- struct{}{}:
	default:
		// a notification is already pending
	}
}
