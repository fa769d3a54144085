package store

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow suppresses the burst of write events SQLite produces for
// a single logical change.
const debounceWindow = 250 * time.Millisecond

// Watcher observes the database file and invokes a callback when it
// changes, so the view can reload as if from a cold start.
type Watcher struct {
	watcher  *fsnotify.Watcher
	onChange func()

	mu   sync.Mutex
	last time.Time
	done chan struct{}
}

// NewWatcher starts watching path and calls onChange on modification.
func NewWatcher(path string, onChange func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		_ = fsw.Close()
		return nil, err
	}
	// Watch the directory: SQLite replaces and recreates journal files,
	// and some editors rename over the target.
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &Watcher{
		watcher:  fsw,
		onChange: onChange,
		done:     make(chan struct{}),
	}
	go w.run(absPath)
	return w, nil
}

func (w *Watcher) run(target string) {
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Name != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.mu.Lock()
			now := time.Now()
			fire := now.Sub(w.last) > debounceWindow
			if fire {
				w.last = now
			}
			w.mu.Unlock()
			if fire {
				w.onChange()
			}
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		case <-w.done:
			return
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
