package gamedata

import (
	"os"
	"sync"
	"time"
)

// FileWatcher polls file modification times and triggers a callback on
// change. Files that appear or disappear count as changes.
type FileWatcher struct {
	Paths    []string
	Interval time.Duration

	onChange  func(string) // called with path that changed
	stopCh    chan struct{}
	stopOnce  sync.Once
	lastMTime map[string]time.Time // zero time: file absent
}

// NewFileWatcher creates a watcher for given paths and interval.
func NewFileWatcher(paths []string, interval time.Duration, onChange func(string)) *FileWatcher {
	return &FileWatcher{
		Paths:     paths,
		Interval:  interval,
		onChange:  onChange,
		stopCh:    make(chan struct{}),
		lastMTime: make(map[string]time.Time),
	}
}

// WatchLoader invalidates l whenever one of its override files changes.
// notify, if non-nil, runs after each invalidation.
func WatchLoader(l *Loader, interval time.Duration, notify func(string)) *FileWatcher {
	return NewFileWatcher(l.Paths().Overrides(), interval, func(path string) {
		l.Invalidate()
		if notify != nil {
			notify(path)
		}
	})
}

// Start begins polling in a goroutine.
func (w *FileWatcher) Start() {
	// prime before returning so edits right after Start are seen
	w.scanAll(true)
	ticker := time.NewTicker(w.Interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				w.scanAll(false)
			case <-w.stopCh:
				return
			}
		}
	}()
}

// Stop terminates the watcher. It is safe to call more than once.
func (w *FileWatcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
}

// scanAll checks mtimes and invokes onChange for files that changed since last scan.
func (w *FileWatcher) scanAll(prime bool) {
	for _, p := range w.Paths {
		var mt time.Time
		if fi, err := os.Stat(p); err == nil {
			mt = fi.ModTime()
		}
		last, ok := w.lastMTime[p]
		w.lastMTime[p] = mt
		if prime || !ok {
			continue
		}
		if !mt.Equal(last) && w.onChange != nil {
			w.onChange(p)
		}
	}
}
