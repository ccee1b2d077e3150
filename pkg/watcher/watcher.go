package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher observes a set of scene files and emits each path on Changes
// after its on-disk content settles. Directories are watched rather than
// the files themselves because editors commonly replace files on save.
type Watcher struct {
	fs      *fsnotify.Watcher
	changes chan string

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	watched    map[string]bool
	debouncers map[string]*Debouncer
	window     time.Duration
}

// New creates a Watcher. A zero debounce window selects the default.
func New(window time.Duration) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		fs:         fs,
		changes:    make(chan string, 16),
		ctx:        ctx,
		cancel:     cancel,
		watched:    make(map[string]bool),
		debouncers: make(map[string]*Debouncer),
		window:     window,
	}

	go w.loop()
	return w, nil
}

// Changes delivers the paths of files whose content changed.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

// Add registers a file for watching.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve watch path: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watched[abs] {
		return nil
	}
	if err := w.fs.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	w.watched[abs] = true
	return nil
}

// Close stops the watcher and releases its resources.
func (w *Watcher) Close() error {
	w.cancel()

	w.mu.Lock()
	for _, d := range w.debouncers {
		d.Cancel()
	}
	w.mu.Unlock()

	return w.fs.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.handle(event.Name)

		case _, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			// Watch errors are transient; keep the loop alive.
		}
	}
}

func (w *Watcher) handle(name string) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return
	}

	w.mu.Lock()
	if !w.watched[abs] {
		w.mu.Unlock()
		return
	}
	d := w.debouncers[abs]
	if d == nil {
		d = NewDebouncer(w.window)
		w.debouncers[abs] = d
	}
	w.mu.Unlock()

	d.Trigger(func() {
		select {
		case w.changes <- abs:
		case <-w.ctx.Done():
		}
	})
}
