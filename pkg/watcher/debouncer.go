// Package watcher re-imports scenes when their source files change on
// disk, coalescing editor save bursts into single reload events.
package watcher

import (
	"sync"
	"time"
)

// DefaultDebounceDuration is the default coalescing window.
const DefaultDebounceDuration = 250 * time.Millisecond

// Debouncer coalesces rapid triggers into a single callback invocation.
// Only the last callback scheduled within the window runs.
type Debouncer struct {
	duration time.Duration
	timer    *time.Timer
	mu       sync.Mutex
	seq      uint64
}

// NewDebouncer creates a Debouncer; a zero duration selects the default.
func NewDebouncer(duration time.Duration) *Debouncer {
	if duration == 0 {
		duration = DefaultDebounceDuration
	}
	return &Debouncer{duration: duration}
}

// Trigger schedules callback after the debounce window. A later Trigger
// before the window elapses replaces the pending callback.
func (d *Debouncer) Trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	seq := d.seq

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, func() {
		d.mu.Lock()
		// Timer races mean Stop() can miss an already-fired timer, so
		// the sequence number decides which scheduled callback wins.
		if seq != d.seq {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()

		callback()
	})
}

// Cancel drops any pending callback.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Duration returns the debounce window.
func (d *Debouncer) Duration() time.Duration {
	return d.duration
}
