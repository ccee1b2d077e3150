package watcher

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

// TestDebouncerCoalesces verifies rapid triggers collapse into one call.
func TestDebouncerCoalesces(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)

	var calls atomic.Int32
	for i := 0; i < 5; i++ {
		d.Trigger(func() { calls.Add(1) })
	}

	time.Sleep(120 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("expected 1 call, got %d", got)
	}
}

// TestDebouncerCancel verifies a cancelled trigger never fires.
func TestDebouncerCancel(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)

	var calls atomic.Int32
	d.Trigger(func() { calls.Add(1) })
	d.Cancel()

	time.Sleep(120 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Errorf("expected no calls after cancel, got %d", got)
	}
}

// TestDebouncerDefaultDuration verifies zero selects the default window.
func TestDebouncerDefaultDuration(t *testing.T) {
	if d := NewDebouncer(0); d.Duration() != DefaultDebounceDuration {
		t.Errorf("unexpected duration %v", d.Duration())
	}
}

// TestWatcherEmitsOnWrite verifies a watched file's change surfaces on
// the Changes channel and an unwatched sibling's does not.
func TestWatcherEmitsOnWrite(t *testing.T) {
	dir := t.TempDir()
	watchedFile := filepath.Join(dir, "ship.obj")
	sibling := filepath.Join(dir, "other.obj")
	for _, p := range []string{watchedFile, sibling} {
		if err := os.WriteFile(p, []byte("v 0 0 0\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	w, err := New(20 * time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Add(watchedFile); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(sibling, []byte("v 1 1 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(watchedFile, []byte("v 2 2 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-w.Changes():
		if got != watchedFile {
			t.Errorf("expected %q, got %q", watchedFile, got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change event")
	}

	// The sibling write must not surface.
	select {
	case got := <-w.Changes():
		t.Errorf("unexpected extra event %q", got)
	case <-time.After(150 * time.Millisecond):
	}
}

// TestWatcherAddIdempotent verifies adding the same file twice is fine.
func TestWatcherAddIdempotent(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.obj")
	if err := os.WriteFile(file, []byte("v 0 0 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(0)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Add(file); err != nil {
		t.Fatal(err)
	}
	if err := w.Add(file); err != nil {
		t.Fatal(err)
	}
}
