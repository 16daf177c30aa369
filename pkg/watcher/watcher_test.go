package watcher

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestWatcherLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sidebar.yaml")
	writeFile(t, path, "navbar: []\n")

	w, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if w.IsStarted() {
		t.Error("watcher started before Start")
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if !w.IsStarted() {
		t.Error("watcher not started after Start")
	}
	if err := w.Start(); err != ErrAlreadyStarted {
		t.Errorf("second Start = %v, want ErrAlreadyStarted", err)
	}

	w.Stop()
	if w.IsStarted() {
		t.Error("watcher still started after Stop")
	}
	// Stop is idempotent.
	w.Stop()
}

func TestWatcherPathIsAbsolute(t *testing.T) {
	w, err := New("relative.yaml")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !filepath.IsAbs(w.Path()) {
		t.Errorf("Path() = %q, want absolute", w.Path())
	}
}

func TestWatcherDetectsChangePolling(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	writeFile(t, path, `{"a": 1}`)

	var changes atomic.Int32
	w, err := New(path,
		WithForcePoll(true),
		WithPollInterval(10*time.Millisecond),
		WithDebounceDuration(5*time.Millisecond),
		WithOnChange(func() { changes.Add(1) }),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if !w.IsPolling() {
		t.Fatal("expected polling mode")
	}

	// mtime resolution can be coarse; changing the size guarantees detection.
	time.Sleep(30 * time.Millisecond)
	writeFile(t, path, `{"a": 1, "b": 2}`)

	select {
	case <-w.Changed():
	case <-time.After(2 * time.Second):
		t.Fatal("no change notification within 2s")
	}
	if changes.Load() == 0 {
		t.Error("OnChange callback not invoked")
	}
}

func TestWatcherDetectsChangeFsnotify(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sidebar.yaml")
	writeFile(t, path, "navbar: []\n")

	w, err := New(path, WithDebounceDuration(5*time.Millisecond))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if w.IsPolling() {
		t.Skip("fsnotify unavailable, covered by the polling test")
	}

	writeFile(t, path, "navbar: [changed]\n")

	select {
	case <-w.Changed():
	case <-time.After(2 * time.Second):
		t.Fatal("no change notification within 2s")
	}
}

func TestWatcherMissingFileStarts(t *testing.T) {
	// Watching a not-yet-created file is allowed; the create shows up as a
	// change.
	dir := t.TempDir()
	path := filepath.Join(dir, "later.yaml")

	w, err := New(path,
		WithForcePoll(true),
		WithPollInterval(10*time.Millisecond),
		WithDebounceDuration(5*time.Millisecond),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start with missing file: %v", err)
	}
	defer w.Stop()

	time.Sleep(30 * time.Millisecond)
	writeFile(t, path, "navbar: []\n")

	select {
	case <-w.Changed():
	case <-time.After(2 * time.Second):
		t.Fatal("file creation not detected within 2s")
	}
}
