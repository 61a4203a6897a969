package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestWatchFile_Debounces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yaml")
	if err := os.WriteFile(path, []byte("name: a\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	other := filepath.Join(dir, "other.yaml")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	fired := make(chan struct{}, 4)
	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, path, 50*time.Millisecond, newLogger(io.Discard, LogInfo), func() {
			calls.Add(1)
			fired <- struct{}{}
		})
	}()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)

	os.WriteFile(other, []byte("ignored"), 0o644)
	for i := 0; i < 3; i++ {
		os.WriteFile(path, []byte("name: b\n"), 0o644)
	}

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("onChange not called")
	}
	time.Sleep(200 * time.Millisecond)
	if n := calls.Load(); n != 1 {
		t.Errorf("onChange called %d times, want 1", n)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("watchFile returned %v, want nil", err)
		}
	case <-time.After(time.Second):
		t.Fatal("watchFile did not stop on cancel")
	}
}

func TestWatchFile_MissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "scene.yaml")
	err := watchFile(context.Background(), path, time.Millisecond, newLogger(io.Discard, LogInfo), func() {})
	if err == nil {
		t.Error("expected error for missing directory")
	}
}
