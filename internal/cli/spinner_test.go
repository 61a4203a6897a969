package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinner_DrawsAndClears(t *testing.T) {
	var out lockedBuffer
	s := newSpinner("Rendering card.yaml...")
	s.w = &out

	s.Start()
	time.Sleep(3 * spinnerInterval)
	s.Stop()

	got := out.String()
	if !strings.Contains(got, "Rendering card.yaml...") {
		t.Errorf("output missing message: %q", got)
	}
	if !strings.HasSuffix(got, "\r") {
		t.Errorf("line not cleared: %q", got)
	}
}

func TestSpinner_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinnerWithContext(ctx, "x")
	s.w = &lockedBuffer{}
	s.Start()

	cancel()
	select {
	case <-s.stopped:
	case <-time.After(time.Second):
		t.Fatal("spinner did not stop after cancel")
	}
	if !s.Cancelled() {
		t.Error("Cancelled() = false after cancel")
	}
	s.Stop()
}

func TestSpinner_StopIsIdempotent(t *testing.T) {
	s := newSpinner("x")
	s.w = &lockedBuffer{}
	s.Stop()
	s.Start()
	s.Stop()
	s.Stop()
}
