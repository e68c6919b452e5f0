package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer guards a bytes.Buffer written by the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerDrawsAndClears(t *testing.T) {
	var out syncBuffer
	s := startSpinnerTo(context.Background(), &out, "Loading events...")
	time.Sleep(3 * spinnerInterval)
	s.Update("Computing layout...")
	time.Sleep(3 * spinnerInterval)
	s.Stop()

	got := out.String()
	if !strings.Contains(got, "Loading events...") {
		t.Errorf("first message not drawn: %q", got)
	}
	if !strings.Contains(got, "Computing layout...") {
		t.Errorf("updated message not drawn: %q", got)
	}
	if !strings.HasSuffix(got, "\r") {
		t.Errorf("line not cleared after stop: %q", got)
	}
}

func TestSpinnerStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := startSpinnerTo(ctx, &syncBuffer{}, "waiting")
	cancel()

	select {
	case <-s.exited:
	case <-time.After(time.Second):
		t.Fatal("spinner kept running after context cancel")
	}
	s.Stop()
	s.Stop()
}
