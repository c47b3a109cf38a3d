// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package monitor

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestProgressIsLogged(t *testing.T) {
	var buf bytes.Buffer
	var mu sync.Mutex
	handler := slog.NewTextHandler(&lockedWriter{w: &buf, mu: &mu}, nil)
	n := New(slog.New(handler))
	defer n.Close()

	n.Progress("answers", 12, 30)

	// The drain goroutine logs asynchronously
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		logged := buf.String()
		mu.Unlock()
		if strings.Contains(logged, "stage=answers") && strings.Contains(logged, "done=12") {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Error("Progress event never logged")
}

func TestProgressNeverBlocks(t *testing.T) {
	// A notifier that is never drained: fill the channel and keep reporting.
	n := &Notifier{
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		events: make(chan Event, 4),
		done:   make(chan struct{}),
	}

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			n.Progress("answers", i, 100)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Progress blocked on a full channel")
	}

	if got := n.Dropped(); got != 96 {
		t.Errorf("Dropped() = %d, want 96", got)
	}
}

func TestConcurrentProgress(t *testing.T) {
	n := New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer n.Close()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				n.Progress("answers", j, 50)
			}
		}(i)
	}
	wg.Wait()
	n.Reset()
}

type lockedWriter struct {
	w  io.Writer
	mu *sync.Mutex
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}
