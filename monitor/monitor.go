// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package monitor

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
)

// Event is one progress report from a running question.
type Event struct {
	Stage string
	Done  int
	Total int
	At    time.Time
}

// Notifier receives progress events from questions and logs them. Reporting
// never blocks the caller: if the drain goroutine falls behind, events are
// dropped and counted instead.
type Notifier struct {
	log     *slog.Logger
	events  chan Event
	dropped atomic.Uint64

	mu      sync.Mutex
	started time.Time

	done chan struct{}
}

// New starts a notifier draining into the given logger.
func New(log *slog.Logger) *Notifier {
	n := &Notifier{
		log:    log,
		events: make(chan Event, 64),
		done:   make(chan struct{}),
	}
	n.mu.Lock()
	n.started = time.Now()
	n.mu.Unlock()
	go n.drain()
	return n
}

// Reset marks the start of a new question for elapsed-time reporting.
func (n *Notifier) Reset() {
	n.mu.Lock()
	n.started = time.Now()
	n.mu.Unlock()
}

// Progress reports stage completion, e.g. "answers: 12 of 30". It never
// blocks; an event the drain goroutine cannot accept is dropped.
func (n *Notifier) Progress(stage string, done, total int) {
	select {
	case n.events <- Event{Stage: stage, Done: done, Total: total, At: time.Now()}:
	default:
		n.dropped.Add(1)
	}
}

// Dropped returns how many events were discarded because the channel was full.
func (n *Notifier) Dropped() uint64 {
	return n.dropped.Load()
}

// Close stops the drain goroutine. Pending events are discarded.
func (n *Notifier) Close() {
	close(n.done)
}

func (n *Notifier) drain() {
	for {
		select {
		case ev := <-n.events:
			n.mu.Lock()
			started := n.started
			n.mu.Unlock()
			n.log.Info("progress",
				"stage", ev.Stage,
				"done", ev.Done,
				"total", ev.Total,
				"started", humanize.Time(started),
			)
		case <-n.done:
			return
		}
	}
}
