// Package watch drives the periodic re-evaluation of the task snapshot,
// standing in for the live-query subscriptions of a document store: each
// tick is one full recomputation pass, passes never overlap, and teardown is
// idempotent.
package watch

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// PassRunner is one full evaluation pass over the current snapshot.
type PassRunner interface {
	RunPass(now time.Time)
}

// Watcher runs evaluation passes on an interval until stopped.
type Watcher struct {
	runner   PassRunner
	interval time.Duration
	log      *zap.Logger

	mu       sync.Mutex
	started  bool
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// New creates a Watcher. Start must be called to begin passes.
func New(runner PassRunner, interval time.Duration, log *zap.Logger) *Watcher {
	return &Watcher{
		runner:   runner,
		interval: interval,
		log:      log,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the watch loop. Passes run strictly one at a time: the next
// tick is not consumed until the previous pass and its side effects finish.
// Calling Start twice is a no-op.
func (w *Watcher) Start() {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return
	}
	w.started = true
	w.mu.Unlock()

	go func() {
		defer close(w.done)

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		w.log.Info("watcher started", zap.Duration("interval", w.interval))

		for {
			select {
			case <-w.stop:
				return
			case now := <-ticker.C:
				// Re-check before running: a Stop racing a tick must win.
				select {
				case <-w.stop:
					return
				default:
				}
				w.runner.RunPass(now)
			}
		}
	}()
}

// Stop halts the loop and waits for any in-flight pass to finish. Safe to
// call any number of times, even before Start; no pass starts after Stop
// returns.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stop)
	})

	w.mu.Lock()
	started := w.started
	w.mu.Unlock()
	if started {
		<-w.done
	}

	w.log.Info("watcher stopped")
}
