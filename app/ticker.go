/*
ticker.go - Background loops driving the live timers

PURPOSE:
  Two tickers keep derived state fresh while the process runs:
  - a fast 1-second loop recomputes every console timer from wall time, so a
    missed tick never loses billed time
  - a slow 60-second loop refreshes the countdown to the next weekly reset

DESIGN:
  - One goroutine per State, both intervals multiplexed in a single select
  - Stop() closes the stop channel and waits; timers never leak past shutdown
  - Intervals are configurable for tests

SEE ALSO:
  - state.go: tick / refreshCountdown, the only calls made from here
*/
package app

import (
	"sync"
	"time"
)

// Ticker drives a State's time-derived updates.
type Ticker struct {
	state *State

	// FastInterval drives session timers (default 1s).
	FastInterval time.Duration
	// SlowInterval drives the weekly-reset countdown (default 60s).
	SlowInterval time.Duration

	mu      sync.Mutex
	stop    chan struct{}
	wg      sync.WaitGroup
	started bool
}

// NewTicker creates a stopped ticker with the default intervals.
func NewTicker(state *State) *Ticker {
	return &Ticker{
		state:        state,
		FastInterval: time.Second,
		SlowInterval: time.Minute,
	}
}

// Start launches the background loop. Starting twice is a no-op.
func (t *Ticker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started {
		return
	}
	t.started = true
	t.stop = make(chan struct{})
	t.wg.Add(1)
	go t.run()
}

// Stop halts the loop and waits for it to exit. Stopping twice is a no-op.
func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.started {
		return
	}
	t.started = false
	close(t.stop)
	t.wg.Wait()
}

func (t *Ticker) run() {
	defer t.wg.Done()

	fast := time.NewTicker(t.FastInterval)
	slow := time.NewTicker(t.SlowInterval)
	defer fast.Stop()
	defer slow.Stop()

	// Refresh once immediately so the header never shows a stale countdown.
	t.state.refreshCountdown()

	for {
		select {
		case <-fast.C:
			t.state.tick()
		case <-slow.C:
			t.state.refreshCountdown()
		case <-t.stop:
			return
		}
	}
}
