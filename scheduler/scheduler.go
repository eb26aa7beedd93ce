// Package scheduler drives the periodic tick that invokes the engine's
// handle_periodic on a fixed cadence.
//
// Adapted from the teacher's timer/timer.go, which wraps time.AfterFunc
// with Reset/Stop/Running so a one-shot callback can be rearmed. The
// periodic driver needs the same callback-after-interval primitive but
// run forever, not once, so New below rearms itself after every fire
// instead of exposing a Reset the caller must remember to call — and,
// per design note 9 ("No cancellation exists today; implementers
// should add a shutdown signal"), adds a Stop that's safe to call more
// than once and after which no further tick is scheduled (a tick
// already running when Stop is called still completes).
package scheduler

import (
	"sync"
	"time"
)

// Ticker invokes a function on every tick of a fixed interval, until
// stopped.
type Ticker struct {
	interval time.Duration
	fn       func()

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
	done    chan struct{}
}

// New creates and starts a Ticker that calls fn every interval. The
// first call to fn happens after one interval has elapsed, mirroring
// the teacher's timer.New (and the original C's periodic_callback_manager
// thread, which sleeps before its first callback too).
func New(interval time.Duration, fn func()) *Ticker {
	t := &Ticker{
		interval: interval,
		fn:       fn,
		done:     make(chan struct{}),
	}
	t.timer = time.AfterFunc(interval, t.fire)
	return t
}

func (t *Ticker) fire() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()

	t.fn()

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.timer.Reset(t.interval)
}

// Stop cancels future ticks. Safe to call more than once; a tick
// already in flight when Stop is called still runs to completion, but
// no further tick is scheduled after it.
func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.stopped = true
	t.timer.Stop()
	close(t.done)
}

// Stopped reports whether Stop has been called.
func (t *Ticker) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// Done returns a channel closed once Stop has been called, for callers
// that want to select on shutdown rather than poll Stopped.
func (t *Ticker) Done() <-chan struct{} {
	return t.done
}
