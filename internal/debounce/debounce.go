// Package debounce provides a cancellable one-shot timer where scheduling a
// new action cancels the one still pending.
package debounce

import (
	"sync"
	"time"
)

// Stopper cancels a scheduled callback. Stop reports whether the callback
// was prevented from running.
type Stopper interface {
	Stop() bool
}

// Clock schedules callbacks. The real clock is time.AfterFunc.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Stopper
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Stopper { return time.AfterFunc(d, f) }

// RealClock schedules on the runtime timer.
var RealClock Clock = realClock{}

type handleState int

const (
	statePending handleState = iota
	stateFired
	stateCancelled
)

// Handle identifies one scheduled action.
type Handle struct {
	timer   *Timer
	stopper Stopper
	action  func()
	state   handleState
}

// Cancel prevents the action from running. It reports true only when the
// action was still pending.
func (h *Handle) Cancel() bool {
	if h == nil || h.timer == nil {
		return false
	}
	t := h.timer
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancelLocked(h)
}

// Pending reports whether the action has neither run nor been cancelled.
func (h *Handle) Pending() bool {
	if h == nil || h.timer == nil {
		return false
	}
	h.timer.mu.Lock()
	defer h.timer.mu.Unlock()
	return h.state == statePending
}

// Timer holds at most one pending action.
type Timer struct {
	mu      sync.Mutex
	clock   Clock
	pending *Handle
	stopped bool
}

// Option configures a Timer.
type Option func(*Timer)

// WithClock replaces the clock, typically with a fake in tests.
func WithClock(clock Clock) Option {
	return func(t *Timer) {
		if clock != nil {
			t.clock = clock
		}
	}
}

// New returns a Timer on the real clock unless overridden.
func New(opts ...Option) *Timer {
	t := &Timer{clock: RealClock}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Schedule runs action after delay, cancelling any action still pending.
// After Stop, Schedule returns an already-cancelled handle.
func (t *Timer) Schedule(delay time.Duration, action func()) *Handle {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.pending != nil {
		t.cancelLocked(t.pending)
	}
	h := &Handle{timer: t, action: action}
	if t.stopped {
		h.state = stateCancelled
		return h
	}
	t.pending = h
	h.stopper = t.clock.AfterFunc(delay, func() { t.fire(h) })
	return h
}

// Flush runs the pending action immediately on the calling goroutine. It
// reports whether there was one.
func (t *Timer) Flush() bool {
	t.mu.Lock()
	h := t.pending
	if h == nil || h.state != statePending {
		t.mu.Unlock()
		return false
	}
	if h.stopper != nil {
		h.stopper.Stop()
	}
	h.state = stateFired
	t.pending = nil
	t.mu.Unlock()

	h.action()
	return true
}

// Pending reports whether an action is waiting to run.
func (t *Timer) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending != nil && t.pending.state == statePending
}

// Stop cancels the pending action and makes later Schedule calls no-ops.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	if t.pending != nil {
		t.cancelLocked(t.pending)
	}
}

func (t *Timer) fire(h *Handle) {
	t.mu.Lock()
	if h.state != statePending {
		t.mu.Unlock()
		return
	}
	h.state = stateFired
	if t.pending == h {
		t.pending = nil
	}
	t.mu.Unlock()

	h.action()
}

func (t *Timer) cancelLocked(h *Handle) bool {
	if h.state != statePending {
		return false
	}
	h.state = stateCancelled
	if h.stopper != nil {
		h.stopper.Stop()
	}
	if t.pending == h {
		t.pending = nil
	}
	return true
}
