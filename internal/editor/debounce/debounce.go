// Package debounce provides a cancellable one-shot timer for coalescing
// bursts of triggers into a single effect.
//
// Arming an already-armed timer replaces the pending callback; timers are
// never stacked. Flush fires a pending callback synchronously, which is
// how callers guarantee an effect has happened before proceeding (for
// example, committing a pending history snapshot before an undo).
package debounce

import (
	"sync"
	"time"
)

// Timer is a cancellable, re-armable one-shot timer.
// The zero value is ready to use. All methods are thread-safe.
type Timer struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending func()
	gen     uint64
}

// Arm schedules fn to run after d. Any previously armed callback is
// cancelled and replaced; the delay restarts from now.
func (t *Timer) Arm(d time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cancelLocked()
	t.pending = fn
	gen := t.gen
	t.timer = time.AfterFunc(d, func() {
		t.fire(gen)
	})
}

// fire runs the pending callback if the timer generation is still live.
func (t *Timer) fire(gen uint64) {
	t.mu.Lock()
	if gen != t.gen || t.pending == nil {
		t.mu.Unlock()
		return
	}
	fn := t.pending
	t.pending = nil
	t.timer = nil
	t.gen++
	t.mu.Unlock()

	fn()
}

// Cancel discards any pending callback without running it.
func (t *Timer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelLocked()
}

// Flush runs the pending callback immediately, if one is armed.
// Returns true if a callback was run.
func (t *Timer) Flush() bool {
	t.mu.Lock()
	if t.pending == nil {
		t.mu.Unlock()
		return false
	}
	fn := t.pending
	t.cancelLocked()
	t.mu.Unlock()

	fn()
	return true
}

// Pending returns true if a callback is armed and has not fired.
func (t *Timer) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending != nil
}

// cancelLocked stops the underlying timer and bumps the generation so an
// in-flight AfterFunc that already fired cannot deliver a stale callback.
func (t *Timer) cancelLocked() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.pending = nil
	t.gen++
}
