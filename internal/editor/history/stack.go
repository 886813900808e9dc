package history

import (
	"errors"
	"sync"
	"time"

	"github.com/dshills/inkpad/internal/editor/buffer"
	"github.com/dshills/inkpad/internal/editor/debounce"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Defaults applied when NewStack is given non-positive limits.
const (
	DefaultMaxEntries = 100
	DefaultDebounce   = 500 * time.Millisecond
)

// State is one immutable snapshot of buffer content plus cursor and
// selection, created on push and never modified after.
type State struct {
	Content   string
	Cursor    buffer.ByteOffset
	SelStart  buffer.ByteOffset
	SelEnd    buffer.ByteOffset
	Timestamp time.Time
}

// NewState creates a snapshot stamped with the current time.
func NewState(content string, cursor, selStart, selEnd buffer.ByteOffset) State {
	return State{
		Content:   content,
		Cursor:    cursor,
		SelStart:  selStart,
		SelEnd:    selEnd,
		Timestamp: time.Now(),
	}
}

// Stack manages linear undo/redo state for one buffer.
// All methods are thread-safe.
type Stack struct {
	mu      sync.Mutex
	states  []State
	current int // index of the live state, -1 when empty
	maxSize int

	delay time.Duration
	timer debounce.Timer
}

// NewStack creates a history stack holding at most maxSize snapshots,
// coalescing RecordEdit calls within the given debounce delay.
func NewStack(maxSize int, delay time.Duration) *Stack {
	if maxSize <= 0 {
		maxSize = DefaultMaxEntries
	}
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Stack{
		current: -1,
		maxSize: maxSize,
		delay:   delay,
	}
}

// Push commits a snapshot immediately. Any pending debounced edit is
// flushed first so it lands as its own state, in order.
func (s *Stack) Push(state State) {
	s.timer.Flush()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pushLocked(state)
}

// pushLocked truncates redo states, appends, and evicts the oldest entry
// when over the size limit.
func (s *Stack) pushLocked(state State) {
	s.states = s.states[:s.current+1]
	s.states = append(s.states, state)
	s.current++

	if len(s.states) > s.maxSize {
		s.states = s.states[1:]
		s.current--
	}
}

// RecordEdit schedules a debounced push of the snapshot. Successive calls
// within the debounce window replace the pending snapshot, so a burst of
// keystrokes becomes a single undo step.
func (s *Stack) RecordEdit(state State) {
	s.mu.Lock()
	delay := s.delay
	s.mu.Unlock()

	s.timer.Arm(delay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.pushLocked(state)
	})
}

// Flush commits any pending debounced edit synchronously.
// Returns true if a snapshot was committed.
func (s *Stack) Flush() bool {
	return s.timer.Flush()
}

// DiscardPending drops a pending debounced edit without committing it.
func (s *Stack) DiscardPending() {
	s.timer.Cancel()
}

// Undo steps back one state and returns it. Pending debounced edits are
// flushed first so nothing is lost. Returns ErrNothingToUndo at the
// oldest state.
func (s *Stack) Undo() (State, error) {
	s.timer.Flush()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current <= 0 {
		return State{}, ErrNothingToUndo
	}
	s.current--
	return s.states[s.current], nil
}

// Redo steps forward one state and returns it.
// Returns ErrNothingToRedo at the newest state.
func (s *Stack) Redo() (State, error) {
	s.timer.Flush()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current >= len(s.states)-1 {
		return State{}, ErrNothingToRedo
	}
	s.current++
	return s.states[s.current], nil
}

// CanUndo returns true if undo is available.
func (s *Stack) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current > 0
}

// CanRedo returns true if redo is available.
func (s *Stack) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current < len(s.states)-1
}

// Len returns the number of stored states.
func (s *Stack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.states)
}

// CurrentIndex returns the index of the live state, or -1 when empty.
func (s *Stack) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Current returns the live state, if any.
func (s *Stack) Current() (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current < 0 || s.current >= len(s.states) {
		return State{}, false
	}
	return s.states[s.current], true
}

// Clear removes all states and any pending debounced edit.
func (s *Stack) Clear() {
	s.timer.Cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.states = nil
	s.current = -1
}

// SetMaxEntries changes the size limit, evicting oldest states if the
// log is already larger.
func (s *Stack) SetMaxEntries(max int) {
	if max <= 0 {
		max = DefaultMaxEntries
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxSize = max
	for len(s.states) > s.maxSize {
		s.states = s.states[1:]
		s.current--
	}
	if s.current < 0 && len(s.states) > 0 {
		s.current = 0
	}
}

// SetDelay changes the debounce delay for subsequent RecordEdit calls.
func (s *Stack) SetDelay(d time.Duration) {
	if d <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

// MaxEntries returns the size limit.
func (s *Stack) MaxEntries() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxSize
}
