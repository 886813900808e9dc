// Package history provides linear undo/redo over buffer snapshots.
//
// Unlike a command-pattern history, the stack stores whole-buffer
// snapshots: each State is the full content plus cursor and selection at
// one point in time, immutable once pushed. Undo and redo move a cursor
// through the log; pushing after an undo truncates every state past the
// cursor (standard linear-undo behavior), and exceeding the size limit
// evicts the oldest state.
//
// # Debounced recording
//
// Rapid keystrokes must not each create an undo step. RecordEdit arms a
// debounce timer and only commits the snapshot when the timer fires
// uninterrupted; a newer edit re-arms it. Operations that need a
// guaranteed history point (replace, undo, redo, note switch) call Flush
// first so no pending edit is silently lost:
//
//	stack := history.NewStack(100, 500*time.Millisecond)
//	stack.RecordEdit(snapshot)  // coalesced
//	stack.Push(snapshot)        // immediate, flushes pending first
//	prev, err := stack.Undo()
package history
