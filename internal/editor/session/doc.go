// Package session ties the editor core together: one Session owns the
// text buffer, the undo/redo stack, the live match set, and the render
// projection for a single open note.
//
// The session is the navigation controller of find/replace: it runs
// searches, moves the current-match cursor with wrap-around, applies
// single and bulk replacements, and drives undo/redo. Host UIs interact
// only with the session; there is no ambient shared state.
//
// # Ordering
//
// Within one logical operation (a keystroke, a replace call) the session
// executes mutate, re-find, and re-select in strict sequence. Rendered
// projections are asynchronous: every mutation bumps a generation and
// cancels the in-flight projection, so a stale result is discarded
// (ErrStaleProjection) instead of racing a newer one. The session never
// locks across the transform.
//
// # History
//
// Host edits arrive through the buffer's change notification and are
// recorded with debounced coalescing. Undo and redo drive the buffer
// themselves; a re-entrancy guard keeps those mutations from being
// re-recorded as new edits.
package session
