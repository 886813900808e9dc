// Package buffer provides the plain-text buffer at the core of an editor
// session.
//
// A Buffer owns the current note content plus the cursor and selection
// range. All positions are byte offsets into the UTF-8 content, and ranges
// are half-open: [Start, End).
//
// Everything else in the session (matches, highlights, history snapshots)
// is a derived view over the buffer; the buffer is the single long-lived
// mutable entity. Mutations notify subscribers so derived state can be
// rebuilt:
//
//	buf := buffer.NewFromString("# Notes\n")
//	buf.Subscribe(func(c buffer.Change) {
//		// re-run search, arm history debounce, ...
//	})
//	buf.Replace(2, 7, "Todo")
//
// All methods are safe for concurrent use.
package buffer
