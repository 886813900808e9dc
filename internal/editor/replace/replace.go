// Package replace mutates the buffer for single and bulk replacement,
// recomputing offsets as it goes and pushing history snapshots.
package replace

import (
	"fmt"
	"regexp"

	"github.com/dshills/inkpad/internal/editor/buffer"
	"github.com/dshills/inkpad/internal/editor/history"
	"github.com/dshills/inkpad/internal/editor/search"
)

// Replacer produces the replacement text for one match.
type Replacer func(search.Match) string

// Text returns a Replacer that inserts the same text for every match.
func Text(s string) Replacer {
	return func(search.Match) string { return s }
}

// Pattern returns a Replacer that expands $1-style group references in
// template against the match, using re's capture groups.
func Pattern(re *regexp.Regexp, template string) Replacer {
	return func(m search.Match) string {
		idx := re.FindStringSubmatchIndex(m.Text)
		if idx == nil {
			return template
		}
		return string(re.ExpandString(nil, template, m.Text, idx))
	}
}

// PersistFunc receives the full buffer content after every committed
// replacement. It is fire-and-forget: the engine never inspects a result.
type PersistFunc func(content string)

// Engine applies replacements to a buffer and records them in history.
type Engine struct {
	buf     *buffer.Buffer
	hist    *history.Stack
	persist PersistFunc
}

// Option configures an Engine.
type Option func(*Engine)

// WithPersistence installs a callback invoked with the new content after
// each committed replacement.
func WithPersistence(fn PersistFunc) Option {
	return func(e *Engine) {
		e.persist = fn
	}
}

// New creates a replace engine over the given buffer and history.
func New(buf *buffer.Buffer, hist *history.Stack, opts ...Option) *Engine {
	e := &Engine{buf: buf, hist: hist}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ReplaceNext replaces the current match of ms. The cursor lands at the
// end of the inserted text and one history snapshot is pushed.
//
// The match set is left untouched except for Clear-independent state;
// callers re-run the search on the new content and clamp the cursor,
// since every subsequent offset has shifted. Returns false when ms has
// no current match.
func (e *Engine) ReplaceNext(ms *search.MatchSet, r Replacer) (bool, error) {
	m, ok := ms.CurrentMatch()
	if !ok {
		return false, nil
	}

	// Replace collapses cursor and selection to the end of the inserted
	// text, which is exactly the post-replace cursor contract.
	if _, err := e.buf.Replace(m.Start, m.End, r(m)); err != nil {
		return false, fmt.Errorf("replace at %s: %w", m, err)
	}

	e.commit()
	return true, nil
}

// ReplaceAll replaces every match in ms, ascending by start offset,
// maintaining a running length delta so each original-coordinate match
// range is corrected to current-buffer coordinates before splicing.
//
// The whole bulk operation is one history snapshot, not one per match,
// and ms is cleared. Returns the number of replacements applied.
func (e *Engine) ReplaceAll(ms *search.MatchSet, r Replacer) (int, error) {
	if ms.IsEmpty() {
		return 0, nil
	}

	offset := 0
	count := 0
	for _, m := range ms.Matches {
		rng := buffer.NewRange(m.Start, m.End).Shift(offset)
		newEnd, err := e.buf.Replace(rng.Start, rng.End, r(m))
		if err != nil {
			return count, fmt.Errorf("replace at %s: %w", m, err)
		}
		// The buffer normalizes line endings on splice, so the inserted
		// length can differ from the replacement text's length. Accumulate
		// from the end offset the buffer reports, never from the input.
		offset += (newEnd - rng.Start) - m.Len()
		count++
	}

	ms.Clear()
	e.commit()
	return count, nil
}

// commit pushes the post-operation snapshot and notifies persistence.
func (e *Engine) commit() {
	content := e.buf.Text()
	selStart, selEnd := e.buf.Selection()
	e.hist.Push(history.NewState(content, e.buf.Cursor(), selStart, selEnd))

	if e.persist != nil {
		e.persist(content)
	}
}
