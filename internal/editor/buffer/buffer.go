package buffer

import (
	"errors"
	"strings"
	"sync"
)

// Errors returned by buffer operations.
var (
	ErrRangeInvalid     = errors.New("invalid range")
	ErrOffsetOutOfRange = errors.New("offset out of range")
)

// Change describes a single buffer mutation delivered to subscribers.
type Change struct {
	Range   Range  // range in the pre-mutation content
	OldText string // text that was replaced
	NewText string // text that replaced it
}

// Delta returns the change in buffer length caused by this change.
func (c Change) Delta() int {
	return len(c.NewText) - len(c.OldText)
}

// ChangeFunc receives change notifications.
type ChangeFunc func(Change)

// Buffer holds the note content plus cursor and selection state.
// All methods are thread-safe.
type Buffer struct {
	mu       sync.RWMutex
	content  string
	cursor   ByteOffset
	selStart ByteOffset
	selEnd   ByteOffset
	subs     []ChangeFunc
}

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithCursor sets the initial cursor position (clamped to content).
func WithCursor(offset ByteOffset) Option {
	return func(b *Buffer) {
		b.cursor = b.clamp(offset)
		b.selStart = b.cursor
		b.selEnd = b.cursor
	}
}

// New creates an empty buffer.
func New(opts ...Option) *Buffer {
	b := &Buffer{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewFromString creates a buffer with initial content.
// Line endings are normalized to LF.
func NewFromString(s string, opts ...Option) *Buffer {
	b := &Buffer{content: normalizeLineEndings(s)}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// normalizeLineEndings converts CRLF and CR line endings to LF.
func normalizeLineEndings(s string) string {
	if !strings.ContainsRune(s, '\r') {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// Subscribe registers fn to be called after every content mutation.
// Subscribers are invoked synchronously, outside the buffer lock, in
// registration order.
func (b *Buffer) Subscribe(fn ChangeFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, fn)
}

// Text returns the full buffer content.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.content
}

// Len returns the content length in bytes.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.content)
}

// IsEmpty returns true if the buffer has no content.
func (b *Buffer) IsEmpty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.content) == 0
}

// TextRange returns the content in [start, end), clamped to the buffer.
func (b *Buffer) TextRange(start, end ByteOffset) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if start < 0 {
		start = 0
	}
	if end > len(b.content) {
		end = len(b.content)
	}
	if start >= end {
		return ""
	}
	return b.content[start:end]
}

// SetText replaces the entire content. The cursor and selection collapse
// to the end of the new content.
func (b *Buffer) SetText(s string) {
	b.mu.Lock()
	old := b.content
	b.content = normalizeLineEndings(s)
	b.cursor = len(b.content)
	b.selStart = b.cursor
	b.selEnd = b.cursor
	change := Change{
		Range:   Range{Start: 0, End: len(old)},
		OldText: old,
		NewText: b.content,
	}
	subs := b.snapshotSubs()
	b.mu.Unlock()

	notify(subs, change)
}

// Replace replaces the content in [start, end) with text and returns the
// end offset of the inserted text.
func (b *Buffer) Replace(start, end ByteOffset, text string) (ByteOffset, error) {
	b.mu.Lock()
	rng := NewRange(start, end)
	if !rng.IsValid() || rng.End > len(b.content) {
		b.mu.Unlock()
		return 0, ErrRangeInvalid
	}

	text = normalizeLineEndings(text)
	old := b.content[start:end]
	b.content = b.content[:start] + text + b.content[end:]

	newEnd := start + len(text)
	b.cursor = newEnd
	b.selStart = newEnd
	b.selEnd = newEnd

	change := Change{
		Range:   Range{Start: start, End: end},
		OldText: old,
		NewText: text,
	}
	subs := b.snapshotSubs()
	b.mu.Unlock()

	notify(subs, change)
	return newEnd, nil
}

// Insert inserts text at the given offset.
func (b *Buffer) Insert(offset ByteOffset, text string) (ByteOffset, error) {
	return b.Replace(offset, offset, text)
}

// Delete removes the content in [start, end).
func (b *Buffer) Delete(start, end ByteOffset) error {
	_, err := b.Replace(start, end, "")
	return err
}

// Cursor returns the current cursor position.
func (b *Buffer) Cursor() ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.cursor
}

// SetCursor moves the cursor, collapsing the selection to it.
func (b *Buffer) SetCursor(offset ByteOffset) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cursor = b.clampLocked(offset)
	b.selStart = b.cursor
	b.selEnd = b.cursor
}

// Selection returns the current selection bounds (start <= end).
func (b *Buffer) Selection() (start, end ByteOffset) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.selStart, b.selEnd
}

// SetSelection sets the selection range, clamped to the content.
// The cursor moves to the selection end.
func (b *Buffer) SetSelection(start, end ByteOffset) {
	b.mu.Lock()
	defer b.mu.Unlock()
	start = b.clampLocked(start)
	end = b.clampLocked(end)
	if start > end {
		start, end = end, start
	}
	b.selStart = start
	b.selEnd = end
	b.cursor = end
}

// LineIndex returns the 0-based line number containing the given offset,
// counting newline characters before it.
func (b *Buffer) LineIndex(offset ByteOffset) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	offset = b.clampLocked(offset)
	return strings.Count(b.content[:offset], "\n")
}

// LineCount returns the number of lines in the buffer.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return strings.Count(b.content, "\n") + 1
}

func (b *Buffer) clamp(offset ByteOffset) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.clampLocked(offset)
}

func (b *Buffer) clampLocked(offset ByteOffset) ByteOffset {
	if offset < 0 {
		return 0
	}
	if offset > len(b.content) {
		return len(b.content)
	}
	return offset
}

func (b *Buffer) snapshotSubs() []ChangeFunc {
	subs := make([]ChangeFunc, len(b.subs))
	copy(subs, b.subs)
	return subs
}

func notify(subs []ChangeFunc, c Change) {
	for _, fn := range subs {
		fn(c)
	}
}
