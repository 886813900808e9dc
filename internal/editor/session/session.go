package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/inkpad/internal/config"
	"github.com/dshills/inkpad/internal/editor/buffer"
	"github.com/dshills/inkpad/internal/editor/highlight"
	"github.com/dshills/inkpad/internal/editor/history"
	"github.com/dshills/inkpad/internal/editor/render"
	"github.com/dshills/inkpad/internal/editor/replace"
	"github.com/dshills/inkpad/internal/editor/search"
)

// ErrStaleProjection indicates a projection finished after a newer
// search or edit invalidated it. Callers discard the result.
var ErrStaleProjection = errors.New("projection superseded by a newer operation")

// NoMatches is the count display shown when a search has no results.
const NoMatches = "No matches"

// PersistFunc receives the note ID and full content after every
// committed replace operation. Fire-and-forget.
type PersistFunc func(noteID, content string)

// Session is the editor session core for one open note.
type Session struct {
	mu sync.Mutex

	id     string
	noteID string

	buf       *buffer.Buffer
	hist      *history.Stack
	eng       *replace.Engine
	projector *highlight.Projector

	query   string
	opts    search.Options
	matches search.MatchSet

	view config.ViewConfig

	// gen invalidates in-flight projections; bumped on every search or
	// content change.
	gen        uint64
	projCancel context.CancelFunc

	// Guards against re-recording session-driven buffer mutations.
	restoring atomic.Bool
	replacing atomic.Bool

	persist PersistFunc
}

// Option configures a Session.
type Option func(*Session)

// WithPersistence installs the callback invoked after every committed
// replace operation.
func WithPersistence(fn PersistFunc) Option {
	return func(s *Session) {
		s.persist = fn
	}
}

// New creates a session using the given configuration and render
// transform. The session starts empty; load a note with Open.
func New(cfg config.Config, t render.Transform, opts ...Option) *Session {
	s := &Session{
		id:   uuid.NewString(),
		buf:  buffer.New(),
		hist: history.NewStack(cfg.History.MaxEntries, cfg.History.Debounce()),
		opts: cfg.Search.Options(),
		view: cfg.View,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.projector = highlight.New(t)
	s.eng = replace.New(s.buf, s.hist, replace.WithPersistence(func(content string) {
		if s.persist != nil {
			s.persist(s.noteID, content)
		}
	}))
	s.buf.Subscribe(s.onBufferChange)
	return s
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// NoteID returns the identifier of the open note.
func (s *Session) NoteID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.noteID
}

// Buffer returns the session's text buffer. Host edits go through it;
// the session records them in history with debounced coalescing.
func (s *Session) Buffer() *buffer.Buffer {
	return s.buf
}

// History returns the session's undo/redo stack.
func (s *Session) History() *history.Stack {
	return s.hist
}

// Open loads a note into the session. Any pending debounced edit of the
// previous note is flushed first; history and search state reset.
func (s *Session) Open(noteID, content string) {
	s.hist.Flush()

	s.mu.Lock()
	defer s.mu.Unlock()

	if noteID == "" {
		noteID = uuid.NewString()
	}
	s.noteID = noteID

	s.restoring.Store(true)
	s.buf.SetText(content)
	s.buf.SetCursor(0)
	s.restoring.Store(false)

	s.hist.Clear()
	s.hist.Push(s.snapshot())

	s.query = ""
	s.matches.Clear()
	s.invalidateLocked()
}

// onBufferChange records host-driven edits and refreshes derived state.
// Session-driven mutations (undo/redo restores, replace splices) manage
// history and matches themselves and are suppressed here.
func (s *Session) onBufferChange(buffer.Change) {
	if s.restoring.Load() || s.replacing.Load() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.hist.RecordEdit(s.snapshot())
	s.refindLocked()
	s.invalidateLocked()
}

// snapshot captures the current buffer state for history.
func (s *Session) snapshot() history.State {
	selStart, selEnd := s.buf.Selection()
	return history.NewState(s.buf.Text(), s.buf.Cursor(), selStart, selEnd)
}

// invalidateLocked bumps the projection generation and cancels any
// in-flight projection.
func (s *Session) invalidateLocked() {
	s.gen++
	if s.projCancel != nil {
		s.projCancel()
		s.projCancel = nil
	}
}

// Search runs a fresh search. The match cursor moves to the first match
// and its range is selected in the buffer.
//
// An invalid regex pattern degrades to an empty match set; the error is
// returned for display but must not be treated as fatal.
func (s *Session) Search(query string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.query = query
	err := s.refindFreshLocked()
	s.invalidateLocked()
	return err
}

// Query returns the current search text.
func (s *Session) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Options returns the current search options.
func (s *Session) Options() search.Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opts
}

// SetOptions replaces the search options and re-runs the search.
func (s *Session) SetOptions(opts search.Options) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.opts = opts
	err := s.refindFreshLocked()
	s.invalidateLocked()
	return err
}

// SetCaseSensitive toggles case sensitivity and re-runs the search.
func (s *Session) SetCaseSensitive(v bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts.CaseSensitive = v
	err := s.refindFreshLocked()
	s.invalidateLocked()
	return err
}

// SetWholeWord toggles whole-word matching and re-runs the search.
func (s *Session) SetWholeWord(v bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts.WholeWord = v
	err := s.refindFreshLocked()
	s.invalidateLocked()
	return err
}

// SetRegex toggles regex mode and re-runs the search.
func (s *Session) SetRegex(v bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts.Regex = v
	err := s.refindFreshLocked()
	s.invalidateLocked()
	return err
}

// refindFreshLocked recomputes matches, resetting the cursor to the
// first match.
func (s *Session) refindFreshLocked() error {
	matches, err := search.Find(s.buf.Text(), s.query, s.opts)
	if err != nil {
		// Fail soft: a malformed pattern means no matches.
		s.matches.Clear()
		return err
	}
	s.matches = search.NewMatchSet(matches)
	s.selectCurrentLocked()
	return nil
}

// refindLocked recomputes matches after a content change, keeping the
// cursor at its index clamped into the new list.
func (s *Session) refindLocked() {
	if s.query == "" {
		s.matches.Clear()
		return
	}
	prev := s.matches.Current
	matches, err := search.Find(s.buf.Text(), s.query, s.opts)
	if err != nil {
		s.matches.Clear()
		return
	}
	s.matches = search.MatchSet{Matches: matches, Current: prev}
	s.matches.ClampCurrent()
	s.selectCurrentLocked()
}

// selectCurrentLocked selects the current match's range in the buffer.
func (s *Session) selectCurrentLocked() {
	if m, ok := s.matches.CurrentMatch(); ok {
		s.buf.SetSelection(m.Start, m.End)
	}
}

// Matches returns a copy of the current match list.
func (s *Session) Matches() []search.Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]search.Match, len(s.matches.Matches))
	copy(out, s.matches.Matches)
	return out
}

// CurrentIndex returns the current match index, or -1 when none.
func (s *Session) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.matches.Current
}

// CurrentMatch returns the match under the cursor, if any.
func (s *Session) CurrentMatch() (search.Match, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.matches.CurrentMatch()
}

// FindNext advances to the next match, wrapping at the end. No-op when
// there are no matches.
func (s *Session) FindNext() (search.Match, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.matches.Next() {
		return search.Match{}, false
	}
	s.selectCurrentLocked()
	s.invalidateLocked()
	m, _ := s.matches.CurrentMatch()
	return m, true
}

// FindPrevious moves to the previous match, wrapping at the start.
// No-op when there are no matches.
func (s *Session) FindPrevious() (search.Match, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.matches.Prev() {
		return search.Match{}, false
	}
	s.selectCurrentLocked()
	s.invalidateLocked()
	m, _ := s.matches.CurrentMatch()
	return m, true
}

// CountDisplay returns the "N of M" indicator text, the no-matches
// sentinel for a fruitless search, or "" when no search is active.
func (s *Session) CountDisplay() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.query == "" {
		return ""
	}
	if s.matches.IsEmpty() {
		return NoMatches
	}
	return fmt.Sprintf("%d of %d", s.matches.Current+1, s.matches.Len())
}

// replacer builds the replacement strategy for the current options:
// group expansion in regex mode, verbatim text otherwise.
func (s *Session) replacer(replacement string) replace.Replacer {
	if s.opts.Regex {
		if re, err := search.Compile(s.query, s.opts); err == nil {
			return replace.Pattern(re, replacement)
		}
	}
	return replace.Text(replacement)
}

// ReplaceNext replaces the current match, re-runs the search on the new
// content, and clamps the match cursor to its old index so navigation
// continues from the same spot. Returns false if there was no current
// match.
func (s *Session) ReplaceNext(replacement string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.replacing.Store(true)
	ok, err := s.eng.ReplaceNext(&s.matches, s.replacer(replacement))
	s.replacing.Store(false)
	if err != nil || !ok {
		return ok, err
	}

	s.refindLocked()
	s.invalidateLocked()
	return true, nil
}

// ReplaceAll replaces every match in one pass and one undo step. The
// match set ends up empty. Returns the number of replacements.
func (s *Session) ReplaceAll(replacement string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.replacing.Store(true)
	n, err := s.eng.ReplaceAll(&s.matches, s.replacer(replacement))
	s.replacing.Store(false)
	if err != nil {
		return n, err
	}

	s.invalidateLocked()
	return n, nil
}

// Undo steps the buffer back one history state. Returns false when
// there is nothing to undo.
func (s *Session) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.hist.Undo()
	if err != nil {
		return false
	}
	s.restoreLocked(state)
	return true
}

// Redo steps the buffer forward one history state. Returns false when
// there is nothing to redo.
func (s *Session) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.hist.Redo()
	if err != nil {
		return false
	}
	s.restoreLocked(state)
	return true
}

// restoreLocked applies a history state to the buffer without the
// mutation being re-recorded as a new edit.
func (s *Session) restoreLocked(state history.State) {
	s.restoring.Store(true)
	s.buf.SetText(state.Content)
	s.buf.SetSelection(state.SelStart, state.SelEnd)
	s.restoring.Store(false)

	s.refindLocked()
	s.invalidateLocked()
}

// Project renders the buffer with the current matches highlighted.
// If a newer search or edit supersedes this call while the transform is
// running, the result is discarded and ErrStaleProjection returned.
func (s *Session) Project(ctx context.Context) (*render.Tree, error) {
	s.mu.Lock()
	if s.projCancel != nil {
		s.projCancel()
	}
	pctx, cancel := context.WithCancel(ctx)
	s.projCancel = cancel
	gen := s.gen
	content := s.buf.Text()
	matches := make([]search.Match, len(s.matches.Matches))
	copy(matches, s.matches.Matches)
	current := s.matches.Current
	s.mu.Unlock()

	tree, err := s.projector.Project(pctx, content, matches, current)

	s.mu.Lock()
	stale := gen != s.gen
	if s.projCancel != nil && gen == s.gen {
		s.projCancel()
		s.projCancel = nil
	}
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if stale {
		return nil, ErrStaleProjection
	}
	return tree, nil
}

// ApplyConfig applies a (possibly hot-reloaded) configuration to the
// running session.
func (s *Session) ApplyConfig(cfg config.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hist.SetMaxEntries(cfg.History.MaxEntries)
	s.hist.SetDelay(cfg.History.Debounce())
	s.view = cfg.View
}
