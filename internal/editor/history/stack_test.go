package history

import (
	"errors"
	"testing"
	"time"
)

func state(content string) State {
	return NewState(content, len(content), len(content), len(content))
}

func TestPushUndoRedo(t *testing.T) {
	s := NewStack(10, time.Second)

	s.Push(state("one"))
	s.Push(state("two"))
	s.Push(state("three"))

	if !s.CanUndo() {
		t.Fatal("CanUndo = false")
	}

	st, err := s.Undo()
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if st.Content != "two" {
		t.Errorf("Undo content = %q, want %q", st.Content, "two")
	}

	st, err = s.Redo()
	if err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if st.Content != "three" {
		t.Errorf("Redo content = %q, want %q", st.Content, "three")
	}
}

func TestUndoAtOldestState(t *testing.T) {
	s := NewStack(10, time.Second)
	s.Push(state("only"))

	if _, err := s.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("err = %v, want ErrNothingToUndo", err)
	}
	if _, err := s.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("err = %v, want ErrNothingToRedo", err)
	}
}

func TestPushAfterUndoTruncatesRedo(t *testing.T) {
	s := NewStack(10, time.Second)
	s.Push(state("one"))
	s.Push(state("two"))
	s.Push(state("three"))

	if _, err := s.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	s.Push(state("fork"))

	if s.CanRedo() {
		t.Error("CanRedo after push, redo states should be discarded")
	}
	if s.Len() != 3 {
		t.Errorf("Len = %d, want 3 (one, two, fork)", s.Len())
	}
	cur, ok := s.Current()
	if !ok || cur.Content != "fork" {
		t.Errorf("Current = %+v, want fork", cur)
	}
}

func TestMaxSizeEviction(t *testing.T) {
	s := NewStack(3, time.Second)

	for _, c := range []string{"a", "b", "c", "d", "e"} {
		s.Push(state(c))
	}

	if s.Len() != 3 {
		t.Fatalf("Len = %d, want 3", s.Len())
	}
	if s.CurrentIndex() != 2 {
		t.Errorf("CurrentIndex = %d, want 2", s.CurrentIndex())
	}

	// Oldest surviving state is "c".
	var st State
	var err error
	for s.CanUndo() {
		st, err = s.Undo()
		if err != nil {
			t.Fatalf("Undo: %v", err)
		}
	}
	if st.Content != "c" {
		t.Errorf("oldest content = %q, want %q", st.Content, "c")
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	s := NewStack(10, time.Second)
	s.Push(state("before"))
	s.Push(state("after"))

	st, err := s.Undo()
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if st.Content != "before" {
		t.Fatalf("Undo = %q", st.Content)
	}

	st, err = s.Redo()
	if err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if st.Content != "after" {
		t.Errorf("Redo = %q, want exact pre-undo content", st.Content)
	}
}

func TestRecordEditCoalesces(t *testing.T) {
	s := NewStack(10, 50*time.Millisecond)

	// A burst within the debounce window becomes one state.
	s.RecordEdit(state("h"))
	s.RecordEdit(state("he"))
	s.RecordEdit(state("hello"))

	waitForLen(t, s, 1)
	cur, ok := s.Current()
	if !ok || cur.Content != "hello" {
		t.Errorf("Current = %+v, want latest snapshot", cur)
	}
}

func TestRecordEditSpacedBeyondWindow(t *testing.T) {
	s := NewStack(10, 30*time.Millisecond)

	s.RecordEdit(state("one"))
	waitForLen(t, s, 1)
	s.RecordEdit(state("two"))
	waitForLen(t, s, 2)
	s.RecordEdit(state("three"))
	waitForLen(t, s, 3)
}

func TestFlushCommitsPendingImmediately(t *testing.T) {
	s := NewStack(10, time.Hour)

	s.RecordEdit(state("pending"))
	if s.Len() != 0 {
		t.Fatalf("Len = %d before flush, want 0", s.Len())
	}
	if !s.Flush() {
		t.Fatal("Flush returned false")
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d after flush, want 1", s.Len())
	}
}

func TestUndoFlushesPendingEdit(t *testing.T) {
	s := NewStack(10, time.Hour)
	s.Push(state("base"))
	s.RecordEdit(state("typed"))

	st, err := s.Undo()
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	// The pending edit became a state, so undo lands on "base".
	if st.Content != "base" {
		t.Errorf("Undo = %q, want %q", st.Content, "base")
	}
	if s.Len() != 2 {
		t.Errorf("Len = %d, want 2", s.Len())
	}
}

func TestSetMaxEntriesShrinks(t *testing.T) {
	s := NewStack(10, time.Second)
	for _, c := range []string{"a", "b", "c", "d"} {
		s.Push(state(c))
	}

	s.SetMaxEntries(2)
	if s.Len() != 2 {
		t.Errorf("Len = %d, want 2", s.Len())
	}
	if s.Len() > s.MaxEntries() {
		t.Error("len exceeds max entries")
	}
}

func TestLenNeverExceedsMax(t *testing.T) {
	s := NewStack(4, time.Second)
	for i := 0; i < 50; i++ {
		s.Push(state("x"))
		if s.Len() > 4 {
			t.Fatalf("Len = %d exceeds max 4", s.Len())
		}
	}
}

// waitForLen polls until the stack reaches n states or times out.
func waitForLen(t *testing.T, s *Stack, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.Len() >= n {
			if s.Len() > n {
				t.Fatalf("Len = %d, want %d", s.Len(), n)
			}
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timeout: Len = %d, want %d", s.Len(), n)
}

func TestDiscardPendingDropsEdit(t *testing.T) {
	s := NewStack(10, time.Second)
	s.Push(state("one"))

	s.RecordEdit(state("pending"))
	s.DiscardPending()

	if s.Flush() {
		t.Error("Flush committed an edit after DiscardPending")
	}
	if got := s.Len(); got != 1 {
		t.Errorf("Len = %d, want 1", got)
	}
	if st, ok := s.Current(); !ok || st.Content != "one" {
		t.Errorf("Current = %+v, want the pre-edit state", st)
	}
}
