package search

import "testing"

func testMatches(n int) []Match {
	out := make([]Match, n)
	for i := range out {
		out[i] = Match{Start: i * 10, End: i*10 + 3, Text: "foo"}
	}
	return out
}

func TestNewMatchSet(t *testing.T) {
	ms := NewMatchSet(testMatches(3))
	if ms.Current != 0 {
		t.Errorf("Current = %d, want 0", ms.Current)
	}

	empty := NewMatchSet(nil)
	if empty.Current != -1 {
		t.Errorf("empty Current = %d, want -1", empty.Current)
	}
}

func TestMatchSetNextWraps(t *testing.T) {
	ms := NewMatchSet(testMatches(3))

	for _, want := range []int{1, 2, 0, 1} {
		if !ms.Next() {
			t.Fatal("Next returned false on non-empty set")
		}
		if ms.Current != want {
			t.Errorf("Current = %d, want %d", ms.Current, want)
		}
	}
}

func TestMatchSetPrevWraps(t *testing.T) {
	ms := NewMatchSet(testMatches(3))

	for _, want := range []int{2, 1, 0, 2} {
		if !ms.Prev() {
			t.Fatal("Prev returned false on non-empty set")
		}
		if ms.Current != want {
			t.Errorf("Current = %d, want %d", ms.Current, want)
		}
	}
}

func TestMatchSetEmptyNavigation(t *testing.T) {
	var ms MatchSet
	ms.Current = -1

	if ms.Next() || ms.Prev() {
		t.Error("navigation on empty set should be a no-op")
	}
	if _, ok := ms.CurrentMatch(); ok {
		t.Error("CurrentMatch on empty set should report none")
	}
}

func TestMatchSetClampCurrent(t *testing.T) {
	tests := []struct {
		name    string
		matches int
		current int
		want    int
	}{
		{"in range", 3, 1, 1},
		{"past end", 3, 7, 2},
		{"negative", 3, -1, 0},
		{"empty", 0, 2, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms := MatchSet{Matches: testMatches(tt.matches), Current: tt.current}
			ms.ClampCurrent()
			if ms.Current != tt.want {
				t.Errorf("Current = %d, want %d", ms.Current, tt.want)
			}
		})
	}
}
