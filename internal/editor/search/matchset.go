package search

// MatchSet is the ordered collection of current matches plus a cursor
// into them. It is regenerated wholesale on every query or content
// change; there is no incremental diffing.
//
// Current is an index into Matches, or -1 when there is no current match.
type MatchSet struct {
	Matches []Match
	Current int
}

// NewMatchSet creates a MatchSet positioned on the first match, or with
// no current match when matches is empty.
func NewMatchSet(matches []Match) MatchSet {
	ms := MatchSet{Matches: matches, Current: -1}
	if len(matches) > 0 {
		ms.Current = 0
	}
	return ms
}

// Len returns the number of matches.
func (ms *MatchSet) Len() int {
	return len(ms.Matches)
}

// IsEmpty returns true if there are no matches.
func (ms *MatchSet) IsEmpty() bool {
	return len(ms.Matches) == 0
}

// CurrentMatch returns the match under the cursor, if any.
func (ms *MatchSet) CurrentMatch() (Match, bool) {
	if ms.Current < 0 || ms.Current >= len(ms.Matches) {
		return Match{}, false
	}
	return ms.Matches[ms.Current], true
}

// Next advances the cursor to the following match, wrapping from the last
// match to the first. Returns false (and does nothing) when empty.
func (ms *MatchSet) Next() bool {
	if len(ms.Matches) == 0 {
		return false
	}
	ms.Current = (ms.Current + 1) % len(ms.Matches)
	return true
}

// Prev moves the cursor to the preceding match, wrapping from the first
// match to the last. Returns false (and does nothing) when empty.
func (ms *MatchSet) Prev() bool {
	if len(ms.Matches) == 0 {
		return false
	}
	if ms.Current <= 0 {
		ms.Current = len(ms.Matches) - 1
	} else {
		ms.Current--
	}
	return true
}

// ClampCurrent pulls the cursor back into range after the match list
// shrinks, or clears it when no matches remain.
func (ms *MatchSet) ClampCurrent() {
	if len(ms.Matches) == 0 {
		ms.Current = -1
		return
	}
	if ms.Current < 0 {
		ms.Current = 0
	}
	if ms.Current >= len(ms.Matches) {
		ms.Current = len(ms.Matches) - 1
	}
}

// Clear empties the set.
func (ms *MatchSet) Clear() {
	ms.Matches = nil
	ms.Current = -1
}
