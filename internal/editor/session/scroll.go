package session

// Scroll targets are computed here rather than in the host because both
// views need buffer or match state: the raw view derives its offset from
// the line of the current match, the rendered view from the measured
// geometry of the current highlight element.

// RawScrollTarget returns the scroll offset that brings the current
// match into view in the raw-buffer view, clamped to [0, maxScroll].
//
// Line height is not assumed uniform across views; the target is the
// number of newlines before the match start times the measured line
// height from the view config. Returns false when there is no current
// match.
func (s *Session) RawScrollTarget(maxScroll float64) (float64, bool) {
	s.mu.Lock()
	m, ok := s.matches.CurrentMatch()
	lineHeight := s.view.LineHeight
	s.mu.Unlock()
	if !ok {
		return 0, false
	}

	line := s.buf.LineIndex(m.Start)
	return clampScroll(float64(line)*lineHeight, maxScroll), true
}

// RenderedScrollTarget returns the scroll offset for the rendered view
// given the measured geometry of the current highlight element. If the
// element is already fully visible the current offset is returned
// unchanged; otherwise the view scrolls so the element sits below a
// padding of context, biasing toward showing what precedes the match
// rather than centering it.
func (s *Session) RenderedScrollTarget(elemTop, elemHeight, viewTop, viewHeight, maxScroll float64) float64 {
	s.mu.Lock()
	padding := s.view.ScrollPadding
	s.mu.Unlock()

	if elemTop >= viewTop && elemTop+elemHeight <= viewTop+viewHeight {
		return clampScroll(viewTop, maxScroll)
	}
	return clampScroll(elemTop-padding, maxScroll)
}

func clampScroll(v, maxScroll float64) float64 {
	if v < 0 {
		return 0
	}
	if maxScroll >= 0 && v > maxScroll {
		return maxScroll
	}
	return v
}
