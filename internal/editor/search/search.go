package search

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/dshills/inkpad/internal/editor/buffer"
)

// ErrInvalidPattern indicates the query is not a valid regular expression.
// Callers degrade to an empty match set; this is never fatal.
var ErrInvalidPattern = errors.New("invalid search pattern")

// Options controls how a query is matched against content.
// It is a pure value type, constructed once per search.
type Options struct {
	CaseSensitive bool
	WholeWord     bool
	Regex         bool
}

// Match is a located occurrence of the query: a half-open byte range
// [Start, End) into the content it was computed against, plus the matched
// text. Matches are invalidated by any content mutation.
type Match struct {
	Start buffer.ByteOffset
	End   buffer.ByteOffset
	Text  string
}

// String returns a human-readable representation of the match.
func (m Match) String() string {
	return fmt.Sprintf("[%d:%d) %q", m.Start, m.End, m.Text)
}

// Len returns the matched length in bytes.
func (m Match) Len() int {
	return m.End - m.Start
}

// Compile builds the regular expression for a query under the given
// options. In literal mode every metacharacter in the query is escaped;
// whole-word mode wraps the pattern with word-boundary anchors; case
// folding is a regex engine flag, never a pattern rewrite.
func Compile(query string, opts Options) (*regexp.Regexp, error) {
	pattern := query
	if !opts.Regex {
		pattern = regexp.QuoteMeta(query)
	}
	if opts.WholeWord {
		// Group before anchoring so a top-level alternation gets both
		// boundaries on every branch.
		pattern = `\b(?:` + pattern + `)\b`
	}
	if !opts.CaseSensitive {
		pattern = "(?i)" + pattern
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	return re, nil
}

// Find returns every occurrence of query in content, sorted ascending by
// start offset and pairwise non-overlapping. The scan is strictly
// left-to-right: after a match ends the next one starts at or after its
// end, so ordering is a property of the scan, not a sort.
//
// An empty query yields no matches and no error. A malformed pattern in
// regex mode yields ErrInvalidPattern.
func Find(content, query string, opts Options) ([]Match, error) {
	if query == "" {
		return nil, nil
	}

	re, err := Compile(query, opts)
	if err != nil {
		return nil, err
	}

	locs := re.FindAllStringIndex(content, -1)
	if len(locs) == 0 {
		return nil, nil
	}

	matches := make([]Match, 0, len(locs))
	for _, loc := range locs {
		if loc[0] == loc[1] {
			// Zero-width regex matches carry no text to highlight or
			// replace; skip them, the scan already advanced past.
			continue
		}
		matches = append(matches, Match{
			Start: loc[0],
			End:   loc[1],
			Text:  content[loc[0]:loc[1]],
		})
	}
	return matches, nil
}
