package highlight

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dshills/inkpad/internal/editor/search"
)

// Marker tokens are built from codepoints that render invisibly and mean
// nothing to markdown syntax: zero-width joiner/non-joiner as the prefix,
// left-to-right/right-to-left marks as the suffix. The index and flag
// between them never surface; they are stripped during projection, and
// the degraded paths render unmarked content.
const (
	markerPrefix = "‍‌"
	markerSuffix = "‎‏"

	flagCurrent = "C"
	flagNormal  = "N"
)

// markerRe matches one marker token and captures its index and flag.
var markerRe = regexp.MustCompile(`\x{200D}\x{200C}(\d+)_([CN])\x{200E}\x{200F}`)

// markerToken builds the token for match index i. The open and close
// markers of a pair are the identical string; the pair is identified by
// its two occurrences.
func markerToken(i int, current bool) string {
	flag := flagNormal
	if current {
		flag = flagCurrent
	}
	return markerPrefix + strconv.Itoa(i) + "_" + flag + markerSuffix
}

// insertMarkers brackets every match with its marker token. Matches are
// processed highest start first: each insertion shifts only offsets at or
// past the insertion point, and every not-yet-processed match lies
// strictly below it.
func insertMarkers(content string, matches []search.Match, current int) string {
	var sb strings.Builder
	out := content
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		if m.Start < 0 || m.End > len(out) || m.Start >= m.End {
			continue
		}
		token := markerToken(i, i == current)

		sb.Reset()
		sb.Grow(len(out) + 2*len(token))
		sb.WriteString(out[:m.Start])
		sb.WriteString(token)
		sb.WriteString(out[m.Start:m.End])
		sb.WriteString(token)
		sb.WriteString(out[m.End:])
		out = sb.String()
	}
	return out
}

// StripMarkers removes every marker token from s. Used on degraded paths
// so marker internals never reach the user.
func StripMarkers(s string) string {
	return markerRe.ReplaceAllString(s, "")
}
