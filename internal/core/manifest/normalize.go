package manifest

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/joseph-ayodele/dc-receiving/internal/entity"
)

var (
	reLineBreak = regexp.MustCompile(`\r\n?|\n|\f`)
	reBoxNoise  = regexp.MustCompile(`^[_\-=.]{3,}$`)
)

// NormalizeLines turns raw document text into trimmed, non-empty logical lines
// with whitespace runs collapsed. An element holding embedded breaks (a whole
// page, say) is split first. Empty input yields an empty, non-nil slice.
func NormalizeLines(raw entity.RawDocumentText) []string {
	out := make([]string, 0, len(raw))
	for _, chunk := range raw {
		for _, part := range reLineBreak.Split(chunk, -1) {
			if line := NormalizeLine(part); line != "" {
				out = append(out, line)
			}
		}
	}
	return out
}

// NormalizeLine cleans a single physical line. Compatibility characters
// (non-breaking spaces, ligatures, full-width digits) are folded by NFKC;
// BOMs, zero-width characters, soft hyphens and other controls are dropped;
// table rules such as "-----" count as empty.
func NormalizeLine(s string) string {
	s = norm.NFKC.String(s)
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '\uFEFF', r == '\u200B', r == '\u200C', r == '\u200D', r == '\u2060', r == '\u00AD':
			return -1
		case r == unicode.ReplacementChar:
			return -1
		case unicode.IsSpace(r):
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
	s = strings.Join(strings.Fields(s), " ")
	if reBoxNoise.MatchString(s) {
		return ""
	}
	return s
}
