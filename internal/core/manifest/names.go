package manifest

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// "(SUP-001)", "[VND12]": upper-case supplier codes carrying a digit.
	reSupplierCode = regexp.MustCompile(`\s*[(\[][A-Z]{2,}[-_]?[A-Z0-9]*\d[A-Z0-9]*(?:[-_][A-Z0-9]+)*[)\]]\s*$`)
	reSupplierTag  = regexp.MustCompile(`(?i)\s*[|,;\-–]?\s*\b(?:supplier|vendor|mfr|mfg|manufacturer|brand)\s*[:#]\s*[^|]*$`)
	reSeparatorRun = regexp.MustCompile(`\s*[|/,;\-–](?:\s*[|/,;\-–])+\s*`)
)

const (
	leadingPunct  = " |/,;:-–_*•·~"
	trailingPunct = " |/,;:-–_*•·~."
)

const maxCleanPasses = 8

// CleanItemName strips supplier noise from a raw item name and tidies its
// separators and whitespace. It is idempotent. When nothing would remain, the
// whitespace-collapsed input is returned instead.
func CleanItemName(raw string) string {
	orig := strings.Join(strings.Fields(raw), " ")
	s := orig
	for i := 0; i < maxCleanPasses; i++ {
		next := cleanOnce(s)
		if next == s {
			break
		}
		s = next
	}
	if s == "" {
		return orig
	}
	return s
}

func cleanOnce(s string) string {
	s = reSupplierTag.ReplaceAllString(s, "")
	s = reSupplierCode.ReplaceAllString(s, "")
	s = reSeparatorRun.ReplaceAllStringFunc(s, func(run string) string {
		sep, _ := utf8.DecodeRuneInString(strings.TrimSpace(run))
		if sep == ',' || sep == ';' {
			return string(sep) + " "
		}
		return " " + string(sep) + " "
	})
	s = strings.Join(strings.Fields(s), " ")
	s = strings.TrimLeft(s, leadingPunct)
	s = strings.TrimRight(s, trailingPunct)
	return s
}
