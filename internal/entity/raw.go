package entity

import "strings"

// RawDocumentText is the ordered sequence of lines handed over by the text
// extraction layer. It is owned by the caller and never modified.
type RawDocumentText []string

var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n", "\f", "\n")

// SplitLines turns a single text blob into RawDocumentText. Form feeds
// (page breaks) count as line breaks.
func SplitLines(blob string) RawDocumentText {
	if blob == "" {
		return RawDocumentText{}
	}
	return RawDocumentText(strings.Split(lineBreaks.Replace(blob), "\n"))
}
