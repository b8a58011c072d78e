package manifest

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/dc-receiving/internal/entity"
)

type headerField string

const (
	fieldManifestNumber headerField = "manifest number"
	fieldOrigin         headerField = "origin"
	fieldDestination    headerField = "destination"
)

type anchor struct {
	field    headerField
	patterns []*regexp.Regexp
}

// Label variants seen on Metrc manifests. "From" and "To" only count with a colon.
var headerAnchors = []anchor{
	{fieldManifestNumber, []*regexp.Regexp{
		regexp.MustCompile(`(?i)^manifest\s*(?:number|num\b\.?|no\b\.?|#|id\b)\s*[:#.\-]*\s*(.*)$`),
		regexp.MustCompile(`(?i)^manifest\s*:\s*(.*)$`),
	}},
	{fieldOrigin, []*regexp.Regexp{
		regexp.MustCompile(`(?i)^(?:originating\s+(?:entity|license|facility)|origin(?:\s+(?:entity|facility|name))?|shipper(?:\s+name)?)\b\s*[:.\-]*\s*(.*)$`),
		regexp.MustCompile(`(?i)^from\s*:\s*(.*)$`),
	}},
	{fieldDestination, []*regexp.Regexp{
		regexp.MustCompile(`(?i)^(?:destination(?:\s+(?:entity|facility|name))?|recipient(?:\s+name)?|receiving\s+(?:entity|facility|license)|receiver)\b\s*[:.\-]*\s*(.*)$`),
		regexp.MustCompile(`(?i)^to\s*:\s*(.*)$`),
	}},
}

// matchAnchor reports which header anchor starts line and the text following it.
func matchAnchor(line string) (headerField, string, bool) {
	field, value, _, ok := scanAnchor(line)
	return field, value, ok
}

// matchLabel is matchAnchor restricted to lines written as a label: the
// anchor stands alone or is punctuated before its value. Among package lines
// "Origin Kush 3.5g" is an item name while "Origin: Acme" is a page header.
// Manifest number anchors already carry a label word and always qualify.
func matchLabel(line string) (headerField, string, bool) {
	field, value, punctuated, ok := scanAnchor(line)
	if !ok || (value != "" && !punctuated && field != fieldManifestNumber) {
		return "", "", false
	}
	return field, value, true
}

func scanAnchor(line string) (field headerField, value string, punctuated, ok bool) {
	for _, a := range headerAnchors {
		for _, re := range a.patterns {
			loc := re.FindStringSubmatchIndex(line)
			if loc == nil {
				continue
			}
			label := strings.TrimSpace(line[:loc[2]])
			punctuated = strings.ContainsAny(label[len(label)-1:], ":#.-")
			return a.field, strings.TrimSpace(line[loc[2]:loc[3]]), punctuated, true
		}
	}
	return "", "", false, false
}

// HeaderOptions tunes header diagnostics.
type HeaderOptions struct {
	// RequireDestination reports a missing destination as a warning.
	RequireDestination bool
}

// ExtractHeader locates the manifest number, origin and destination. Only the
// first occurrence of each anchor counts, so page headers repeated further
// down never override it. A value is taken from the rest of the anchor line or,
// when that is empty, from the next line unless that line is itself an anchor
// or a package tag. Once the first package tag has been seen only label-style
// anchors count, so item names such as "Origin Kush" are never read as headers.
func ExtractHeader(lines []string, opts HeaderOptions) (entity.ManifestHeader, []entity.Diagnostic) {
	var hdr entity.ManifestHeader
	seen := map[headerField]bool{}
	match := matchAnchor
	for i, line := range lines {
		if isTagLine(line) {
			match = matchLabel
			continue
		}
		field, value, ok := match(line)
		if !ok || seen[field] {
			continue
		}
		seen[field] = true
		if value == "" && i+1 < len(lines) && !isAnchorOrTag(lines[i+1]) {
			value = lines[i+1]
		}
		value = strings.TrimSpace(value)
		if field == fieldManifestNumber {
			value = firstToken(value)
		}
		switch field {
		case fieldManifestNumber:
			hdr.ManifestNumber = entity.StrPtr(value)
		case fieldOrigin:
			hdr.Origin = entity.StrPtr(value)
		case fieldDestination:
			hdr.Destination = entity.StrPtr(value)
		}
	}

	var diags []entity.Diagnostic
	check := func(f headerField, v *string) {
		switch {
		case !seen[f]:
			diags = append(diags, entity.HeaderWarning("%s not found", f))
		case v == nil:
			diags = append(diags, entity.HeaderWarning("%s label present but value missing", f))
		}
	}
	check(fieldManifestNumber, hdr.ManifestNumber)
	check(fieldOrigin, hdr.Origin)
	if opts.RequireDestination {
		check(fieldDestination, hdr.Destination)
	}
	return hdr, diags
}

func isAnchorOrTag(line string) bool {
	if isTagLine(line) {
		return true
	}
	_, _, ok := matchAnchor(line)
	return ok
}

// firstToken keeps the identifier when other columns share the line,
// e.g. "0001234 Date Created: 01/02/2025".
func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return strings.Trim(fields[0], ",;")
}
