// Package manifest turns text extracted from Metrc transfer manifests into
// header fields and per-package records. Everything here is a pure function of
// its input; compiled patterns are package-level and never mutated, so calls
// may run concurrently.
package manifest

import (
	"regexp"
	"strings"
)

// Metrc package tags: "1A4" followed by 21 upper-case alphanumerics.
const tagLen = 24

var (
	reTag        = regexp.MustCompile(`\b1A4[0-9A-Z]{21}\b`)
	reTagPrefix  = regexp.MustCompile(`^1A4[0-9A-Z]{21}\b`)
	rePartialTag = regexp.MustCompile(`^1A4[0-9A-Z]{0,20}$`)
)

// weight and volume units, longest alternatives first.
const measureExpr = `(?:fl\s*oz|grams?|gr|mg|kg|ml|lbs|lb|oz|g|l)`

// number as written on the manifest: plain, with thousands separators, or leading dot.
const numberExpr = `(\d{1,3}(?:,\d{3})+(?:\.\d+)?|\d+(?:\.\d+)?|\.\d+)`

var (
	reBareQuantity    = regexp.MustCompile(`(?i)^(?:(?:qty|quantity)\s*[:.]?\s*)?` + numberExpr + `(?:\s*([a-z][a-z ]{0,9}[a-z]|[a-z]))?$`)
	reShippedQuantity = regexp.MustCompile(`(?i)\b(?:shp|shipped|qty\s+shipped|quantity\s+shipped)\s*[:.]?\s*` + numberExpr + `(?:\s*([a-z]+(?:\s+oz)?))?`)
	reReceivedLabel   = regexp.MustCompile(`(?i)^(?:rec|received|qty\s+received|quantity\s+received)\s*[:.]\s*(.*)$`)
	reMeasurement     = regexp.MustCompile(`(?i)^\d+(?:\.\d+)?\s*(?:g|mg|kg|oz|lb|lbs|ml|l|fl\s*oz)$`)
	reDetail          = regexp.MustCompile(`(?i)^(?:wgt|weight|net\s+weight|unit\s+weight|vol|volume|unit\s+volume|strain|item\s+details)\s*[:.]\s*\S`)
	reDetailMeasure   = regexp.MustCompile(`(?i)^((?:wgt|weight|net\s+weight|unit\s+weight|vol|volume|unit\s+volume)\s*[:.]\s*\d+(?:\.\d+)?\s*` + measureExpr + `\b\.?)\s*(.*)$`)
	reNameLabel       = regexp.MustCompile(`(?i)^(?:item(?:\s+name)?|product(?:\s+name)?)\s*:\s*(.*)$`)
	reSegmentSplit    = regexp.MustCompile(`\s+\|\s+`)
)

var reBatch = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(?:source\s+)?production\s+batch(?:\s*(?:number|no\b\.?|#|id\b))?\s*[:#.\-]*\s*(.*)$`),
	regexp.MustCompile(`(?i)^batch\s*(?:number|no\b\.?|#|id\b)\s*[:#.\-]*\s*(.*)$`),
	regexp.MustCompile(`(?i)^batch\s*:\s*(.*)$`),
}

var reBoilerplate = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\d+\s*\.\s*package\b`),
	regexp.MustCompile(`(?i)^(?:accepted|shipped|rejected|received|pending)$`),
	regexp.MustCompile(`(?i)^lab\s+tests?\b`),
	regexp.MustCompile(`(?i)^contains\s+retail\s+ids?\b`),
	regexp.MustCompile(`(?i)^item\s+details\s*:?$`),
	regexp.MustCompile(`(?i)^page\s+\d+(?:\s+of\s+\d+)?$`),
	regexp.MustCompile(`(?i)^(?:shp|shipped|qty(?:\s+shipped)?|quantity(?:\s+shipped)?)\s*:$`),
	regexp.MustCompile(`(?i)^package\s*(?:id|tag|label)?\s*[:#]?$`),
}

// Unit tokens accepted after a quantity, lower-cased.
var knownUnits = map[string]struct{}{
	"ea": {}, "each": {}, "ct": {}, "count": {}, "unit": {}, "units": {}, "pk": {}, "pack": {},
	"g": {}, "gr": {}, "gram": {}, "grams": {}, "mg": {}, "kg": {},
	"oz": {}, "ounce": {}, "ounces": {}, "lb": {}, "lbs": {}, "pound": {}, "pounds": {},
	"ml": {}, "l": {}, "liter": {}, "liters": {}, "litre": {}, "litres": {}, "fl oz": {}, "floz": {},
}

// Weight and volume units. They describe the item unless nothing else on the
// block can be the shipped quantity.
var measureUnits = map[string]struct{}{
	"g": {}, "gr": {}, "gram": {}, "grams": {}, "mg": {}, "kg": {},
	"oz": {}, "ounce": {}, "ounces": {}, "lb": {}, "lbs": {}, "pound": {}, "pounds": {},
	"ml": {}, "l": {}, "liter": {}, "liters": {}, "litre": {}, "litres": {}, "fl oz": {}, "floz": {},
}

func isMeasureUnit(s string) bool {
	s = strings.ToLower(strings.Join(strings.Fields(s), " "))
	_, ok := measureUnits[s]
	return ok
}

func isKnownUnit(s string) bool {
	s = strings.ToLower(strings.Join(strings.Fields(s), " "))
	_, ok := knownUnits[s]
	return ok
}

func isTagLine(line string) bool {
	return reTag.MatchString(line)
}

func isBoilerplate(line string) bool {
	for _, re := range reBoilerplate {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

func matchBatch(line string) (string, bool) {
	for _, re := range reBatch {
		if m := re.FindStringSubmatch(line); m != nil {
			return strings.TrimSpace(m[1]), true
		}
	}
	return "", false
}
