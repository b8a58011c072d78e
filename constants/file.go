package constants

import "strings"

// Source formats accepted for manifest text acquisition.
const (
	PDF  = "PDF"
	TEXT = "TEXT"
)

// FileTypes holds the allowed source formats.
var FileTypes = []string{PDF, TEXT}

// AllowedExtensions holds the default allowed file extensions for manifest ingestion.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
	"txt": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// MapExtToFormat maps a file extension (with or without dot) to a source format.
// Returns "" for unsupported extensions.
func MapExtToFormat(ext string) string {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "txt":
		return TEXT
	default:
		return ""
	}
}

// IsAllowedExt reports whether ext is one of AllowedExtensions.
func IsAllowedExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}
