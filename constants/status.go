package constants

// ExtractionStatus is the terminal state of one extraction call.
type ExtractionStatus string

const (
	StatusSucceeded ExtractionStatus = "succeeded" // at least one valid package record
	StatusFailed    ExtractionStatus = "failed"    // no packages, or none passed validation
)

// Severity classifies a diagnostic.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// ScopeKind says what part of the result a diagnostic refers to.
type ScopeKind string

const (
	ScopeHeader   ScopeKind = "header"
	ScopePackage  ScopeKind = "package"
	ScopeDocument ScopeKind = "document"
)
