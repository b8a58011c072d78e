package entity

import (
	"fmt"

	"github.com/joseph-ayodele/dc-receiving/constants"
)

// Scope locates a diagnostic. Sequence is set only for package scope.
type Scope struct {
	Kind     constants.ScopeKind `json:"kind"`
	Sequence int                 `json:"sequence_number,omitempty"`
}

func (s Scope) String() string {
	if s.Kind == constants.ScopePackage {
		return fmt.Sprintf("package(%d)", s.Sequence)
	}
	return string(s.Kind)
}

// Diagnostic is a non-fatal note about a field that could not be confidently extracted,
// or a document-level error when extraction failed.
type Diagnostic struct {
	Severity constants.Severity `json:"severity"`
	Scope    Scope              `json:"scope"`
	Message  string             `json:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s [%s] %s", d.Severity, d.Scope, d.Message)
}

func HeaderWarning(format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: constants.SeverityWarning,
		Scope:    Scope{Kind: constants.ScopeHeader},
		Message:  fmt.Sprintf(format, args...),
	}
}

func PackageWarning(seq int, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: constants.SeverityWarning,
		Scope:    Scope{Kind: constants.ScopePackage, Sequence: seq},
		Message:  fmt.Sprintf(format, args...),
	}
}

func DocumentError(format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: constants.SeverityError,
		Scope:    Scope{Kind: constants.ScopeDocument},
		Message:  fmt.Sprintf(format, args...),
	}
}
