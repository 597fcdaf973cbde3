// Package diag carries the diagnostics the generator surfaces to its host.
// Diagnostics are created once, never mutated, and collected into a Bag in
// emission order.
package diag

import (
	"fmt"

	"handlergen/internal/catalog"
)

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevInfo is for informational diagnostics.
	SevInfo Severity = iota
	// SevWarning is for warning diagnostics.
	SevWarning
	// SevError is for fatal diagnostics. The pipeline reports environment
	// failures as plain errors instead, so today only foreign reporters
	// produce this severity.
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "info"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	}
	return "unknown"
}

// Code is the stable identifier of a diagnostic kind. Codes are part of the
// tool's external interface and must not change between releases.
type Code string

const (
	// CodeMissingContract reports that the configured handler contract type
	// could not be found in the scanned module at all.
	CodeMissingContract Code = "missing-target-contract"
	// CodeArityMismatch reports a contract implementation whose type-argument
	// count is not exactly two.
	CodeArityMismatch Code = "arity-mismatch"
	// CodeDuplicateHandler reports a second handler sharing an already-seen
	// (request, response) signature.
	CodeDuplicateHandler Code = "duplicate-handler"
)

// Diagnostic is one finding, tied to the most precise source location the
// producer could determine.
type Diagnostic struct {
	Code     Code
	Severity Severity
	Message  string
	Location catalog.Location
}

func (d Diagnostic) String() string {
	if d.Location.IsZero() {
		return fmt.Sprintf("%s [%s]: %s", d.Severity, d.Code, d.Message)
	}
	return fmt.Sprintf("%s: %s [%s]: %s", d.Location, d.Severity, d.Code, d.Message)
}

// Reporter receives diagnostics from pipeline stages.
type Reporter interface {
	Report(d Diagnostic)
}

// Warningf reports a warning diagnostic with a formatted message.
func Warningf(r Reporter, code Code, loc catalog.Location, format string, args ...any) {
	r.Report(Diagnostic{
		Code:     code,
		Severity: SevWarning,
		Message:  fmt.Sprintf(format, args...),
		Location: loc,
	})
}
