package diagnostic

import (
	"errors"
	"fmt"
	"strings"

	"letclone/internal/scan"
)

// Codes identifying each class of rejected construct.
const (
	CodeTupleIndex      = "tuple-index"
	CodeUnsupportedExpr = "unsupported-expr"
	CodeEmptyRequest    = "empty-request"
	CodeEmptyInvocation = "empty-invocation"
	CodeUnbalanced      = "unbalanced"
	CodeUnterminated    = "unterminated-literal"
)

// Diagnostics holds all diagnostic information from expanding one unit of
// source.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity Severity
	// Code is a unique identifier for this type of diagnostic.
	Code string
	// Message is the human-readable description.
	Message string
	// File names the source file this relates to (if any).
	File string
	// Span locates the offending bytes within the file (if any).
	Span scan.Span
}

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code, message string, span scan.Span) {
	d.Errors = append(d.Errors, Diagnostic{
		Severity: SeverityError,
		Code:     code,
		Message:  message,
		Span:     span,
	})
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message string, span scan.Span) {
	d.Warnings = append(d.Warnings, Diagnostic{
		Severity: SeverityWarning,
		Code:     code,
		Message:  message,
		Span:     span,
	})
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, message string, span scan.Span) {
	d.Infos = append(d.Infos, Diagnostic{
		Severity: SeverityInfo,
		Code:     code,
		Message:  message,
		Span:     span,
	})
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// IsValid returns true if there are no errors.
func (d *Diagnostics) IsValid() bool {
	return len(d.Errors) == 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// MergeShifted merges diagnostics whose spans are relative to a region
// starting at off bytes into the file, shifting them to file coordinates
// and stamping the file name.
func (d *Diagnostics) MergeShifted(other Diagnostics, file string, off int) {
	d.Errors = append(d.Errors, shift(other.Errors, file, off)...)
	d.Warnings = append(d.Warnings, shift(other.Warnings, file, off)...)
	d.Infos = append(d.Infos, shift(other.Infos, file, off)...)
}

func shift(ds []Diagnostic, file string, off int) []Diagnostic {
	out := make([]Diagnostic, len(ds))

	for i, dg := range ds {
		dg.Span = dg.Span.Shift(off)
		if dg.File == "" {
			dg.File = file
		}

		out[i] = dg
	}

	return out
}

// Error returns a combined error from all error diagnostics, or nil if valid.
func (d *Diagnostics) Error() error {
	if d.IsValid() {
		return nil
	}

	var parts []string
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if d.File != "" {
		return d.File + ": " + msg
	}

	return msg
}
