// Package domainerrors provides coded domain errors shared by all
// bounded contexts. Value objects raise CodeValidation from their
// constructors; aggregates raise CodeInvariantViolation for cross-field
// and lifecycle violations. Stores translate infra sentinels into these
// at the service boundary.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error for programmatic handling.
type Code string

const (
	// CodeValidation marks a single-field or small-cluster static
	// invariant violation raised by a value object constructor.
	CodeValidation Code = "validation"

	// CodeInvalidInput marks malformed input rejected at a trust
	// boundary before it reaches domain construction.
	CodeInvalidInput Code = "invalid_input"

	// CodeInvariantViolation marks a cross-field or lifecycle
	// violation raised by an aggregate root.
	CodeInvariantViolation Code = "invariant_violation"

	// CodeNotFound marks a missing aggregate surfaced to callers.
	CodeNotFound Code = "not_found"

	// CodeConflict marks an optimistic-concurrency failure: the stored
	// version no longer matches the version the aggregate was loaded
	// with. Resolution (reload, replay, resubmit) is the caller's job.
	CodeConflict Code = "conflict"
)

// Error is the coded domain error. Field names the offending field for
// validation errors; Context carries diagnostic values for operators.
type Error struct {
	Code    Code
	Message string
	Field   string
	Context map[string]any
}

// New creates a coded domain error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded domain error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithField attaches the offending field name. Returns the receiver for
// chaining at construction sites.
func (e *Error) WithField(field string) *Error {
	e.Field = field
	return e
}

// WithContext attaches a diagnostic key/value pair.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is makes errors.Is match on code equality so sentinels per code can
// be compared without exposing internals.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// HasCode reports whether err (or anything it wraps) is a domain error
// with the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == code
}

// FieldOf extracts the offending field from a domain error, or "".
func FieldOf(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Field
}
