// Package apperrors defines the typed error taxonomy shared by every layer
// of the solver: entity store, curriculum builder, CSP engine and result
// sink all report failures as *Error so callers can switch on Kind instead
// of matching strings.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind identifies one of the failure categories the core can raise.
type Kind string

const (
	// IntegrityError is raised when a store mutation would violate a
	// uniqueness or foreign-key invariant. The store is left unchanged.
	IntegrityError Kind = "IntegrityError"

	// ConfigurationError is raised when a year is missing data required
	// to build or solve (no classrooms, no teachers for a required
	// subject). Aborts that year only; other years continue.
	ConfigurationError Kind = "ConfigurationError"

	// NoTeachers is raised by the curriculum builder for a subject with
	// zero competent teachers. Recoverable: the subject is skipped.
	NoTeachers Kind = "NoTeachers"

	// Unsolvable is reported when the CSP search exhausts without a
	// complete assignment.
	Unsolvable Kind = "Unsolvable"

	// Timeout is reported when a solve deadline expires mid-search.
	Timeout Kind = "Timeout"

	// Cancelled is reported when the caller cancels a solve in progress.
	Cancelled Kind = "Cancelled"

	// InternalAssertion is raised when invariants 1-7 are found violated
	// after a solve. Treated as a solver bug; the write is aborted.
	InternalAssertion Kind = "InternalAssertion"
)

// Error is a typed, wrappable domain error.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates an Error of the given kind with no wrapped cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf is New with fmt.Sprintf-style formatting.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a Kind and message to an existing error.
func Wrap(err error, kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Is reports whether err carries the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// KindOf extracts the Kind of err, or "" if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
