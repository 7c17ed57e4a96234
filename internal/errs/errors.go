// Package errs provides the error type tblsrel returns at phase boundaries.
//
// A run has three phases that can fail: resolving configuration, extracting
// the schema snapshot and persisting the generated document. The facade wraps
// whatever went wrong into *errs.Error tagged with the phase, so the CLI can
// say which one failed without inspecting driver errors.
//
//	return errs.Wrap(errs.KindExtraction, "failed to extract schema", err)
//
//	if errs.IsConfig(err) { ... }
package errs

import (
	"errors"
	"fmt"
)

// Kind names the phase an error came from
type Kind int

const (
	KindUnknown     Kind = iota
	KindConfig           // bad flags, unsupported rule, malformed URL
	KindExtraction       // connecting to or reading the database
	KindPersistence      // encoding or writing the output document
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindExtraction:
		return "extraction"
	case KindPersistence:
		return "persistence"
	default:
		return "unknown"
	}
}

// Error is a phase-tagged error
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is / errors.As to traverse the cause chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an *Error with no cause.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap creates an *Error around cause.
func Wrap(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// IsConfig reports whether err is a configuration error.
func IsConfig(err error) bool {
	return KindOf(err) == KindConfig
}

// IsExtraction reports whether err came from reading the schema.
func IsExtraction(err error) bool {
	return KindOf(err) == KindExtraction
}

// IsPersistence reports whether err came from writing the output.
func IsPersistence(err error) bool {
	return KindOf(err) == KindPersistence
}

// KindOf extracts the Kind of the outermost *Error in the chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
