package scene

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures raised while building or comparing scene graphs.
type ErrorKind string

const (
	// KindInvalidInput marks malformed objects, graph documents or image dimensions.
	KindInvalidInput ErrorKind = "INVALID_INPUT"

	// KindConfiguration marks bad thresholds or weights.
	KindConfiguration ErrorKind = "CONFIGURATION"
)

// Sentinel errors for use with errors.Is.
var (
	ErrInvalidInput  = &Error{Kind: KindInvalidInput, Message: "invalid input"}
	ErrConfiguration = &Error{Kind: KindConfiguration, Message: "invalid configuration"}
)

// Error is the typed error returned by the scene and compare packages.
type Error struct {
	Kind    ErrorKind
	Op      string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same kind, so that
// errors.Is(err, ErrInvalidInput) matches any invalid-input failure.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// InvalidInput builds a KindInvalidInput error.
func InvalidInput(op, format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidInput, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Configuration builds a KindConfiguration error.
func Configuration(op, format string, args ...interface{}) *Error {
	return &Error{Kind: KindConfiguration, Op: op, Message: fmt.Sprintf(format, args...)}
}
