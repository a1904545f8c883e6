// Package errors provides the error taxonomy of the topology engine.
//
// Every rejected operation returns an [*Error] carrying a machine-readable
// [Code] and a plain descriptive message naming the offending id(s) and the
// rule that was violated. The engine stays usable after any rejected
// operation: rejections commit nothing.
//
// # Error Codes
//
//   - DUPLICATE_ID: a node with the same id is already live
//   - DUPLICATE_LINK: the unordered endpoint pair is already linked
//   - SELF_LOOP: a link whose source equals its target
//   - UNRESOLVED_ENDPOINT: a link endpoint is not a live node
//   - NOT_RENDERED: the engine was never constructed or has been destroyed
//   - INTERNAL_ERROR: the model and the scene disagree (invariant failure)
//
// # Usage
//
//	_, err := t.AddLink(graph.LinkSpec{Source: "a", Target: "a"})
//	if errors.Is(err, errors.ErrCodeSelfLoop) {
//	    // reject path
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Graph invariant violations
	ErrCodeDuplicateID        Code = "DUPLICATE_ID"
	ErrCodeDuplicateLink      Code = "DUPLICATE_LINK"
	ErrCodeSelfLoop           Code = "SELF_LOOP"
	ErrCodeUnresolvedEndpoint Code = "UNRESOLVED_ENDPOINT"

	// Lifecycle errors
	ErrCodeNotRendered Code = "NOT_RENDERED"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface. The code is not part of the text:
// callers receive the plain message.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of the first *Error in the chain,
// dropping any context prefixes added by fmt.Errorf wrapping.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
