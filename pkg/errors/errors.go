// Package errors provides structured errors for the refnet boundary layers.
//
// The core packages (referral, growth) report failures through plain
// sentinel errors; this package is how the CLI and API express those and
// their own failures toward users and clients:
//   - Machine-readable codes the API maps to HTTP statuses
//   - User-facing messages without internal detail
//   - Cause wrapping so the full chain stays inspectable
//
// # Error Codes
//
// Codes follow a naming convention:
//   - INVALID_*: input validation failures (network files, options, curves)
//   - UNKNOWN_USER: a graph operation named an unregistered user
//   - *_NOT_FOUND: a requested resource does not exist
//   - INTERNAL_ERROR, UNSUPPORTED: everything a caller cannot fix
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidUser, "invalid user id: %s", id)
//	if errors.Is(err, errors.ErrCodeInvalidUser) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidNetwork, origErr, "load %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput       Code = "INVALID_INPUT"
	ErrCodeInvalidUser        Code = "INVALID_USER"
	ErrCodeInvalidNetwork     Code = "INVALID_NETWORK"
	ErrCodeInvalidProbability Code = "INVALID_PROBABILITY"
	ErrCodeInvalidDuration    Code = "INVALID_DURATION"
	ErrCodeInvalidTarget      Code = "INVALID_TARGET"
	ErrCodeInvalidPrecision   Code = "INVALID_PRECISION"
	ErrCodeInvalidFormat      Code = "INVALID_FORMAT"
	ErrCodeInvalidAnalysis    Code = "INVALID_ANALYSIS"
	ErrCodeInvalidCurve       Code = "INVALID_CURVE"

	// Graph precondition errors
	ErrCodeUnknownUser Code = "UNKNOWN_USER"

	// Resource not found errors
	ErrCodeNotFound       Code = "NOT_FOUND"
	ErrCodeFileNotFound   Code = "FILE_NOT_FOUND"
	ErrCodeReportNotFound Code = "REPORT_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error carrying a code, a user-facing message, and
// an optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates an Error around an existing error. Core sentinels arrive
// here so the boundary can attach a code without losing the original for
// errors.Is checks further up.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the code from an error, or "" for plain errors. The API
// treats "" as INTERNAL_ERROR.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without the code prefix, suitable for
// terminal output. Plain errors pass through unchanged.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
