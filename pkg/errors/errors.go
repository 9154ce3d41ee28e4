// Package errors provides structured error types for scynet.
//
// Every failure that crosses a stage boundary (collapse, annotate, layout) is
// reported as an [*Error] carrying a machine-readable [Code]. The CLI prints
// [UserMessage], the HTTP API maps codes to status codes, and the pipeline
// decides from [IsFatal] whether to abort or record a warning and continue.
//
// # Error Codes
//
//   - CONFIGURATION_MISMATCH: required network columns are absent (abort)
//   - UNRESOLVED_SHARED_COMPARTMENT: no shared compartment marker (warning)
//   - MALFORMED_IDENTIFIER: species identifier does not match its compartment (silent)
//   - MALFORMED_FLUX_FILE: flux table could not be parsed (reported, empty table)
//   - LAYOUT_PRECONDITION: network is not a collapsed community network (reported)
//
// # Usage
//
//	err := errors.New(errors.ErrCodeConfigurationMismatch, "missing column %q", col)
//	if errors.Is(err, errors.ErrCodeConfigurationMismatch) {
//	    // abort the collapse
//	}
//
//	err := errors.Wrap(errors.ErrCodeMalformedFluxFile, parseErr, "line %d", n)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for the collapse, annotation and layout stages.
const (
	// Network and input errors
	ErrCodeConfigurationMismatch       Code = "CONFIGURATION_MISMATCH"
	ErrCodeUnresolvedSharedCompartment Code = "UNRESOLVED_SHARED_COMPARTMENT"
	ErrCodeMalformedIdentifier         Code = "MALFORMED_IDENTIFIER"
	ErrCodeMalformedFluxFile           Code = "MALFORMED_FLUX_FILE"
	ErrCodeLayoutPrecondition          Code = "LAYOUT_PRECONDITION"
	ErrCodeInvalidInput                Code = "INVALID_INPUT"
	ErrCodeInvalidFormat               Code = "INVALID_FORMAT"

	// Resource errors
	ErrCodeNotFound     Code = "NOT_FOUND"
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

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsFatal reports whether an error with this code must abort the stage that
// produced it. Warning codes are recorded and processing continues with a
// degraded result.
func IsFatal(err error) bool {
	switch GetCode(err) {
	case ErrCodeUnresolvedSharedCompartment, ErrCodeMalformedIdentifier, ErrCodeMalformedFluxFile:
		return false
	}
	return err != nil
}
