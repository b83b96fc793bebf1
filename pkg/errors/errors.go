// Package errors provides structured error types for stackbom.
//
// Every failure the resolution pipeline reports carries a machine-readable
// [Code]. Callers use the code to decide whether a failure is scoped to one
// descriptor (the file is skipped and the batch continues) or whether it
// should stop the run.
//
// # Error Codes
//
// Codes are grouped by where the failure originates:
//   - descriptor input: UNREADABLE_FILE, MALFORMED_CONTENT, MISSING_IDENTITY
//   - ancestor resolution: PARENT_PATH_UNRESOLVABLE, CYCLIC_PARENT_CHAIN
//   - configuration and paths: INVALID_*
//   - remote lookups: NOT_FOUND, NETWORK_ERROR, TIMEOUT
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMissingIdentity, "%s: no artifactId", path)
//	if errors.Is(err, errors.ErrCodeMissingIdentity) {
//	    // skip the descriptor
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeUnreadableFile, origErr, "read %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Descriptor input errors
	ErrCodeUnreadableFile   Code = "UNREADABLE_FILE"
	ErrCodeMalformedContent Code = "MALFORMED_CONTENT"
	ErrCodeMissingIdentity  Code = "MISSING_IDENTITY"

	// Ancestor resolution errors
	ErrCodeParentPathUnresolvable Code = "PARENT_PATH_UNRESOLVABLE"
	ErrCodeCyclicParentChain      Code = "CYCLIC_PARENT_CHAIN"

	// Input validation errors
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidPath       Code = "INVALID_PATH"
	ErrCodeInvalidConfig     Code = "INVALID_CONFIG"
	ErrCodeInvalidCoordinate Code = "INVALID_COORDINATE"
	ErrCodeInvalidFormat     Code = "INVALID_FORMAT"

	// Remote lookup errors
	ErrCodeNotFound Code = "NOT_FOUND"
	ErrCodeNetwork  Code = "NETWORK_ERROR"
	ErrCodeTimeout  Code = "TIMEOUT"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
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

// FileScoped reports whether err only affects the descriptor it was raised
// for. File-scoped failures are collected and reported; the batch continues.
func FileScoped(err error) bool {
	switch GetCode(err) {
	case ErrCodeUnreadableFile, ErrCodeMalformedContent, ErrCodeMissingIdentity,
		ErrCodeCyclicParentChain, ErrCodeInvalidPath:
		return true
	}
	return false
}
