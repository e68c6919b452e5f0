// Package errors provides structured error types for calgrid.
//
// Every error that crosses a package boundary towards the CLI or the HTTP
// API carries a [Code], so callers can tell a bad request from a failing
// calendar feed without matching on message text.
//
// # Error Codes
//
//   - INVALID_*: Input validation failures (hours, dates, formats, sources)
//   - *_NOT_FOUND: Missing files or calendars
//   - NETWORK_ERROR, TIMEOUT: Remote feed failures
//   - PARSE_FAILED, RENDER_FAILED: Stage failures inside the pipeline
//   - INTERNAL_ERROR: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidHour, "start hour %d out of range", h)
//	if errors.Is(err, errors.ErrCodeInvalidHour) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "failed to fetch %s", url)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidStyle    Code = "INVALID_STYLE"
	ErrCodeInvalidView     Code = "INVALID_VIEW"
	ErrCodeInvalidHour     Code = "INVALID_HOUR"
	ErrCodeInvalidDate     Code = "INVALID_DATE"
	ErrCodeInvalidTimezone Code = "INVALID_TIMEZONE"
	ErrCodeInvalidSource   Code = "INVALID_SOURCE"
	ErrCodeInvalidPath     Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound       Code = "NOT_FOUND"
	ErrCodeSourceNotFound Code = "SOURCE_NOT_FOUND"
	ErrCodeFileNotFound   Code = "FILE_NOT_FOUND"

	// Network errors
	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeRateLimited Code = "RATE_LIMITED"

	// Stage errors
	ErrCodeParseFailed  Code = "PARSE_FAILED"
	ErrCodeRenderFailed Code = "RENDER_FAILED"

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

// coder is implemented by every error type of this package.
type coder interface{ ErrorCode() Code }

// ErrorCode returns e.Code.
func (e *Error) ErrorCode() Code { return e.Code }

// GetCode returns the code of the first coded error in err's chain, or ""
// when there is none.
func GetCode(err error) Code {
	var c coder
	if errors.As(err, &c) {
		return c.ErrorCode()
	}
	return ""
}

// Is reports whether err carries code.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// UserMessage returns the message of a coded error without the code
// prefix and the cause, or err.Error() for any other error.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Class groups codes by what the caller can do about them.
type Class int

const (
	ClassInternal   Class = iota // a bug or an unexpected failure
	ClassInput                   // the request has to change
	ClassNotFound                // a file, feed or route does not exist
	ClassUpstream                // a calendar feed misbehaved; retrying may help
	ClassProcessing              // a stage could not handle the data
)

// Class returns the class of c.
func (c Code) Class() Class {
	switch c {
	case ErrCodeNotFound, ErrCodeSourceNotFound, ErrCodeFileNotFound:
		return ClassNotFound
	case ErrCodeNetwork, ErrCodeTimeout, ErrCodeRateLimited:
		return ClassUpstream
	case ErrCodeParseFailed, ErrCodeRenderFailed, ErrCodeUnsupported:
		return ClassProcessing
	}
	if strings.HasPrefix(string(c), "INVALID_") {
		return ClassInput
	}
	return ClassInternal
}

// RateLimitedError is returned when a feed host answers 429.
type RateLimitedError struct {
	RetryAfter int    // seconds from the Retry-After header, 0 if absent
	Message    string // the host that refused the request
}

func (e *RateLimitedError) Error() string {
	msg := "rate limited"
	if e.Message != "" {
		msg += " by " + e.Message
	}
	if e.RetryAfter > 0 {
		msg += fmt.Sprintf(": retry after %d seconds", e.RetryAfter)
	}
	return msg
}

// ErrorCode returns [ErrCodeRateLimited].
func (e *RateLimitedError) ErrorCode() Code { return ErrCodeRateLimited }
