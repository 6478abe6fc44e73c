// Package apperr carries service failures across the API boundary: a
// machine-readable operation code, a human-readable message for the response
// body, and a sentinel category that handlers map to an HTTP status.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks missing or malformed request fields.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound marks a referenced identifier that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnavailable marks an unreachable backing service.
	ErrUnavailable = errors.New("service unavailable")
)

// Error pairs an operation code with its cause.
type Error struct {
	code    string
	message string
	cause   error
}

// New builds an Error with code "operation.reason".
func New(operation, reason, message string, cause error) *Error {
	return &Error{
		code:    fmt.Sprintf("%s.%s", operation, reason),
		message: message,
		cause:   cause,
	}
}

func (e *Error) Error() string {
	if e.cause == nil {
		return e.code
	}
	return fmt.Sprintf("%s: %v", e.code, e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Code returns the machine-readable "operation.reason" code.
func (e *Error) Code() string {
	return e.code
}

// Message returns the human-readable description intended for clients.
func (e *Error) Message() string {
	return e.message
}

// Message extracts the client-facing description from err, falling back to
// the raw error text.
func Message(err error) string {
	var appError *Error
	if errors.As(err, &appError) && appError.message != "" {
		return appError.message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
