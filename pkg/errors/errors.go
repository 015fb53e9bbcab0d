package errors

import (
	"errors"
	"fmt"
)

// Domain errors - Sentinel errors for use with errors.Is()
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidName   = errors.New("invalid name")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrNotFound      = errors.New("resource not found")
	ErrBackend       = errors.New("storage backend error")
)

// Custom error type with context
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Constructors
func InvalidInput(msg string) *AppError {
	return &AppError{Code: "INVALID_INPUT", Message: msg, Err: ErrInvalidInput}
}

func InvalidName(msg string) *AppError {
	return &AppError{Code: "INVALID_NAME", Message: msg, Err: ErrInvalidName}
}

func AlreadyExists(msg string) *AppError {
	return &AppError{Code: "ALREADY_EXISTS", Message: msg, Err: ErrAlreadyExists}
}

func NotFound(msg string) *AppError {
	return &AppError{Code: "NOT_FOUND", Message: msg, Err: ErrNotFound}
}

// Backend wraps an underlying I/O failure. The cause is preserved so the
// caller can see which key or endpoint failed and decide on retry itself.
func Backend(msg string, err error) *AppError {
	return &AppError{Code: "BACKEND_ERROR", Message: msg, Err: fmt.Errorf("%w: %v", ErrBackend, err)}
}
