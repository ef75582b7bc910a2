package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code.
type ErrorCode int

const (
	ErrNotFound ErrorCode = iota + 1000
	ErrBadRequest
	ErrUnauthorized
	ErrUpstream
	ErrInternal
)

// AppError represents an application error.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
	// Retryable marks failures the caller can recover from by retrying,
	// such as an order-backend fetch that timed out.
	Retryable bool `json:"retryable,omitempty"`
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

func NotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func BadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    ErrBadRequest,
		Message: message,
		Err:     err,
	}
}

func Unauthorized(err error) *AppError {
	return &AppError{
		Code:    ErrUnauthorized,
		Message: "unauthorized",
		Err:     err,
	}
}

// Upstream wraps a failure of the external order backend. These are always
// retryable from the viewer's point of view.
func Upstream(message string, err error) *AppError {
	return &AppError{
		Code:      ErrUpstream,
		Message:   message,
		Err:       err,
		Retryable: true,
	}
}

func Internal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}

// IsRetryable reports whether err (or anything it wraps) is a retryable
// AppError.
func IsRetryable(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Retryable
	}
	return false
}
