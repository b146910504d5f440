// Package apperrors provides typed domain errors shared by services, the access gate and handlers.
//
// Services return these errors (possibly wrapped with fmt.Errorf and %w), handlers translate
// them into HTTP status codes:
//
//	if errors.Is(err, apperrors.ErrNotFound) {
//	    ...
//	}
//
//	var appErr *apperrors.Error
//	if errors.As(err, &appErr) {
//	    status := appErr.HTTPStatus()
//	}
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

// Error codes used throughout the application.
const (
	CodeValidation           Code = "VALIDATION"
	CodeUnauthorized         Code = "UNAUTHORIZED"
	CodeForbidden            Code = "FORBIDDEN"
	CodeNotFound             Code = "NOT_FOUND"
	CodeConflict             Code = "CONFLICT"
	CodeIncorrectCredentials Code = "INCORRECT_CREDENTIALS"
	CodeInternal             Code = "INTERNAL"
)

// HTTPStatus returns the HTTP status code for an error code.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthorized, CodeIncorrectCredentials:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error with a code, a client-facing message and optional details.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches any *Error with the same code, so errors.Is(err, ErrNotFound)
// holds for every not-found error regardless of message.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the HTTP status code for this error.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// WithCause returns a copy of the error wrapping err.
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		cause:   err,
	}
}

// Sentinel errors for use with errors.Is.
var (
	ErrValidation           = &Error{Code: CodeValidation, Message: "validation error"}
	ErrUnauthorized         = &Error{Code: CodeUnauthorized, Message: "unauthorized"}
	ErrForbidden            = &Error{Code: CodeForbidden, Message: "insufficient rights"}
	ErrNotFound             = &Error{Code: CodeNotFound, Message: "entity not found"}
	ErrConflict             = &Error{Code: CodeConflict, Message: "conflict"}
	ErrIncorrectCredentials = &Error{Code: CodeIncorrectCredentials, Message: "incorrect username or password"}
	ErrInternal             = &Error{Code: CodeInternal, Message: "internal error"}
)

// Validation creates a validation error.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// ValidationWithDetails creates a validation error carrying per-field messages.
func ValidationWithDetails(msg string, details any) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: details}
}

// Unauthorized creates an unauthorized error.
func Unauthorized(msg string) *Error {
	return &Error{Code: CodeUnauthorized, Message: msg}
}

// Forbidden creates a forbidden error.
func Forbidden(msg string) *Error {
	return &Error{Code: CodeForbidden, Message: msg}
}

// NotFound creates a not found error.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// Conflict creates a conflict error.
func Conflict(msg string) *Error {
	return &Error{Code: CodeConflict, Message: msg}
}

// Internal creates an internal error wrapping err.
func Internal(msg string, err error) *Error {
	return &Error{Code: CodeInternal, Message: msg, cause: err}
}

// StatusOf returns the HTTP status and client message for any error.
// Errors that are not domain errors map to 500 with a generic message.
func StatusOf(err error) (int, string) {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Code != CodeInternal {
		return appErr.HTTPStatus(), appErr.Message
	}
	return http.StatusInternalServerError, "internal server error"
}
