// Package apperrors defines the error taxonomy returned by services and
// rendered by the HTTP layer.
package apperrors

import (
	"errors"
	"fmt"
)

// AppError is a classified error carrying the detail shown to API callers
type AppError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Status  int    `json:"-"`
	cause   error
}

func (e *AppError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field: %s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.cause
}

func newError(code Code, message string) *AppError {
	return &AppError{Code: code, Message: message, Status: code.StatusCode()}
}

// Validation reports malformed input on a specific field
func Validation(field, message string) *AppError {
	e := newError(CodeValidation, message)
	e.Field = field
	return e
}

func Unauthorized(message string) *AppError {
	return newError(CodeUnauthorized, message)
}

func Forbidden(message string) *AppError {
	return newError(CodeForbidden, message)
}

// NotFound reports a missing entity, e.g. NotFound("post")
func NotFound(resource string) *AppError {
	return newError(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func Conflict(message string) *AppError {
	return newError(CodeConflict, message)
}

func Internal(message string) *AppError {
	return newError(CodeInternal, message)
}

// Wrap classifies an unexpected error as internal, keeping it as the cause
func Wrap(err error, message string) *AppError {
	e := Internal(message)
	e.cause = err
	return e
}

// As extracts an AppError from the chain
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is reports whether err is an AppError with the given code
func Is(err error, code Code) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}
