// Package apperr defines the error taxonomy used across TCCS operations:
// validation, authorization, not-found, business-rule and persistence
// failures, each carrying the HTTP status it maps to at the boundary.
package apperr

import (
	"errors"
	"net/http"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrBusinessRule = errors.New("business rule violated")
	ErrPersistence  = errors.New("persistence failure")
)

// Error is a typed operation failure. Business-rule and validation failures
// are handled locally; only persistence failures propagate opaquely.
type Error struct {
	Kind    error
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Kind.Error()
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, status int, message string) *Error {
	return &Error{Kind: kind, Status: status, Message: message}
}

func Validation(message string) *Error {
	return newError(ErrValidation, http.StatusBadRequest, message)
}

func Unauthorized(message string) *Error {
	return newError(ErrUnauthorized, http.StatusUnauthorized, message)
}

func Forbidden(message string) *Error {
	return newError(ErrForbidden, http.StatusForbidden, message)
}

func NotFound(message string) *Error {
	return newError(ErrNotFound, http.StatusNotFound, message)
}

func Conflict(message string) *Error {
	return newError(ErrConflict, http.StatusConflict, message)
}

func BusinessRule(message string) *Error {
	return newError(ErrBusinessRule, http.StatusBadRequest, message)
}

func Persistence(message string) *Error {
	return newError(ErrPersistence, http.StatusInternalServerError, message)
}

// Status extracts the HTTP status for err, defaulting to 500 for anything
// that is not a typed *Error.
func Status(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// Is reports whether err belongs to the given kind.
func Is(err, kind error) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return errors.Is(appErr.Kind, kind)
	}
	return errors.Is(err, kind)
}
