package common

import (
	"errors"
	"net/http"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized access")
	ErrForbidden    = errors.New("forbidden access")
	ErrNotFound     = errors.New("requested resource not found")
	ErrConflict     = errors.New("resource conflict") // e.g. email already registered
)

// Error carries a message that is safe to show to the client next to the
// kind used for status mapping.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func NewError(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}

func Validation(message string) error { return NewError(ErrValidation, message) }

func Unauthorized(message string) error { return NewError(ErrUnauthorized, message) }

func Forbidden(message string) error { return NewError(ErrForbidden, message) }

func NotFound(message string) error { return NewError(ErrNotFound, message) }

func Conflict(message string) error { return NewError(ErrConflict, message) }

// HTTPStatusFromError maps error kinds to HTTP status codes. Unclassified
// errors get fallback.
func HTTPStatusFromError(err error, fallback int) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation), errors.Is(err, ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	}
	return fallback
}

// PublicMessage returns the client-facing message for err, or fallback when
// the error is not one of ours.
func PublicMessage(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	for _, kind := range []error{ErrValidation, ErrUnauthorized, ErrForbidden, ErrNotFound, ErrConflict} {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	return fallback
}

// IsClassified reports whether err belongs to the known taxonomy.
func IsClassified(err error) bool {
	return HTTPStatusFromError(err, 0) != 0
}
