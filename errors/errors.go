package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Caller-fixable input problems. Every specific validation sentinel wraps
// ErrValidation so handlers can match the whole family with errors.Is.
var (
	ErrValidation    = fmt.Errorf("invalid request")
	ErrSelfRoom      = fmt.Errorf("%w: cannot open a room with yourself", ErrValidation)
	ErrEmptyBody     = fmt.Errorf("%w: message body is empty", ErrValidation)
	ErrBodyTooLong   = fmt.Errorf("%w: message body exceeds the maximum length", ErrValidation)
	ErrBadRoomKey    = fmt.Errorf("%w: malformed room key", ErrValidation)
	ErrQueryTooShort = fmt.Errorf("%w: search term is too short", ErrValidation)
)

var (
	ErrForbidden = fmt.Errorf("no access to this room")
	ErrNotFound  = fmt.Errorf("not found")
)

var (
	ErrUnauthenticated    = fmt.Errorf("authentication required")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrInvalidPassword    = fmt.Errorf("%w: password does not meet complexity rules", ErrValidation)
	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
)

var ErrWorkerPanic = fmt.Errorf("worker panic")

// HTTPStatus maps a domain error to the status code exposed at the HTTP
// boundary. Unknown errors are treated as internal so that storage failures
// never masquerade as client mistakes.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUserAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
