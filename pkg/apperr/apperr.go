// Package apperr is the application error taxonomy shared by services and
// the HTTP layer.
//
// Services return *Error values built with the constructors below; the
// response package maps them to status codes:
//
//	if errors.Is(err, apperr.ErrNotFound) { ... }
//	response.Err(w, r, err) // → 404 {"success":false,"message":"Product not found"}
package apperr

import (
	"errors"
	"net/http"
)

// Error kinds. Match with errors.Is.
var (
	ErrValidation = errors.New("validation error")
	ErrAuth       = errors.New("authentication failed")
	ErrForbidden  = errors.New("forbidden")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrInternal   = errors.New("internal error")
)

// Error carries a kind, a client-safe message and an optional cause.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func newError(kind error, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}

func Validation(msg string) *Error { return newError(ErrValidation, msg, nil) }

func Unauthorized(msg string) *Error { return newError(ErrAuth, msg, nil) }

func Forbidden(msg string) *Error { return newError(ErrForbidden, msg, nil) }

func NotFound(msg string) *Error { return newError(ErrNotFound, msg, nil) }

func Conflict(msg string) *Error { return newError(ErrConflict, msg, nil) }

// Internal wraps a store or infrastructure failure. msg is what the client
// sees; cause is only logged.
func Internal(msg string, cause error) *Error { return newError(ErrInternal, msg, cause) }

// Status maps err to an HTTP status code. Unknown errors are 500.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-safe message for err. Errors that are not
// *Error never leak their text.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return "An error occurred"
}
