// Package weberr defines the request failure taxonomy and maps each kind to
// an HTTP status. Services return these values; the Errors middleware is the
// only place they are rendered.
package weberr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindUnauthorized
	KindConflict
	KindValidation
	KindBadRequest
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindConflict:
		return "conflict"
	case KindValidation:
		return "validation_failed"
	case KindBadRequest:
		return "bad_request"
	}
	return "internal"
}

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindConflict, KindValidation, KindBadRequest:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Error is a tagged request failure. Message is safe to show to clients;
// Err carries the underlying cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func newError(k Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, args...), Err: err}
}

func NotFound(format string, args ...interface{}) *Error {
	return newError(KindNotFound, nil, format, args...)
}

func Unauthorized(format string, args ...interface{}) *Error {
	return newError(KindUnauthorized, nil, format, args...)
}

func Conflict(format string, args ...interface{}) *Error {
	return newError(KindConflict, nil, format, args...)
}

func Validation(format string, args ...interface{}) *Error {
	return newError(KindValidation, nil, format, args...)
}

func BadRequest(format string, args ...interface{}) *Error {
	return newError(KindBadRequest, nil, format, args...)
}

// Internal wraps an unexpected cause behind a client-safe message.
func Internal(err error, format string, args ...interface{}) *Error {
	return newError(KindInternal, err, format, args...)
}

// As extracts a *Error from the chain.
func As(err error) (*Error, bool) {
	var we *Error
	if errors.As(err, &we) {
		return we, true
	}
	return nil, false
}

// Is reports whether err carries the given kind.
func Is(err error, k Kind) bool {
	we, ok := As(err)
	return ok && we.Kind == k
}

// Response returns the status and client message for err. Errors outside
// the taxonomy become a generic 500.
func Response(err error) (status int, message string) {
	if we, ok := As(err); ok {
		return we.Kind.Status(), we.Message
	}
	return http.StatusInternalServerError, "Server Error"
}
