// Package apperr defines the error kinds shared by services and handlers
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an error for the HTTP layer
type Kind int

const (
	// KindInternal is any store or server failure not covered by another kind
	KindInternal Kind = iota
	// KindInvalid is a client input error (bad id, wrong content type, bad limit)
	KindInvalid
	// KindNotFound means a well-formed id matched no document
	KindNotFound
	// KindTimeout means a store operation exceeded its deadline
	KindTimeout
)

// String returns a short name of the kind
func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindNotFound:
		return "not_found"
	case KindTimeout:
		return "timeout"
	default:
		return "internal"
	}
}

// Error is an error carrying a Kind and a user-visible message
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Invalid creates a client input error
func Invalid(message string) error {
	return &Error{Kind: KindInvalid, Message: message}
}

// NotFound creates a not-found error
func NotFound(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Timeout creates a deadline error wrapping the store failure
func Timeout(message string, err error) error {
	return &Error{Kind: KindTimeout, Message: message, Err: err}
}

// Internal creates a server error wrapping the store failure
func Internal(message string, err error) error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf returns the kind of the first *Error in the chain.
// Errors without one are internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Message returns the user-visible message of the first *Error in the chain, or fallback
func Message(err error, fallback string) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}

// HTTPStatus maps the error kind to a response status code
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindInvalid:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
