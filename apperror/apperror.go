// Package apperror defines the error taxonomy shared by the service, the HTTP layer and the client.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure. Every kind maps to exactly one HTTP status.
type Kind int

const (
	Internal Kind = iota
	Unauthorized
	MissingFields
	Conflict
	Forbidden
	NotFound
	Invalid
)

func (k Kind) String() string {
	switch k {
	case Unauthorized:
		return "UNAUTHORIZED"
	case MissingFields:
		return "MISSING_FIELDS"
	case Conflict:
		return "CONFLICT"
	case Forbidden:
		return "FORBIDDEN"
	case NotFound:
		return "NOT_FOUND"
	case Invalid:
		return "INVALID"
	default:
		return "INTERNAL"
	}
}

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case Unauthorized:
		return http.StatusUnauthorized
	case MissingFields, Invalid:
		return http.StatusBadRequest
	case Conflict:
		return http.StatusConflict
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// FromStatus is the inverse of Kind.Status. A 400 without a code reads as MissingFields.
func FromStatus(status int, code string) Kind {
	switch status {
	case http.StatusUnauthorized:
		return Unauthorized
	case http.StatusBadRequest:
		if code == Invalid.String() {
			return Invalid
		}
		return MissingFields
	case http.StatusConflict:
		return Conflict
	case http.StatusForbidden:
		return Forbidden
	case http.StatusNotFound:
		return NotFound
	default:
		return Internal
	}
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of err, or Internal when err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the human readable part of err. Internal details are not exposed.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != Internal {
		return e.Message
	}
	return "internal server error"
}
