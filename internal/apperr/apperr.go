// Package apperr defines the application error taxonomy shared by the
// services, the HTTP handlers, and the client cache.
package apperr

import (
	"errors"
	"net/http"
)

// Error codes. Handlers map these to HTTP statuses; the client cache maps
// HTTP statuses back to them.
const (
	CodeValidation = "validation"
	CodeConflict   = "conflict"
	CodeForbidden  = "forbidden"
	CodeNotFound   = "not_found"
	CodeTransient  = "transient"
)

// Error is a classified application error. Message is safe to show to the
// initiating user; Err carries the underlying cause, if any.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Code + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Validation reports bad input the caller can correct.
func Validation(msg string) *Error { return &Error{Code: CodeValidation, Message: msg} }

// Conflict reports a state collision, such as a duplicate pending request.
func Conflict(msg string) *Error { return &Error{Code: CodeConflict, Message: msg} }

// Forbidden reports an authorization failure.
func Forbidden(msg string) *Error { return &Error{Code: CodeForbidden, Message: msg} }

// NotFound reports a missing record.
func NotFound(msg string) *Error { return &Error{Code: CodeNotFound, Message: msg} }

// Transient reports a network or server failure during an otherwise valid
// operation. The action may be retried.
func Transient(msg string, err error) *Error {
	return &Error{Code: CodeTransient, Message: msg, Err: err}
}

// Is reports whether err is an application error with the given code.
func Is(err error, code string) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// HTTPStatus returns the HTTP status an error should be reported with.
func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeConflict:
		return http.StatusConflict
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// FromHTTPStatus classifies a response status from the API.
func FromHTTPStatus(status int, msg string) *Error {
	switch status {
	case http.StatusBadRequest:
		return Validation(msg)
	case http.StatusConflict:
		return Conflict(msg)
	case http.StatusUnauthorized, http.StatusForbidden:
		return Forbidden(msg)
	case http.StatusNotFound:
		return NotFound(msg)
	default:
		return Transient(msg, nil)
	}
}
