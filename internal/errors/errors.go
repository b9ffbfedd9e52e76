// Package errors defines the domain error vocabulary shared by the group,
// list and item managers.
//
// Every domain error carries a Kind (how the caller should treat it), a
// stable machine-readable Code (what happened) and a human message.
// Callers branch on Code with errors.Is against the catalogue values, or
// on Kind after errors.As:
//
//	if errors.Is(err, errors.ErrGroupLastOwner) { ... }
//
//	var domainErr *errors.Error
//	if errors.As(err, &domainErr) && domainErr.Kind == errors.KindForbidden { ... }
//
// Store failures are not domain errors. They reach the caller wrapped with
// fmt.Errorf and are reported as internal failures by the transport.
package errors

import (
	"errors"
	"fmt"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
	New    = errors.New
)

// Kind classifies a domain error for the transport layer.
type Kind string

const (
	KindBadRequest   Kind = "BAD_REQUEST"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindForbidden    Kind = "FORBIDDEN"
	KindNotFound     Kind = "NOT_FOUND"
	KindConflict     Kind = "CONFLICT"
	KindInternal     Kind = "INTERNAL"
)

// Error is a domain error with a kind, code, message and optional details.
type Error struct {
	Kind    Kind   `json:"kind"`
	Code    string `json:"code"`
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

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// WithDetails returns a copy of the error carrying details.
func (e *Error) WithDetails(details any) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: e.Message, Details: details, cause: e.cause}
}

// WithCause returns a copy of the error wrapping err.
func (e *Error) WithCause(err error) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: e.Message, Details: e.Details, cause: err}
}

// KindOf returns the Kind of err, or KindInternal when err is not a
// domain error.
func KindOf(err error) Kind {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return KindInternal
}

// CodeOf returns the Code of err, or "" when err is not a domain error.
func CodeOf(err error) string {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}

func newError(kind Kind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

// BadRequest creates a bad request error.
func BadRequest(code, msg string) *Error { return newError(KindBadRequest, code, msg) }

// Unauthorized creates an unauthorized error.
func Unauthorized(code, msg string) *Error { return newError(KindUnauthorized, code, msg) }

// Forbidden creates a forbidden error.
func Forbidden(code, msg string) *Error { return newError(KindForbidden, code, msg) }

// NotFound creates a not found error.
func NotFound(code, msg string) *Error { return newError(KindNotFound, code, msg) }

// Conflict creates a conflict error.
func Conflict(code, msg string) *Error { return newError(KindConflict, code, msg) }

// Internalf creates an internal error with formatted message.
func Internalf(code, format string, args ...any) *Error {
	return newError(KindInternal, code, fmt.Sprintf(format, args...))
}
