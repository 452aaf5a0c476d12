// Package apperr defines the error taxonomy shared by the HTTP layer, the
// services and the repositories.
//
// Every error that should reach a client as something other than a bare 500
// is an *Error carrying a Kind. Kinds map to HTTP status codes; wrapping with
// fmt.Errorf("...: %w", err) keeps the classification intact.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error.
type Kind int

const (
	// Internal is anything unclassified.
	Internal Kind = iota
	// MissingToken means no Authorization header was sent.
	MissingToken
	// Unauthorized means credentials were sent but could not be verified.
	Unauthorized
	// Validation means the request body failed validation.
	Validation
	// NotFound means the addressed record does not exist.
	NotFound
	// Conflict means a uniqueness constraint was violated.
	Conflict
	// Store means the document store failed unexpectedly.
	Store
)

var kindNames = map[Kind]string{
	Internal:     "internal",
	MissingToken: "missing_token",
	Unauthorized: "unauthorized",
	Validation:   "validation",
	NotFound:     "not_found",
	Conflict:     "conflict",
	Store:        "store",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is a classified application error. Message is safe to show clients.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// StatusCode returns the HTTP status for the error's kind.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case MissingToken, Unauthorized:
		return http.StatusUnauthorized
	case Validation:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// New creates an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an Error of the given kind around an underlying cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// ErrMissingToken and ErrUnauthorized are returned by the auth gate.
var (
	ErrMissingToken = New(MissingToken, "Token is missing")
	ErrUnauthorized = New(Unauthorized, "Unauthorized")
)

// NewValidation reports a rejected request body.
func NewValidation(message string) *Error { return New(Validation, message) }

// NewNotFound reports a missing record.
func NewNotFound(message string) *Error { return New(NotFound, message) }

// NewConflict reports a uniqueness violation.
func NewConflict(message string, err error) *Error { return Wrap(Conflict, message, err) }

// NewStore wraps a store failure. The raw driver message is what clients see.
func NewStore(err error) *Error {
	return Wrap(Store, err.Error(), err)
}

// As extracts the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	appErr, ok := As(err)
	return ok && appErr.Kind == kind
}

// KindOf returns the kind of err, or Internal when it is unclassified.
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return Internal
}
