// Package errors defines the typed error taxonomy shared by services and
// the HTTP layer. Services classify failures with a Code; the responses
// package maps the code to a status and public message.
package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden    Code = "FORBIDDEN"
	CodeNotFound     Code = "NOT_FOUND"
	CodeConflict     Code = "CONFLICT"
	CodeRateLimit    Code = "RATE_LIMIT_EXCEEDED"
	CodeInternal     Code = "INTERNAL_ERROR"
	CodeDependency   Code = "DEPENDENCY_ERROR"
)

// Metadata describes how a code renders on the wire.
type Metadata struct {
	HTTPStatus     int
	Retryable      bool
	PublicMessage  string
	DetailsAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation:   {HTTPStatus: http.StatusBadRequest, PublicMessage: "Bad Request", DetailsAllowed: true},
	CodeUnauthorized: {HTTPStatus: http.StatusUnauthorized, PublicMessage: "Unauthorized"},
	CodeForbidden:    {HTTPStatus: http.StatusForbidden, PublicMessage: "Forbidden"},
	CodeNotFound:     {HTTPStatus: http.StatusNotFound, PublicMessage: "Not Found"},
	// Uniqueness violations render as 400 with a resource-specific message,
	// the wire contract predates a 409-style conflict status.
	CodeConflict: {HTTPStatus: http.StatusBadRequest, PublicMessage: "Bad Request"},
	CodeRateLimit:    {HTTPStatus: http.StatusTooManyRequests, PublicMessage: "Too Many Requests"},
	CodeInternal:     {HTTPStatus: http.StatusInternalServerError, PublicMessage: "Internal Server Error", Retryable: true},
	CodeDependency:   {HTTPStatus: http.StatusServiceUnavailable, PublicMessage: "Service Unavailable", Retryable: true},
}

// MetadataFor returns the wire mapping for code, falling back to the
// internal-error mapping for unknown codes.
func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

// Error carries a code, an internal message, and an optional cause.
// The internal message is for logs; clients only ever see the code's
// public message or an explicitly attached detail payload.
type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

// WithDetails attaches a payload rendered to the client when the code's
// metadata allows details.
func (e *Error) WithDetails(details any) *Error {
	if e != nil {
		e.details = details
	}
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// As extracts the typed error from anywhere in err's chain, or nil.
func As(err error) *Error {
	var typed *Error
	if err != nil && stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}
