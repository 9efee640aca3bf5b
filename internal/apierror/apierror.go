// Package apierror defines the typed error taxonomy of the sale engine and the
// standardized error envelope returned to clients. All errors surfaced by the
// API go through this package so that internal details (stack traces, SQL
// errors) never leak to the frontend.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a domain error for HTTP mapping and caller branching.
type Kind int

const (
	KindValidation        Kind = iota // bad input: empty cart, invalid payment method, missing phone
	KindNotFound                      // unresolvable product or customer reference
	KindInsufficientStock             // requested exceeds available, at pre-check or guarded decrement
	KindConflict                      // duplicate unique key: item code, receipt number
	KindPersistence                   // unexpected store failure during commit
)

// Error is a typed domain error. Services return it; handlers map it to an
// HTTP status via Status and render the Detail envelope.
type Error struct {
	Kind Kind
	Msg  string
	Err  error // wrapped cause, optional
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func InsufficientStock(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInsufficientStock, Msg: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

// Persistence wraps an unexpected store error. The caller-facing message stays
// generic; the cause is preserved for logging.
func Persistence(err error) *Error {
	return &Error{Kind: KindPersistence, Msg: "unexpected storage error", Err: err}
}

// KindOf extracts the Kind from an error chain. Unrecognized errors are
// treated as persistence failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindPersistence
}

// Status maps an error chain to the HTTP status the handler should write.
func Status(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindInsufficientStock, KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors from request binding.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Validation error", Fields: fields}
}
