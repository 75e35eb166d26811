// Package apperr implements the gateway's error taxonomy: a small set of
// constructors, each fixed to the HTTP status the pipeline maps it to, so
// handlers return a single error type instead of calling c.JSON directly.
package apperr

import (
	"fmt"
	"net/http"
)

// Code is a machine-readable error classification, echoed to clients and
// used as a Prometheus label value.
type Code string

const (
	CodeConfiguration Code = "CONFIGURATION_ERROR"
	CodeInternal      Code = "INTERNAL_ERROR"
	CodeAuthMissing   Code = "AUTH_HEADER_MISSING"
	CodeAuthInvalid   Code = "AUTH_INVALID_KEY"
	CodeRateLimited   Code = "RATE_LIMITED"
	CodeValidation    Code = "VALIDATION_FAILED"
	CodeNotFound      Code = "NOT_FOUND"
)

// Error is the gateway's structured error. The HTTP status is decided at
// construction time by the taxonomy-specific constructor, not derived later,
// so there is exactly one place (the constructors below) that knows the
// mapping from kind to status.
type Error struct {
	Status  int
	Code    Code
	Message string
	Details map[string]any
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// WithDetail attaches a field detail (used by validation errors to report
// the offending JSON field path and reason).
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// Configuration marks a startup-fatal misconfiguration. Never surfaced over
// HTTP; the process exits before serving.
func Configuration(format string, args ...any) *Error {
	return &Error{Status: 0, Code: CodeConfiguration, Message: fmt.Sprintf(format, args...)}
}

// Transport wraps a line-protocol client failure (C5). Always maps to 500;
// the cause is logged but never returned to the caller.
func Transport(cause error) *Error {
	return &Error{Status: http.StatusInternalServerError, Code: CodeInternal, Message: "An internal error occurred", Cause: cause}
}

// Business wraps an engine envelope with success=false, preserving the
// engine's own code and message. status is chosen by the caller per route
// (400 for place_order, 404 for get/cancel, 500 otherwise).
func Business(status int, engineCode, engineMessage string) *Error {
	return &Error{Status: status, Code: Code(engineCode), Message: engineMessage}
}

// AuthMissing is the 422 raised when the API key header is absent.
func AuthMissing(header string) *Error {
	return (&Error{Status: http.StatusUnprocessableEntity, Code: CodeAuthMissing, Message: "missing required header"}).
		WithDetail("field", header)
}

// AuthInvalid is the 401 raised when the API key header holds an unknown
// key. No body detail beyond the code, by spec.
func AuthInvalid() *Error {
	return &Error{Status: http.StatusUnauthorized, Code: CodeAuthInvalid, Message: "invalid API key"}
}

// RateLimit is the 429 raised by the sliding-window limiter.
func RateLimit(retryAfterSeconds int) *Error {
	return (&Error{Status: http.StatusTooManyRequests, Code: CodeRateLimited, Message: "rate limit exceeded"}).
		WithDetail("retry_after_seconds", retryAfterSeconds)
}

// Validation is the 422 raised by request body validation.
func Validation(field, reason string) *Error {
	return (&Error{Status: http.StatusUnprocessableEntity, Code: CodeValidation, Message: reason}).
		WithDetail("field", field)
}

// NotFound is the 404 used when an order id is unknown to the engine.
func NotFound(message string) *Error {
	return &Error{Status: http.StatusNotFound, Code: CodeNotFound, Message: message}
}

// Unhandled wraps a recovered panic. Always 500/INTERNAL_ERROR; the stack
// trace is logged separately by the recovery middleware.
func Unhandled(cause error) *Error {
	return &Error{Status: http.StatusInternalServerError, Code: CodeInternal, Message: "An internal error occurred", Cause: cause}
}
