package hms

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error types for common failure scenarios.
var (
	// ErrNotAuthenticated indicates an operation needs a signed-in session.
	ErrNotAuthenticated = errors.New("not authenticated: no access token")

	// ErrInvalidRole indicates a role string outside the fixed enumeration.
	ErrInvalidRole = errors.New("invalid role")
)

// HTTPError represents a non-2xx response from the backend.
type HTTPError struct {
	StatusCode int
	Body       string
	// Message is the envelope message when the body carried one.
	Message string
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
	}
	if e.Body != "" {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// IsRetryable returns true for server errors and 429.
func (e *HTTPError) IsRetryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

func newHTTPError(status int, body []byte) *HTTPError {
	e := &HTTPError{StatusCode: status, Body: string(body)}
	var env struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &env) == nil {
		e.Message = env.Message
	}
	return e
}

// EnvelopeError is returned in strict mode when a 2xx response carries
// `success: false`.
type EnvelopeError struct {
	Message string
}

func (e *EnvelopeError) Error() string {
	if e.Message == "" {
		return "request unsuccessful"
	}
	return "request unsuccessful: " + e.Message
}

// Error wraps a failed API operation with the operation name.
type Error struct {
	// Op is the operation that failed, e.g. "GET /patients".
	Op string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// WrapError wraps an error with operation context.
func WrapError(op string, err error) *Error {
	return &Error{Op: op, Err: err}
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}

// IsUnauthorized reports whether err is a 401/403 from the backend or a
// missing session.
func IsUnauthorized(err error) bool {
	if errors.Is(err, ErrNotAuthenticated) {
		return true
	}
	code := StatusCode(err)
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsRetryable returns true if the error is likely transient.
// Transport errors without an HTTP status are treated as retryable.
func IsRetryable(err error) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.IsRetryable()
	}
	var envErr *EnvelopeError
	if errors.As(err, &envErr) {
		return false
	}
	return err != nil
}

// Message returns the most operator-friendly text for err.
func Message(err error) string {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.Message != "" {
		return httpErr.Message
	}
	var envErr *EnvelopeError
	if errors.As(err, &envErr) {
		return envErr.Error()
	}
	return err.Error()
}
