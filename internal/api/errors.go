package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the two failure buckets the client distinguishes.
var (
	// ErrTransport matches any failure where no HTTP response was received
	// (connection refused, DNS, timeout, cancelled context).
	ErrTransport = errors.New("lostfound: transport failure")
	// ErrRejected matches any non-2xx response from the server.
	ErrRejected = errors.New("lostfound: request rejected")
	// ErrDecode matches a 2xx response whose body could not be decoded.
	ErrDecode = errors.New("lostfound: malformed response")
)

// TransportError wraps a failure that happened before a response arrived.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

// Unwrap implements the errors.Unwrap interface for error chaining.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrTransport.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// Error represents a response the server refused with a non-2xx status.
type Error struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Message is the server's "error" field when present, otherwise the status text.
	// It is informational only.
	Message string
	// decode is set when the status was 2xx but the body was unusable.
	decode bool
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.decode {
		return fmt.Sprintf("malformed response (HTTP %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("request rejected (HTTP %d): %s", e.StatusCode, e.Message)
}

// Is implements errors.Is for the coarse buckets.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrRejected:
		return true
	case ErrDecode:
		return e.decode
	default:
		return false
	}
}

// IsUnauthorized returns true if the server refused the bearer token.
func (e *Error) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsNotFound returns true if the resource does not exist.
func (e *Error) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsConflict returns true if the resource already exists (e.g. duplicate email).
func (e *Error) IsConflict() bool {
	return e.StatusCode == http.StatusConflict
}

// parseError builds an *Error from a non-2xx response.
func parseError(statusCode int, body []byte) error {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return &Error{StatusCode: statusCode, Message: payload.Error}
	}

	return &Error{
		StatusCode: statusCode,
		Message:    http.StatusText(statusCode),
	}
}

// AsError checks if an error is a server rejection and returns it.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsUnauthorized reports whether err is a server rejection of the session token.
func IsUnauthorized(err error) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.IsUnauthorized()
}
