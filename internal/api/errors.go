package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrorKind classifies a failed API call.
type ErrorKind string

const (
	// ErrorKindNetwork covers transport-level failures before any response.
	ErrorKindNetwork ErrorKind = "network_error"
	// ErrorKindTimeout means the 30s client budget was exceeded.
	ErrorKindTimeout ErrorKind = "timeout_error"
	// ErrorKindHTTP is a non-2xx response with a structured body.
	ErrorKindHTTP ErrorKind = "http_error"
	// ErrorKindValidation is client-side input rejection before any request.
	ErrorKindValidation ErrorKind = "validation_error"
)

// Error is the single error type surfaced by the client. Message is shown to
// the user verbatim.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewValidationError reports input rejected before any request was sent.
func NewValidationError(message string) *Error {
	return &Error{Kind: ErrorKindValidation, Message: message}
}

// IsAuthError reports whether err is a 401 from the server.
func IsAuthError(err error) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind == ErrorKindHTTP && apiErr.Status == http.StatusUnauthorized
	}
	return false
}

// IsTimeout reports whether err is the client-enforced timeout.
func IsTimeout(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == ErrorKindTimeout
}

// wrapTransportError converts a failed round trip into a timeout or network
// error. Timeouts get a dedicated message instead of the raw net error.
func wrapTransportError(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: ErrorKindTimeout, Message: "Request timeout"}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: ErrorKindTimeout, Message: "Request timeout"}
	}
	return &Error{Kind: ErrorKindNetwork, Message: err.Error()}
}
