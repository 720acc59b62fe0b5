package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrUnauthorized is returned (or wrapped) for every 401 from the backend.
// By the time a caller sees it the session has already been cleared.
var ErrUnauthorized = errors.New("unauthorized")

// ErrBadResponse wraps a 2xx body that could not be decoded.
var ErrBadResponse = errors.New("malformed backend response")

// APIError is a non-2xx response from the backend. Message is the backend's
// own user-facing text and is shown verbatim.
type APIError struct {
	StatusCode int               `json:"status"`
	Message    string            `json:"message"`
	ErrorCode  string            `json:"errorCode,omitempty"`
	Errors     map[string]string `json:"errors,omitempty"`
}

func (e *APIError) Error() string {
	if e.ErrorCode != "" {
		return fmt.Sprintf("backend %d (%s): %s", e.StatusCode, e.ErrorCode, e.Message)
	}
	return fmt.Sprintf("backend %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// IsUnauthorized reports whether err is (or wraps) a 401.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsTransient reports whether err is a transport failure, a timeout or a 5xx
// and so says nothing about the request itself.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500 || apiErr.StatusCode == http.StatusTooManyRequests
	}
	var transportErr *TransportError
	return errors.As(err, &transportErr)
}

// UserMessage returns the text to show a user for err: the backend's own
// message when there is one, otherwise fallback.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// TransportError wraps a failure to get any response from the backend.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Status maps err onto the HTTP status and message a portal endpoint should
// answer with. Errors that did not come from the backend are the caller's
// own validation failures and map to 400.
func Status(err error) (int, string) {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr.StatusCode, apiErr.Message
	case IsTransient(err):
		return http.StatusBadGateway, "backend unavailable, please try again"
	case errors.Is(err, ErrBadResponse):
		return http.StatusBadGateway, "unexpected response from backend"
	default:
		return http.StatusBadRequest, err.Error()
	}
}
