package upstream

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ClientError is a 4xx answer from an upstream service. It is never retried.
type ClientError struct {
	Upstream   string
	StatusCode int
	Message    string
}

func (e *ClientError) Error() string {
	return e.Message
}

// NotFound reports whether the upstream answered 404.
func (e *ClientError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// ServerError is a 5xx answer or a transport failure. It is transient.
type ServerError struct {
	Upstream string
	Message  string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("Server Exception in %s: %s", e.Upstream, e.Message)
}

// Classify maps an upstream status code and body to an error.
// It returns nil for anything below 400.
func Classify(upstream string, statusCode int, body []byte) error {
	if statusCode < http.StatusBadRequest {
		return nil
	}

	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = http.StatusText(statusCode)
	}

	if statusCode < http.StatusInternalServerError {
		return &ClientError{Upstream: upstream, StatusCode: statusCode, Message: msg}
	}
	return &ServerError{Upstream: upstream, Message: msg}
}

// TransportError wraps a failure that produced no usable response
// (dial error, timeout, unreadable or malformed body).
func TransportError(upstream string, err error) error {
	return &ServerError{Upstream: upstream, Message: err.Error()}
}

// IsNotFound reports whether err is a 404 ClientError.
func IsNotFound(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce) && ce.NotFound()
}

// IsClientError reports whether err is a ClientError.
func IsClientError(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce)
}

// IsServerError reports whether err is a ServerError.
func IsServerError(err error) bool {
	var se *ServerError
	return errors.As(err, &se)
}

// outcome is the metrics label for an attempt result.
func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case IsNotFound(err):
		return "not_found"
	case IsClientError(err):
		return "client_error"
	case IsServerError(err):
		return "server_error"
	default:
		return "canceled"
	}
}
