package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a failed API call so callers can decide whether to
// retry, back off, or abort. The client itself never retries.
type ErrorKind string

const (
	// ErrTransport covers DNS failures, refused connections, timeouts and
	// cancelled contexts. Always safe to retry, subject to caller policy.
	ErrTransport ErrorKind = "transport"
	// ErrUnauthorized is HTTP 401/403. Not retryable without new credentials.
	ErrUnauthorized ErrorKind = "unauthorized"
	// ErrNotFound is HTTP 404, e.g. operating on a connector that does not
	// exist. Not retryable.
	ErrNotFound ErrorKind = "not_found"
	// ErrConflict is HTTP 409: the Connect cluster is mid-rebalance and
	// cannot currently service the request. Safe to retry after a delay.
	ErrConflict ErrorKind = "conflict"
	// ErrInvalidRequest is HTTP 400/422 (and any other unrecognized 4xx),
	// e.g. an invalid connector config. Carries the server message verbatim.
	ErrInvalidRequest ErrorKind = "invalid_request"
	// ErrServer is HTTP 5xx. Retryable at caller discretion.
	ErrServer ErrorKind = "server"
	// ErrMalformed is a 2xx response whose body does not decode into the
	// expected shape. Never retryable; indicates a protocol or version
	// mismatch between client and worker.
	ErrMalformed ErrorKind = "malformed"
)

// APIError is the error type returned by every Client operation. Exactly one
// Kind applies per failure.
type APIError struct {
	Kind       ErrorKind
	StatusCode int    // zero for transport and malformed errors
	Message    string // server-supplied message where present
	Err        error  // underlying transport or decode failure
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("kafka connect API error (%s, status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("kafka connect API error (%s): %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("kafka connect API error (%s): %s", e.Kind, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Retriable reports whether the failure class is safe to retry: transport
// failures, rebalance conflicts, and server errors. Retry policy itself is
// the caller's concern.
func (e *APIError) Retriable() bool {
	switch e.Kind {
	case ErrTransport, ErrConflict, ErrServer:
		return true
	}
	return false
}

// errorKind extracts the taxonomy kind from err, or "" if err is not an
// *APIError.
func errorKind(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

// IsNotFound checks if an error is a 404 Not Found error.
func IsNotFound(err error) bool {
	return errorKind(err) == ErrNotFound
}

// IsConflict checks if an error is a 409 rebalance conflict.
func IsConflict(err error) bool {
	return errorKind(err) == ErrConflict
}

// IsUnauthorized checks if an error is a 401/403 authentication failure.
func IsUnauthorized(err error) bool {
	return errorKind(err) == ErrUnauthorized
}

// IsMalformed checks if an error came from an undecodable success response.
func IsMalformed(err error) bool {
	return errorKind(err) == ErrMalformed
}

// apiMessage is the standard Kafka Connect REST error body.
type apiMessage struct {
	ErrorCode int    `json:"error_code"`
	Message   string `json:"message"`
}

// classifyResponse maps a non-2xx status code and its body into an APIError.
// Every known status code gets a concrete classification; unrecognized 4xx
// fall back to invalid_request rather than a generic error.
func classifyResponse(statusCode int, body []byte) *APIError {
	message := string(body)
	var m apiMessage
	if err := json.Unmarshal(body, &m); err == nil && m.Message != "" {
		message = m.Message
	}

	var kind ErrorKind
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		kind = ErrUnauthorized
	case statusCode == http.StatusNotFound:
		kind = ErrNotFound
	case statusCode == http.StatusConflict:
		kind = ErrConflict
	case statusCode >= 500:
		kind = ErrServer
	default:
		kind = ErrInvalidRequest
	}

	return &APIError{Kind: kind, StatusCode: statusCode, Message: message}
}
