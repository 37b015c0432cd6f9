package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Common API errors. APIError.Is maps status codes onto these, so callers can
// test with errors.Is while still seeing the server's own message.
var (
	// ErrUnauthorized is returned when the request lacks a valid session.
	ErrUnauthorized = errors.New("unauthorized — sign in with 'readctl login'")
	// ErrForbidden is returned when the session lacks entitlement.
	ErrForbidden = errors.New("forbidden — this may require an active subscription")
	// ErrNotFound is returned when a resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a resource already exists.
	ErrConflict = errors.New("conflict — resource already exists")
)

// APIError is the normalized server error. The service has shipped two error
// envelopes over time:
//
//	{"error": {"type": "...", "message": "...", "code": "...", "request_id": "..."}}
//	{"error": "plain message"}
//
// Both decode into this one shape.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
	Code       string
	RequestID  string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Code != "" {
		return fmt.Sprintf("%s (%s)", msg, e.Code)
	}
	return msg
}

// Is lets errors.Is match the sentinel for the underlying status code.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrConflict:
		return e.StatusCode == http.StatusConflict
	}
	return false
}

// errorEnvelope matches the newer structured envelope. The legacy string form
// is handled by decodeError directly.
type errorEnvelope struct {
	Error json.RawMessage `json:"error"`
}

type errorDetail struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	Code      string `json:"code"`
	RequestID string `json:"request_id"`
}

// decodeError builds an *APIError from a non-2xx response body.
func decodeError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}

	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && len(env.Error) > 0 {
		var detail errorDetail
		if err := json.Unmarshal(env.Error, &detail); err == nil && detail.Message != "" {
			apiErr.Type = detail.Type
			apiErr.Message = detail.Message
			apiErr.Code = detail.Code
			apiErr.RequestID = detail.RequestID
			return apiErr
		}
		var msg string
		if err := json.Unmarshal(env.Error, &msg); err == nil {
			apiErr.Message = msg
			return apiErr
		}
	}

	if msg := strings.TrimSpace(string(body)); msg != "" && len(msg) < 200 {
		apiErr.Message = msg
	}
	return apiErr
}

// checkStatus returns nil for 2xx responses and a normalized *APIError
// otherwise. It consumes the body on failure.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	return decodeError(resp.StatusCode, body)
}
