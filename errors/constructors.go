package errors

import (
	"fmt"
	"net/http"
)

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *Error {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *Error {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// RequestFailed creates a transport error for a request that never completed.
func RequestFailed(method, path string, err error) *Error {
	return Wrap(err, ErrCodeNetwork, fmt.Sprintf("request failed: %s %s", method, path)).
		WithDetail("method", method).
		WithDetail("path", path)
}

// HTTPStatus creates an error for a non-2xx response. A server-supplied
// message takes precedence over the generic status text.
func HTTPStatus(status int, message string) *Error {
	code := ErrCodeHTTPStatus
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		code = ErrCodeUnauthorized
	case http.StatusNotFound:
		code = ErrCodeNotFound
	}
	if message == "" {
		return New(code, fmt.Sprintf("server returned %d %s", status, http.StatusText(status))).
			WithDetail("status", status)
	}
	return New(code, message).
		WithDetail("status", status).
		WithDetail(DetailServerMessage, message)
}

// APIFailure creates an error for a well-formed response with success=false.
func APIFailure(message string) *Error {
	if message == "" {
		return New(ErrCodeAPIFailure, "request was not successful")
	}
	return New(ErrCodeAPIFailure, message).WithDetail(DetailServerMessage, message)
}

// DecodeFailed creates an error for a response body that could not be parsed.
func DecodeFailed(path string, err error) *Error {
	return Wrap(err, ErrCodeDecode, "failed to decode response").
		WithDetail("path", path)
}

// ValidationFailed creates a client-side validation error for a field.
func ValidationFailed(field, reason string) *Error {
	return New(ErrCodeValidation, fmt.Sprintf("%s %s", field, reason)).
		WithDetail("field", field)
}

// StaleResponse reports a response superseded by a newer request for the same resource.
func StaleResponse(resource string) *Error {
	return New(ErrCodeStaleResponse, fmt.Sprintf("response for %s superseded by a newer request", resource)).
		WithDetail("resource", resource)
}

// NoCurrent reports an action that needs a current rate card when none is loaded.
func NoCurrent(id string) *Error {
	return New(ErrCodeNoCurrent, fmt.Sprintf("rate card %s is not the current rate card", id)).
		WithDetail("id", id)
}
