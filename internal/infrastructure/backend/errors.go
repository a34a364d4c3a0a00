package backend

import (
	"errors"
	"net/http"
)

// genericFailureMessage is shown when the backend supplies no message of
// its own.
const genericFailureMessage = "Something went wrong, please try again"

// ErrConfigMissingBaseURL indicates the client was built without a base URL
var ErrConfigMissingBaseURL = errors.New("backend: config missing base URL")

// APIError is the structured failure every caller receives. Message carries
// the backend-provided text when available, else a generic fallback; this is
// what feature screens surface to the user.
type APIError struct {
	StatusCode int // 0 when the request never reached the backend
	Message    string
	cause      error
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Unwrap exposes the transport-level cause, if any
func (e *APIError) Unwrap() error {
	return e.cause
}

// AuthFailure reports whether the backend rejected the credentials. The
// client never refreshes or retries; the session layer interprets this as
// "session expired" and clears stored tokens.
func (e *APIError) AuthFailure() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsAuthFailure reports whether err is an authentication rejection
func IsAuthFailure(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.AuthFailure()
}

// UserMessage extracts the user-facing message from any backend error,
// falling back to the generic message for non-API failures.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return genericFailureMessage
}
