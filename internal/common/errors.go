package common

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError reports missing or malformed caller input. Handlers map
// it to HTTP 400 with a field-level message.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// NewValidationError creates a ValidationError for a specific field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ConfigError reports missing provider configuration (client id or secret).
// Handlers map it to HTTP 500.
type ConfigError struct {
	Provider string
	Message  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

// UpstreamError carries a non-2xx provider response. The status code and
// body are relayed to the caller as-is.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("API error: %d", e.StatusCode)
}

// IsAuth reports whether the upstream rejected the credential itself
func (e *UpstreamError) IsAuth() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// NetworkError reports a transport-level failure reaching the upstream.
// Handlers map it to HTTP 502.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("failed to reach %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ErrSessionInvalid signals that a restored or newly acquired credential
// failed profile validation. The session slot holding it must be cleared.
var ErrSessionInvalid = errors.New("session invalid: credential failed profile validation")
