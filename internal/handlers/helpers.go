package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/gitkamaal/devtracker/internal/common"
)

// RequireMethod validates that the HTTP request uses the specified method.
// Returns true if the method matches, false otherwise (and writes error response).
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// WriteJSON writes a JSON response with the specified status code and data.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes a standard error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// WriteErrorDetails writes an error JSON response carrying upstream details.
func WriteErrorDetails(w http.ResponseWriter, statusCode int, message string, details interface{}) error {
	return WriteJSON(w, statusCode, map[string]interface{}{
		"error":   message,
		"details": details,
	})
}

// WriteServiceError maps the shared error taxonomy onto HTTP responses.
// Human-readable messages only; stack traces never reach the client.
func WriteServiceError(w http.ResponseWriter, logger arbor.ILogger, err error) {
	var validationErr *common.ValidationError
	var upstreamErr *common.UpstreamError
	var networkErr *common.NetworkError
	var configErr *common.ConfigError

	switch {
	case errors.As(err, &validationErr):
		WriteError(w, http.StatusBadRequest, validationErr.Error())

	case errors.Is(err, common.ErrSessionInvalid):
		WriteError(w, http.StatusUnauthorized, "Credentials are no longer valid. Please reconnect the provider.")

	case errors.As(err, &upstreamErr):
		if upstreamErr.IsAuth() {
			WriteErrorDetails(w, upstreamErr.StatusCode, "Provider rejected the credentials. Please re-enter them.", upstreamErr.Body)
			return
		}
		WriteErrorDetails(w, upstreamErr.StatusCode, upstreamErr.Error(), upstreamErr.Body)

	case errors.As(err, &networkErr):
		WriteError(w, http.StatusBadGateway, networkErr.Error())

	case errors.As(err, &configErr):
		WriteError(w, http.StatusInternalServerError, configErr.Error())

	default:
		logger.Error().Err(err).Msg("Unhandled service error")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}
