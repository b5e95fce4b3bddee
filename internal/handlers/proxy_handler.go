package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"

	"github.com/gitkamaal/devtracker/internal/common"
	"github.com/gitkamaal/devtracker/internal/httpclient"
	"github.com/gitkamaal/devtracker/internal/models"
)

// ProxyHandler forwards authenticated requests to third-party provider
// APIs. The browser cannot attach these credential headers itself, so
// this endpoint is the single point where outbound authorization is
// assembled. Stateless per call.
type ProxyHandler struct {
	client   *httpclient.Client
	validate *validator.Validate
	logger   arbor.ILogger
}

// NewProxyHandler creates a new proxy handler
func NewProxyHandler(client *httpclient.Client, logger arbor.ILogger) *ProxyHandler {
	return &ProxyHandler{
		client:   client,
		validate: validator.New(),
		logger:   logger,
	}
}

// Handle accepts a POST with the proxy request JSON body, attaches the
// derived authorization header and relays the upstream response.
func (h *ProxyHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req models.ProxyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validateRequest(&req); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	authHeader, err := httpclient.BuildAuthHeader(httpclient.AuthRequest{
		Token:         req.Token,
		Identifier:    req.Email,
		Secret:        req.APIToken,
		IsAppPassword: req.IsBitbucket,
		TargetURL:     req.URL,
	})
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var bodyReader io.Reader
	if req.Body != nil {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Request body is not encodable as JSON")
			return
		}
		bodyReader = bytes.NewReader(encoded)
	}

	outbound, err := http.NewRequestWithContext(r.Context(), method, req.URL, bodyReader)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid target URL")
		return
	}
	outbound.Header.Set("Authorization", authHeader)
	outbound.Header.Set("Content-Type", "application/json")
	outbound.Header.Set("Accept", "application/json")
	outbound.Header.Set("User-Agent", common.UserAgent())

	resp, err := h.client.Do(outbound)
	if err != nil {
		var networkErr *common.NetworkError
		if errors.As(err, &networkErr) {
			h.logger.Warn().Err(err).Str("url", req.URL).Msg("Upstream unreachable")
			WriteError(w, http.StatusBadGateway, networkErr.Error())
			return
		}
		h.logger.Error().Err(err).Str("url", req.URL).Msg("Proxy request failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		WriteError(w, http.StatusBadGateway, "Failed to read upstream response")
		return
	}

	// Text first, JSON if it parses. A malformed upstream body is never
	// fatal; the raw text is passed through unchanged.
	var payload interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		payload = string(raw)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		h.logger.Debug().
			Int("status", resp.StatusCode).
			Str("url", req.URL).
			Msg("Upstream returned error status")
		WriteErrorDetails(w, resp.StatusCode, (&common.UpstreamError{StatusCode: resp.StatusCode}).Error(), payload)
		return
	}

	WriteJSON(w, resp.StatusCode, payload)
}

// validateRequest enforces the field-level contract: url always, plus a
// bearer token or a full identifier/secret pair.
func (h *ProxyHandler) validateRequest(req *models.ProxyRequest) error {
	if req.URL == "" {
		return common.NewValidationError("url", "target url is required")
	}
	if req.Token == "" && (req.Email == "" || req.APIToken == "") {
		return common.NewValidationError("credentials", "either token or both email and apiToken are required")
	}
	if err := h.validate.Struct(req); err != nil {
		return common.NewValidationError("request", err.Error())
	}
	return nil
}
