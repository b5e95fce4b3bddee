package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/gitkamaal/devtracker/internal/common"
	"github.com/gitkamaal/devtracker/internal/interfaces"
	"github.com/gitkamaal/devtracker/internal/models"
)

// SessionHandler exposes the session container over HTTP: connection
// status, direct credential entry (Jira email+token, Bitbucket app
// password), token refresh and disconnect.
type SessionHandler struct {
	session interfaces.SessionService
	logger  arbor.ILogger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(session interfaces.SessionService, logger arbor.ILogger) *SessionHandler {
	return &SessionHandler{
		session: session,
		logger:  logger,
	}
}

// StatusHandler returns per-provider connection state
func (h *SessionHandler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"providers": h.session.Status(r.Context()),
	})
}

type connectJiraRequest struct {
	Email    string `json:"email"`
	APIToken string `json:"apiToken"`
	Domain   string `json:"domain"`
}

// ConnectJiraHandler links a Jira site with email + API token credentials
func (h *SessionHandler) ConnectJiraHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req connectJiraRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.APIToken == "" || req.Domain == "" {
		WriteError(w, http.StatusBadRequest, "email, apiToken and domain are required")
		return
	}

	cred := &models.Credential{
		Provider:   models.ProviderJira,
		Kind:       models.CredentialBasic,
		Identifier: req.Email,
		Secret:     req.APIToken,
		SiteDomain: common.NormalizeDomain(req.Domain),
	}

	profile, err := h.session.Connect(r.Context(), cred)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "connected",
		"profile": profile,
	})
}

type connectBitbucketRequest struct {
	Username    string `json:"username"`
	AppPassword string `json:"appPassword"`
}

// ConnectBitbucketHandler links Bitbucket with an app password
func (h *SessionHandler) ConnectBitbucketHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req connectBitbucketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" || req.AppPassword == "" {
		WriteError(w, http.StatusBadRequest, "username and appPassword are required")
		return
	}

	cred := &models.Credential{
		Provider:   models.ProviderBitbucket,
		Kind:       models.CredentialAppPassword,
		Identifier: models.AppPasswordIdentifier,
		Secret:     req.AppPassword,
		Username:   req.Username,
	}

	profile, err := h.session.Connect(r.Context(), cred)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "connected",
		"profile": profile,
	})
}

// RefreshHandler runs the refresh-token exchange for the Atlassian slot.
// A failed refresh clears the session rather than leaving a stale
// credential marked authenticated.
func (h *SessionHandler) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	if _, err := h.session.Refresh(r.Context(), models.ProviderAtlassian); err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"status": "refreshed",
	})
}

// DisconnectHandler clears one provider slot: DELETE /api/session/{provider}
func (h *SessionHandler) DisconnectHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "DELETE") {
		return
	}

	provider := models.Provider(strings.TrimPrefix(r.URL.Path, "/api/session/"))
	if !validProvider(provider) {
		WriteError(w, http.StatusNotFound, "Unknown provider")
		return
	}

	if err := h.session.Disconnect(r.Context(), provider); err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"status": "disconnected",
	})
}

func validProvider(p models.Provider) bool {
	for _, known := range models.AllProviders {
		if p == known {
			return true
		}
	}
	return false
}
