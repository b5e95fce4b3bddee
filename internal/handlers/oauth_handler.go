package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/ternarybob/arbor"

	"github.com/gitkamaal/devtracker/internal/common"
	"github.com/gitkamaal/devtracker/internal/interfaces"
	"github.com/gitkamaal/devtracker/internal/models"
	"github.com/gitkamaal/devtracker/internal/services/oauth"
)

const (
	// connectionsView is the front-end route the browser lands on after
	// any auth outcome; errors are carried as a query parameter
	connectionsView = "/connections"
	completeView    = "/auth/complete"

	stateCookieName = "devtracker_oauth_state"
)

// OAuthHandler drives the authorization-code flows for GitHub and
// Atlassian and the completion step that moves tokens into the session.
type OAuthHandler struct {
	oauth   *oauth.Service
	session interfaces.SessionService
	logger  arbor.ILogger
}

// NewOAuthHandler creates a new OAuth handler
func NewOAuthHandler(oauthService *oauth.Service, session interfaces.SessionService, logger arbor.ILogger) *OAuthHandler {
	return &OAuthHandler{
		oauth:   oauthService,
		session: session,
		logger:  logger,
	}
}

// GitHubLoginHandler redirects the browser to the GitHub authorization page
func (h *OAuthHandler) GitHubLoginHandler(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, models.ProviderGitHub)
}

// AtlassianLoginHandler redirects the browser to the Atlassian authorization page
func (h *OAuthHandler) AtlassianLoginHandler(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, models.ProviderAtlassian)
}

func (h *OAuthHandler) login(w http.ResponseWriter, r *http.Request, provider models.Provider) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	state := h.oauth.NewState()
	authorizeURL, err := h.oauth.AuthorizeURL(provider, state)
	if err != nil {
		var configErr *common.ConfigError
		if errors.As(err, &configErr) {
			h.logger.Error().Str("provider", string(provider)).Msg("OAuth login requested but provider is not configured")
			WriteError(w, http.StatusInternalServerError, configErr.Error())
			return
		}
		WriteError(w, http.StatusInternalServerError, "Failed to build authorization URL")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   600,
	})

	http.Redirect(w, r, authorizeURL, http.StatusFound)
}

// GitHubCallbackHandler handles the provider redirect for GitHub
func (h *OAuthHandler) GitHubCallbackHandler(w http.ResponseWriter, r *http.Request) {
	h.callback(w, r, models.ProviderGitHub)
}

// AtlassianCallbackHandler handles the provider redirect for Atlassian
func (h *OAuthHandler) AtlassianCallbackHandler(w http.ResponseWriter, r *http.Request) {
	h.callback(w, r, models.ProviderAtlassian)
}

// callback exchanges the authorization code server-side (the client
// secret never reaches the browser), then hands the tokens to the
// completion endpoint as query parameters.
func (h *OAuthHandler) callback(w http.ResponseWriter, r *http.Request, provider models.Provider) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	query := r.URL.Query()
	code := query.Get("code")
	if code == "" {
		h.logger.Warn().Str("provider", string(provider)).Msg("OAuth callback missing authorization code")
		h.redirectError(w, r, string(provider)+"_missing_code")
		return
	}

	if cookie, err := r.Cookie(stateCookieName); err != nil || cookie.Value == "" || cookie.Value != query.Get("state") {
		h.logger.Warn().Str("provider", string(provider)).Msg("OAuth callback state mismatch")
		h.redirectError(w, r, string(provider)+"_state_mismatch")
		return
	}

	cred, err := h.oauth.Exchange(r.Context(), provider, code)
	if err != nil {
		h.logger.Error().Err(err).Str("provider", string(provider)).Msg("Token exchange failed")
		h.redirectError(w, r, string(provider)+"_exchange_failed")
		return
	}

	params := url.Values{}
	params.Set("provider", string(provider))
	params.Set("access_token", cred.AccessToken)
	if cred.RefreshToken != "" {
		params.Set("refresh_token", cred.RefreshToken)
	}
	if cred.CloudID != "" {
		params.Set("cloud_id", cred.CloudID)
	}

	http.Redirect(w, r, completeView+"?"+params.Encode(), http.StatusFound)
}

// CompleteHandler reads the token(s) from its own query parameters,
// persists them through the session container, then navigates to the
// connections view. Missing parameters route to the error view.
func (h *OAuthHandler) CompleteHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	query := r.URL.Query()
	provider := models.Provider(query.Get("provider"))
	accessToken := query.Get("access_token")
	if provider == "" || accessToken == "" {
		h.redirectError(w, r, "missing_token")
		return
	}

	cred := &models.Credential{
		Provider:     provider,
		Kind:         models.CredentialOAuth,
		AccessToken:  accessToken,
		RefreshToken: query.Get("refresh_token"),
		CloudID:      query.Get("cloud_id"),
	}

	if _, err := h.session.Connect(r.Context(), cred); err != nil {
		h.logger.Warn().Err(err).Str("provider", string(provider)).Msg("Credential failed validation after OAuth completion")
		h.redirectError(w, r, "session_invalid")
		return
	}

	http.Redirect(w, r, connectionsView, http.StatusFound)
}

func (h *OAuthHandler) redirectError(w http.ResponseWriter, r *http.Request, reason string) {
	http.Redirect(w, r, connectionsView+"?error="+url.QueryEscape(reason), http.StatusFound)
}
