package oauth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
	"golang.org/x/oauth2"
	githubendpoint "golang.org/x/oauth2/github"

	"github.com/gitkamaal/devtracker/internal/common"
	"github.com/gitkamaal/devtracker/internal/httpclient"
	"github.com/gitkamaal/devtracker/internal/models"
)

const platformAPIBase = "https://api.atlassian.com"

// atlassianEndpoint is the Atlassian cloud OAuth 2.0 (3LO) endpoint pair
var atlassianEndpoint = oauth2.Endpoint{
	AuthURL:   "https://auth.atlassian.com/authorize",
	TokenURL:  "https://auth.atlassian.com/oauth/token",
	AuthStyle: oauth2.AuthStyleInParams,
}

// Service implements the authorization-code lifecycle for GitHub (access
// token only) and Atlassian (access + refresh). The client secret never
// leaves this process.
type Service struct {
	github    *oauth2.Config
	atlassian *oauth2.Config
	client    *httpclient.Client
	logger    arbor.ILogger
	apiBase   string // Atlassian platform API root, override for tests
}

// NewService builds the per-provider OAuth configurations from application
// config. Providers without a client id stay registered but fail closed on
// use.
func NewService(cfg *common.Config, client *httpclient.Client, logger arbor.ILogger) *Service {
	return &Service{
		github: &oauth2.Config{
			ClientID:     cfg.Providers.GitHub.ClientID,
			ClientSecret: cfg.Providers.GitHub.ClientSecret,
			Scopes:       cfg.Providers.GitHub.Scopes,
			Endpoint:     githubendpoint.Endpoint,
			RedirectURL:  cfg.RedirectURI(cfg.Providers.GitHub, "/auth/github/callback"),
		},
		atlassian: &oauth2.Config{
			ClientID:     cfg.Providers.Atlassian.ClientID,
			ClientSecret: cfg.Providers.Atlassian.ClientSecret,
			Scopes:       cfg.Providers.Atlassian.Scopes,
			Endpoint:     atlassianEndpoint,
			RedirectURL:  cfg.RedirectURI(cfg.Providers.Atlassian, "/auth/atlassian/callback"),
		},
		client:  client,
		logger:  logger,
		apiBase: platformAPIBase,
	}
}

// NewState generates the anti-forgery state value for one authorization
// round trip.
func (s *Service) NewState() string {
	return uuid.NewString()
}

func (s *Service) configFor(provider models.Provider) (*oauth2.Config, error) {
	switch provider {
	case models.ProviderGitHub:
		return s.github, nil
	case models.ProviderAtlassian:
		return s.atlassian, nil
	default:
		return nil, fmt.Errorf("provider %s does not use OAuth", provider)
	}
}

// AuthorizeURL constructs the provider authorization URL. A missing client
// id is a ConfigError so the initiation endpoint fails closed instead of
// redirecting the user to a broken provider page.
func (s *Service) AuthorizeURL(provider models.Provider, state string) (string, error) {
	cfg, err := s.configFor(provider)
	if err != nil {
		return "", err
	}
	if cfg.ClientID == "" {
		return "", &common.ConfigError{Provider: string(provider), Message: "client id is not configured"}
	}

	if provider == models.ProviderAtlassian {
		return cfg.AuthCodeURL(state,
			oauth2.SetAuthURLParam("audience", "api.atlassian.com"),
			oauth2.SetAuthURLParam("prompt", "consent"),
		), nil
	}
	return cfg.AuthCodeURL(state), nil
}

// Exchange converts an authorization code into a credential. For Atlassian
// the tenant cloud id is discovered immediately after the exchange.
func (s *Service) Exchange(ctx context.Context, provider models.Provider, code string) (*models.Credential, error) {
	cfg, err := s.configFor(provider)
	if err != nil {
		return nil, err
	}
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, &common.ConfigError{Provider: string(provider), Message: "client id or secret is not configured"}
	}

	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("token exchange failed for %s: %w", provider, err)
	}

	cred := credentialFromToken(provider, token)

	if provider == models.ProviderAtlassian {
		cloudID, err := s.DiscoverCloudID(ctx, cred.AccessToken)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Cloud id discovery failed after token exchange")
		} else {
			cred.CloudID = cloudID
		}
	}

	s.logger.Info().
		Str("provider", string(provider)).
		Bool("refreshable", cred.Refreshable()).
		Msg("Authorization code exchanged")

	return cred, nil
}

// Refresh exchanges the refresh token for new access and refresh tokens.
// Only Atlassian credentials are refreshable. Callers serialize refreshes
// per provider; this method itself holds no state.
func (s *Service) Refresh(ctx context.Context, cred *models.Credential) (*models.Credential, error) {
	if !cred.Refreshable() {
		return nil, fmt.Errorf("credential for %s is not refreshable", cred.Provider)
	}

	cfg, err := s.configFor(cred.Provider)
	if err != nil {
		return nil, err
	}

	token, err := cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: cred.RefreshToken}).Token()
	if err != nil {
		return nil, fmt.Errorf("token refresh failed for %s: %w", cred.Provider, err)
	}

	refreshed := credentialFromToken(cred.Provider, token)
	refreshed.ID = cred.ID
	refreshed.CloudID = cred.CloudID
	refreshed.CreatedAt = cred.CreatedAt
	if refreshed.RefreshToken == "" {
		// Some grants rotate the refresh token, some return it unchanged
		refreshed.RefreshToken = cred.RefreshToken
	}

	s.logger.Info().Str("provider", string(cred.Provider)).Msg("Access token refreshed")
	return refreshed, nil
}

// DiscoverCloudID resolves the tenant behind the multi-tenant Atlassian
// API via the accessible-resources call. The first accessible site wins.
func (s *Service) DiscoverCloudID(ctx context.Context, accessToken string) (string, error) {
	var resources []models.AccessibleResource
	url := s.apiBase + "/oauth/token/accessible-resources"
	if err := s.client.DoJSON(ctx, "GET", url, "Bearer "+accessToken, nil, &resources); err != nil {
		return "", err
	}
	if len(resources) == 0 {
		return "", fmt.Errorf("no accessible Atlassian sites for this token")
	}

	s.logger.Debug().Str("site", resources[0].URL).Str("cloudId", resources[0].ID).Msg("Atlassian tenant discovered")
	return resources[0].ID, nil
}

func credentialFromToken(provider models.Provider, token *oauth2.Token) *models.Credential {
	expiresAt := time.Time{}
	if !token.Expiry.IsZero() {
		expiresAt = token.Expiry
	}
	return &models.Credential{
		Provider:     provider,
		Kind:         models.CredentialOAuth,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    expiresAt,
	}
}
