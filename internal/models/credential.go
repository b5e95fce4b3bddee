package models

import "time"

// Provider identifies a linked work-tracking account type
type Provider string

const (
	ProviderGitHub    Provider = "github"    // OAuth, access token only
	ProviderAtlassian Provider = "atlassian" // OAuth, access + refresh tokens
	ProviderJira      Provider = "jira"      // email + API token against a site domain
	ProviderBitbucket Provider = "bitbucket" // app password with sentinel username
)

// AllProviders lists every provider with a session slot
var AllProviders = []Provider{ProviderGitHub, ProviderAtlassian, ProviderJira, ProviderBitbucket}

// CredentialKind discriminates the credential variants. Exactly one
// authorization encoding is derivable from each kind.
type CredentialKind string

const (
	CredentialBearer      CredentialKind = "bearer"
	CredentialBasic       CredentialKind = "basic"
	CredentialAppPassword CredentialKind = "app_password"
	CredentialOAuth       CredentialKind = "oauth"
)

// AppPasswordIdentifier is the fixed Basic-auth username Bitbucket expects
// for app-password tokens.
const AppPasswordIdentifier = "x-token-auth"

// Credential is the tagged-variant credential record for one provider slot.
// Only the fields belonging to Kind are populated.
type Credential struct {
	ID       string         `json:"id"`
	Provider Provider       `json:"provider"`
	Kind     CredentialKind `json:"kind"`

	// bearer
	Token string `json:"token,omitempty"`

	// basic / app_password
	Identifier string `json:"identifier,omitempty"`
	Secret     string `json:"secret,omitempty"`
	SiteDomain string `json:"site_domain,omitempty"` // normalized, basic only
	Username   string `json:"username,omitempty"`    // app_password only, for API paths

	// oauth
	AccessToken  string    `json:"access_token,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at,omitempty"`
	CloudID      string    `json:"cloud_id,omitempty"` // Atlassian tenant, discovered post-auth

	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// BearerToken returns the token to present verbatim in an Authorization
// header, or empty if this credential does not carry one.
func (c *Credential) BearerToken() string {
	switch c.Kind {
	case CredentialBearer:
		return c.Token
	case CredentialOAuth:
		return c.AccessToken
	default:
		return ""
	}
}

// Refreshable reports whether the credential can be exchanged for a new
// access token without user interaction.
func (c *Credential) Refreshable() bool {
	return c.Kind == CredentialOAuth && c.RefreshToken != ""
}

// UserProfile is the provider's own-user record fetched to validate that
// a credential is live. Only the common fields are retained.
type UserProfile struct {
	Provider    Provider `json:"provider"`
	AccountID   string   `json:"account_id"`
	DisplayName string   `json:"display_name"`
	Email       string   `json:"email,omitempty"`
	AvatarURL   string   `json:"avatar_url,omitempty"`
}
