package httpclient

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"github.com/gitkamaal/devtracker/internal/common"
	"github.com/gitkamaal/devtracker/internal/models"
)

// appPasswordDomain marks hosts that overload Basic auth with the
// x-token-auth sentinel username. Detection by hostname is kept for
// compatibility with callers that omit the explicit flag; the flag is the
// preferred discriminator.
const appPasswordDomain = "bitbucket.org"

// AuthRequest describes the credential material presented for one outbound
// call. At most one encoding is derived from it.
type AuthRequest struct {
	Token         string // opaque bearer token, used verbatim
	Identifier    string // basic-auth username (email)
	Secret        string // basic-auth password (API token)
	IsAppPassword bool   // force the x-token-auth sentinel encoding
	TargetURL     string // used only for app-password host sniffing
}

// BuildAuthHeader derives exactly one Authorization header value from the
// presented credentials. Priority order, first match wins:
//  1. bearer token present -> Bearer encoding
//  2. app-password flag, or the sentinel identifier against a known
//     app-password host -> Basic with the x-token-auth username
//  3. identifier + secret -> standard Basic
//
// Returns ValidationError when neither a token nor an identifier/secret
// pair is present.
func BuildAuthHeader(req AuthRequest) (string, error) {
	if req.Token != "" {
		return "Bearer " + req.Token, nil
	}

	if req.Secret != "" && (req.IsAppPassword || isAppPasswordTarget(req.Identifier, req.TargetURL)) {
		return basicAuth(models.AppPasswordIdentifier, req.Secret), nil
	}

	if req.Identifier != "" && req.Secret != "" {
		return basicAuth(req.Identifier, req.Secret), nil
	}

	return "", common.NewValidationError("credentials", "either token or email and apiToken are required")
}

// AuthHeaderForCredential maps a stored credential variant to its single
// authorization encoding.
func AuthHeaderForCredential(cred *models.Credential, targetURL string) (string, error) {
	switch cred.Kind {
	case models.CredentialBearer:
		return BuildAuthHeader(AuthRequest{Token: cred.Token})
	case models.CredentialOAuth:
		return BuildAuthHeader(AuthRequest{Token: cred.AccessToken})
	case models.CredentialAppPassword:
		return BuildAuthHeader(AuthRequest{Secret: cred.Secret, IsAppPassword: true})
	case models.CredentialBasic:
		return BuildAuthHeader(AuthRequest{Identifier: cred.Identifier, Secret: cred.Secret, TargetURL: targetURL})
	default:
		return "", fmt.Errorf("unknown credential kind: %s", cred.Kind)
	}
}

func isAppPasswordTarget(identifier, targetURL string) bool {
	if identifier != models.AppPasswordIdentifier || targetURL == "" {
		return false
	}
	parsed, err := url.Parse(targetURL)
	if err != nil {
		return false
	}
	return strings.Contains(parsed.Host, appPasswordDomain)
}

func basicAuth(identifier, secret string) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(identifier + ":" + secret))
	return "Basic " + encoded
}
