package atlassian

import (
	"context"
	"fmt"

	"github.com/gitkamaal/devtracker/internal/common"
	"github.com/gitkamaal/devtracker/internal/httpclient"
	"github.com/gitkamaal/devtracker/internal/models"
)

// confluenceBase resolves the Confluence REST base URL and authorization
// header. Confluence rides on the same Jira credential.
func (s *Service) confluenceBase(cred *models.Credential) (string, string, error) {
	switch cred.Kind {
	case models.CredentialBasic:
		if cred.SiteDomain == "" {
			return "", "", common.NewValidationError("domain", "Confluence site domain is required")
		}
		header, err := httpclient.AuthHeaderForCredential(cred, "")
		if err != nil {
			return "", "", err
		}
		return fmt.Sprintf("https://%s/wiki", common.NormalizeDomain(cred.SiteDomain)), header, nil

	case models.CredentialOAuth:
		if cred.CloudID == "" {
			return "", "", common.NewValidationError("cloudId", "Atlassian cloud id has not been discovered for this credential")
		}
		header, err := httpclient.AuthHeaderForCredential(cred, "")
		if err != nil {
			return "", "", err
		}
		return fmt.Sprintf("%s/ex/confluence/%s/wiki", platformAPIBase, cred.CloudID), header, nil

	default:
		return "", "", fmt.Errorf("credential kind %s cannot address Confluence", cred.Kind)
	}
}

// ListSpaces fetches visible Confluence spaces
func (s *Service) ListSpaces(ctx context.Context, cred *models.Credential, start, limit int) (*models.ConfluenceSpaceList, error) {
	base, header, err := s.confluenceBase(cred)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultMaxResults
	}

	var spaces models.ConfluenceSpaceList
	path := fmt.Sprintf("%s/rest/api/space?start=%d&limit=%d", base, start, limit)
	if err := s.client.DoJSON(ctx, "GET", path, header, nil, &spaces); err != nil {
		return nil, err
	}

	s.logger.Debug().Int("count", len(spaces.Results)).Msg("Fetched Confluence spaces")
	return &spaces, nil
}

// ListPages fetches content records, optionally scoped to one space key
func (s *Service) ListPages(ctx context.Context, cred *models.Credential, spaceKey string, start, limit int) (*models.ConfluencePageList, error) {
	base, header, err := s.confluenceBase(cred)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultMaxResults
	}

	path := fmt.Sprintf("%s/rest/api/content?type=page&start=%d&limit=%d", base, start, limit)
	if spaceKey != "" {
		path += "&spaceKey=" + spaceKey
	}

	var pages models.ConfluencePageList
	if err := s.client.DoJSON(ctx, "GET", path, header, nil, &pages); err != nil {
		return nil, err
	}

	s.logger.Debug().Str("space", spaceKey).Int("count", len(pages.Results)).Msg("Fetched Confluence pages")
	return &pages, nil
}
