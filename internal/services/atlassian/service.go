package atlassian

import (
	"context"
	"fmt"
	"net/url"

	"github.com/ternarybob/arbor"

	"github.com/gitkamaal/devtracker/internal/common"
	"github.com/gitkamaal/devtracker/internal/httpclient"
	"github.com/gitkamaal/devtracker/internal/models"
)

const (
	platformAPIBase = "https://api.atlassian.com"

	defaultMaxResults = 50
	searchFields      = "summary,status,issuetype,priority,assignee,updated,created"
)

// Service fetches Jira and Confluence data. It accepts either an
// email+token credential routed against the site domain, or an OAuth
// credential routed through the multi-tenant platform gateway using the
// discovered cloud id.
type Service struct {
	client *httpclient.Client
	logger arbor.ILogger
}

// NewService creates a new Atlassian data service
func NewService(client *httpclient.Client, logger arbor.ILogger) *Service {
	return &Service{
		client: client,
		logger: logger,
	}
}

// jiraBase resolves the Jira REST base URL and authorization header for a
// credential. OAuth credentials require a discovered cloud id.
func (s *Service) jiraBase(cred *models.Credential) (string, string, error) {
	switch cred.Kind {
	case models.CredentialBasic:
		if cred.SiteDomain == "" {
			return "", "", common.NewValidationError("domain", "Jira site domain is required")
		}
		header, err := httpclient.AuthHeaderForCredential(cred, "")
		if err != nil {
			return "", "", err
		}
		return fmt.Sprintf("https://%s", common.NormalizeDomain(cred.SiteDomain)), header, nil

	case models.CredentialOAuth:
		if cred.CloudID == "" {
			return "", "", common.NewValidationError("cloudId", "Atlassian cloud id has not been discovered for this credential")
		}
		header, err := httpclient.AuthHeaderForCredential(cred, "")
		if err != nil {
			return "", "", err
		}
		return fmt.Sprintf("%s/ex/jira/%s", platformAPIBase, cred.CloudID), header, nil

	default:
		return "", "", fmt.Errorf("credential kind %s cannot address Jira", cred.Kind)
	}
}

// GetMyself fetches the authenticated user's own profile. A failure here is
// the invalid-session signal used by credential validation.
func (s *Service) GetMyself(ctx context.Context, cred *models.Credential) (*models.JiraMyself, error) {
	if cred.Kind == models.CredentialOAuth {
		// The platform /me endpoint validates the token before any tenant
		// routing exists.
		var me models.AtlassianMe
		header, err := httpclient.AuthHeaderForCredential(cred, "")
		if err != nil {
			return nil, err
		}
		if err := s.client.DoJSON(ctx, "GET", platformAPIBase+"/me", header, nil, &me); err != nil {
			return nil, err
		}
		return &models.JiraMyself{
			AccountID:    me.AccountID,
			DisplayName:  me.Name,
			EmailAddress: me.Email,
			Active:       true,
		}, nil
	}

	base, header, err := s.jiraBase(cred)
	if err != nil {
		return nil, err
	}

	var myself models.JiraMyself
	if err := s.client.DoJSON(ctx, "GET", base+"/rest/api/3/myself", header, nil, &myself); err != nil {
		return nil, err
	}
	return &myself, nil
}

// ValidateCredential implements interfaces.ProfileValidator
func (s *Service) ValidateCredential(ctx context.Context, cred *models.Credential) (*models.UserProfile, error) {
	myself, err := s.GetMyself(ctx, cred)
	if err != nil {
		return nil, err
	}
	return &models.UserProfile{
		Provider:    cred.Provider,
		AccountID:   myself.AccountID,
		DisplayName: myself.DisplayName,
		Email:       myself.EmailAddress,
	}, nil
}

// ListProjects fetches all visible projects
func (s *Service) ListProjects(ctx context.Context, cred *models.Credential) ([]models.JiraProject, error) {
	base, header, err := s.jiraBase(cred)
	if err != nil {
		return nil, err
	}

	var projects []models.JiraProject
	if err := s.client.DoJSON(ctx, "GET", base+"/rest/api/3/project", header, nil, &projects); err != nil {
		return nil, err
	}

	s.logger.Debug().Int("count", len(projects)).Msg("Fetched Jira projects")
	return projects, nil
}

// SearchIssues runs a JQL search built from the filter. startAt/maxResults
// page through results; maxResults <= 0 uses the service default.
func (s *Service) SearchIssues(ctx context.Context, cred *models.Credential, filter IssueFilter, startAt, maxResults int) (*models.JiraSearchResult, error) {
	base, header, err := s.jiraBase(cred)
	if err != nil {
		return nil, err
	}

	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	jql := BuildJQL(filter)
	path := fmt.Sprintf("%s/rest/api/3/search/jql?jql=%s&startAt=%d&maxResults=%d&fields=%s",
		base, url.QueryEscape(jql), startAt, maxResults, searchFields)

	var result models.JiraSearchResult
	if err := s.client.DoJSON(ctx, "GET", path, header, nil, &result); err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("jql", jql).
		Int("issues", len(result.Issues)).
		Msg("Jira issue search completed")

	return &result, nil
}
