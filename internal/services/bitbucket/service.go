package bitbucket

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/gitkamaal/devtracker/internal/common"
	"github.com/gitkamaal/devtracker/internal/httpclient"
	"github.com/gitkamaal/devtracker/internal/models"
)

const defaultAPIBase = "https://api.bitbucket.org/2.0"

// Service fetches Bitbucket data using app-password credentials. The auth
// header always carries the x-token-auth sentinel username.
type Service struct {
	client  *httpclient.Client
	logger  arbor.ILogger
	apiBase string
}

// NewService creates a new Bitbucket data service
func NewService(client *httpclient.Client, logger arbor.ILogger) *Service {
	return &Service{
		client:  client,
		logger:  logger,
		apiBase: defaultAPIBase,
	}
}

// NewServiceWithBaseURL creates a service pointed at an alternate API root
func NewServiceWithBaseURL(client *httpclient.Client, logger arbor.ILogger, apiBase string) *Service {
	return &Service{
		client:  client,
		logger:  logger,
		apiBase: apiBase,
	}
}

func (s *Service) authHeader(cred *models.Credential) (string, error) {
	if cred.Kind != models.CredentialAppPassword {
		return "", fmt.Errorf("credential kind %s cannot address Bitbucket", cred.Kind)
	}
	return httpclient.AuthHeaderForCredential(cred, s.apiBase)
}

// GetUser fetches the authenticated user's profile
func (s *Service) GetUser(ctx context.Context, cred *models.Credential) (*models.BitbucketUser, error) {
	header, err := s.authHeader(cred)
	if err != nil {
		return nil, err
	}

	var user models.BitbucketUser
	if err := s.client.DoJSON(ctx, "GET", s.apiBase+"/user", header, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ValidateCredential implements interfaces.ProfileValidator
func (s *Service) ValidateCredential(ctx context.Context, cred *models.Credential) (*models.UserProfile, error) {
	user, err := s.GetUser(ctx, cred)
	if err != nil {
		return nil, err
	}
	return &models.UserProfile{
		Provider:    cred.Provider,
		AccountID:   user.AccountID,
		DisplayName: user.DisplayName,
	}, nil
}

// ListRepositories lists repositories in a workspace, most recently
// updated first. The workspace defaults to the credential's username.
func (s *Service) ListRepositories(ctx context.Context, cred *models.Credential, workspace string) (*models.BitbucketRepoPage, error) {
	header, err := s.authHeader(cred)
	if err != nil {
		return nil, err
	}

	if workspace == "" {
		workspace = cred.Username
	}
	if workspace == "" {
		return nil, common.NewValidationError("workspace", "Bitbucket workspace is required")
	}

	var page models.BitbucketRepoPage
	path := fmt.Sprintf("%s/repositories/%s?sort=-updated_on", s.apiBase, workspace)
	if err := s.client.DoJSON(ctx, "GET", path, header, nil, &page); err != nil {
		return nil, err
	}

	s.logger.Debug().Str("workspace", workspace).Int("count", len(page.Values)).Msg("Fetched Bitbucket repositories")
	return &page, nil
}

// ListPullRequests lists pull requests for one repository
func (s *Service) ListPullRequests(ctx context.Context, cred *models.Credential, workspace, repo string) (*models.BitbucketPullRequestPage, error) {
	header, err := s.authHeader(cred)
	if err != nil {
		return nil, err
	}

	if workspace == "" {
		workspace = cred.Username
	}
	if workspace == "" || repo == "" {
		return nil, common.NewValidationError("repo", "Bitbucket workspace and repository are required")
	}

	var page models.BitbucketPullRequestPage
	path := fmt.Sprintf("%s/repositories/%s/%s/pullrequests", s.apiBase, workspace, repo)
	if err := s.client.DoJSON(ctx, "GET", path, header, nil, &page); err != nil {
		return nil, err
	}

	s.logger.Debug().Str("repo", workspace+"/"+repo).Int("count", len(page.Values)).Msg("Fetched Bitbucket pull requests")
	return &page, nil
}
