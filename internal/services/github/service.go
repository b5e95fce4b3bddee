package github

import (
	"context"
	"fmt"

	gogithub "github.com/google/go-github/v57/github"
	"github.com/ternarybob/arbor"
	"golang.org/x/oauth2"

	"github.com/gitkamaal/devtracker/internal/common"
	"github.com/gitkamaal/devtracker/internal/models"
)

// Service fetches GitHub data for the authenticated user via go-github.
type Service struct {
	logger  arbor.ILogger
	baseURL string // override for tests; empty uses api.github.com
}

// NewService creates a new GitHub data service
func NewService(logger arbor.ILogger) *Service {
	return &Service{logger: logger}
}

// NewServiceWithBaseURL creates a service pointed at an alternate API root
func NewServiceWithBaseURL(logger arbor.ILogger, baseURL string) *Service {
	return &Service{logger: logger, baseURL: baseURL}
}

func (s *Service) clientFor(ctx context.Context, cred *models.Credential) (*gogithub.Client, error) {
	token := cred.BearerToken()
	if token == "" {
		return nil, common.NewValidationError("token", "GitHub credential has no access token")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	client := gogithub.NewClient(oauth2.NewClient(ctx, ts))

	if s.baseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(s.baseURL, s.baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid github base URL: %w", err)
		}
	}

	return client, nil
}

// GetAuthenticatedUser fetches the token owner's profile
func (s *Service) GetAuthenticatedUser(ctx context.Context, cred *models.Credential) (*gogithub.User, error) {
	client, err := s.clientFor(ctx, cred)
	if err != nil {
		return nil, err
	}

	user, resp, err := client.Users.Get(ctx, "")
	if err != nil {
		return nil, wrapGitHubError(resp, err)
	}
	return user, nil
}

// ValidateCredential implements interfaces.ProfileValidator
func (s *Service) ValidateCredential(ctx context.Context, cred *models.Credential) (*models.UserProfile, error) {
	user, err := s.GetAuthenticatedUser(ctx, cred)
	if err != nil {
		return nil, err
	}
	return &models.UserProfile{
		Provider:    cred.Provider,
		AccountID:   fmt.Sprintf("%d", user.GetID()),
		DisplayName: user.GetLogin(),
		Email:       user.GetEmail(),
		AvatarURL:   user.GetAvatarURL(),
	}, nil
}

// ListRepositories lists repositories visible to the authenticated user,
// most recently pushed first.
func (s *Service) ListRepositories(ctx context.Context, cred *models.Credential, page, perPage int) ([]*gogithub.Repository, error) {
	client, err := s.clientFor(ctx, cred)
	if err != nil {
		return nil, err
	}

	if perPage <= 0 {
		perPage = 30
	}

	opts := &gogithub.RepositoryListOptions{
		Sort:        "pushed",
		ListOptions: gogithub.ListOptions{Page: page, PerPage: perPage},
	}
	repos, resp, err := client.Repositories.List(ctx, "", opts)
	if err != nil {
		return nil, wrapGitHubError(resp, err)
	}

	s.logger.Debug().Int("count", len(repos)).Msg("Fetched GitHub repositories")
	return repos, nil
}

// SearchPullRequests searches pull requests authored by the given login
func (s *Service) SearchPullRequests(ctx context.Context, cred *models.Credential, login string, page, perPage int) (*gogithub.IssuesSearchResult, error) {
	client, err := s.clientFor(ctx, cred)
	if err != nil {
		return nil, err
	}

	if login == "" {
		return nil, common.NewValidationError("login", "author login is required")
	}
	if perPage <= 0 {
		perPage = 30
	}

	query := fmt.Sprintf("author:%s type:pr", login)
	opts := &gogithub.SearchOptions{
		Sort:        "updated",
		ListOptions: gogithub.ListOptions{Page: page, PerPage: perPage},
	}
	result, resp, err := client.Search.Issues(ctx, query, opts)
	if err != nil {
		return nil, wrapGitHubError(resp, err)
	}

	s.logger.Debug().Str("query", query).Int("count", len(result.Issues)).Msg("GitHub pull request search completed")
	return result, nil
}

// wrapGitHubError converts go-github failures into the shared taxonomy so
// handlers relay upstream status codes uniformly.
func wrapGitHubError(resp *gogithub.Response, err error) error {
	if resp != nil && resp.Response != nil {
		return &common.UpstreamError{StatusCode: resp.StatusCode, Body: err.Error()}
	}
	return &common.NetworkError{URL: "https://api.github.com", Err: err}
}
