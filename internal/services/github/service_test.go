package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/gitkamaal/devtracker/internal/common"
	"github.com/gitkamaal/devtracker/internal/models"
)

func oauthCredential(token string) *models.Credential {
	return &models.Credential{
		Provider:    models.ProviderGitHub,
		Kind:        models.CredentialOAuth,
		AccessToken: token,
	}
}

func newTestService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewServiceWithBaseURL(arbor.NewLogger(), server.URL+"/")
}

func TestGetAuthenticatedUser(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/user"))
		assert.Equal(t, "Bearer gh-tok", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": 42, "login": "octocat", "avatar_url": "https://avatars.example/42"}`))
	})

	user, err := svc.GetAuthenticatedUser(context.Background(), oauthCredential("gh-tok"))
	require.NoError(t, err)
	assert.Equal(t, "octocat", user.GetLogin())
	assert.Equal(t, int64(42), user.GetID())
}

func TestGetAuthenticatedUser_NoToken(t *testing.T) {
	svc := NewService(arbor.NewLogger())

	_, err := svc.GetAuthenticatedUser(context.Background(), &models.Credential{Kind: models.CredentialOAuth})
	require.Error(t, err)

	var validationErr *common.ValidationError
	assert.True(t, errors.As(err, &validationErr))
}

func TestValidateCredential_BadToken(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message": "Bad credentials"}`))
	})

	_, err := svc.ValidateCredential(context.Background(), oauthCredential("bad-tok"))
	require.Error(t, err)

	var upstreamErr *common.UpstreamError
	require.True(t, errors.As(err, &upstreamErr))
	assert.Equal(t, http.StatusUnauthorized, upstreamErr.StatusCode)
	assert.True(t, upstreamErr.IsAuth())
}

func TestListRepositories(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "pushed", r.URL.Query().Get("sort"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id": 1, "name": "devtracker", "full_name": "octocat/devtracker"}]`))
	})

	repos, err := svc.ListRepositories(context.Background(), oauthCredential("gh-tok"), 0, 0)
	require.NoError(t, err)
	require.Len(t, repos, 1)
	assert.Equal(t, "devtracker", repos[0].GetName())
}

func TestSearchPullRequests(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "author:octocat type:pr", r.URL.Query().Get("q"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"total_count": 1, "items": [{"number": 7, "title": "Add retry"}]}`))
	})

	result, err := svc.SearchPullRequests(context.Background(), oauthCredential("gh-tok"), "octocat", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, result.GetTotal())
	require.Len(t, result.Issues, 1)
	assert.Equal(t, 7, result.Issues[0].GetNumber())
}

func TestSearchPullRequests_MissingLogin(t *testing.T) {
	svc := NewService(arbor.NewLogger())

	_, err := svc.SearchPullRequests(context.Background(), oauthCredential("gh-tok"), "", 0, 0)
	assert.Error(t, err)
}
