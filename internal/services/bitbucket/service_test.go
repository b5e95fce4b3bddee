package bitbucket

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/gitkamaal/devtracker/internal/common"
	"github.com/gitkamaal/devtracker/internal/httpclient"
	"github.com/gitkamaal/devtracker/internal/models"
)

func appPasswordCredential(username string) *models.Credential {
	return &models.Credential{
		Provider: models.ProviderBitbucket,
		Kind:     models.CredentialAppPassword,
		Username: username,
		Secret:   "app-pass",
	}
}

func newTestService(t *testing.T, handler http.HandlerFunc) (*Service, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	svc := NewServiceWithBaseURL(httpclient.New(5*time.Second), arbor.NewLogger(), server.URL)
	return svc, server
}

func TestGetUser(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, models.AppPasswordIdentifier, user)
		assert.Equal(t, "app-pass", pass)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"account_id": "abc123", "display_name": "Dev One", "username": "devone"}`))
	})

	user, err := svc.GetUser(context.Background(), appPasswordCredential("devone"))
	require.NoError(t, err)
	assert.Equal(t, "abc123", user.AccountID)
	assert.Equal(t, "Dev One", user.DisplayName)
}

func TestGetUser_WrongCredentialKind(t *testing.T) {
	svc := NewService(httpclient.New(5*time.Second), arbor.NewLogger())

	_, err := svc.GetUser(context.Background(), &models.Credential{Kind: models.CredentialBearer, Token: "tok"})
	assert.Error(t, err)
}

func TestValidateCredential_Unauthorized(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "Token is invalid"}}`))
	})

	_, err := svc.ValidateCredential(context.Background(), appPasswordCredential("devone"))
	require.Error(t, err)

	var upstreamErr *common.UpstreamError
	require.True(t, errors.As(err, &upstreamErr))
	assert.True(t, upstreamErr.IsAuth())
}

func TestListRepositories_DefaultsWorkspaceToUsername(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repositories/devone", r.URL.Path)
		assert.Equal(t, "-updated_on", r.URL.Query().Get("sort"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"size": 1, "values": [{"name": "tooling", "full_name": "devone/tooling"}]}`))
	})

	page, err := svc.ListRepositories(context.Background(), appPasswordCredential("devone"), "")
	require.NoError(t, err)
	require.Len(t, page.Values, 1)
	assert.Equal(t, "tooling", page.Values[0].Name)
}

func TestListRepositories_MissingWorkspace(t *testing.T) {
	svc := NewService(httpclient.New(5*time.Second), arbor.NewLogger())

	_, err := svc.ListRepositories(context.Background(), appPasswordCredential(""), "")
	require.Error(t, err)

	var validationErr *common.ValidationError
	assert.True(t, errors.As(err, &validationErr))
}

func TestListPullRequests(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repositories/acme/tooling/pullrequests", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"size": 1, "values": [{"id": 7, "title": "Add retry", "state": "OPEN"}]}`))
	})

	page, err := svc.ListPullRequests(context.Background(), appPasswordCredential("devone"), "acme", "tooling")
	require.NoError(t, err)
	require.Len(t, page.Values, 1)
	assert.Equal(t, int64(7), page.Values[0].ID)
	assert.Equal(t, "OPEN", page.Values[0].State)
}

func TestListPullRequests_MissingRepo(t *testing.T) {
	svc := NewService(httpclient.New(5*time.Second), arbor.NewLogger())

	_, err := svc.ListPullRequests(context.Background(), appPasswordCredential("devone"), "acme", "")
	assert.Error(t, err)
}
