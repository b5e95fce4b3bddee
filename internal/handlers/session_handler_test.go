package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/gitkamaal/devtracker/internal/common"
	"github.com/gitkamaal/devtracker/internal/interfaces"
	"github.com/gitkamaal/devtracker/internal/models"
)

func postJSON(t *testing.T, handler http.HandlerFunc, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestStatusHandler(t *testing.T) {
	session := &fakeSession{statuses: []interfaces.ProviderStatus{
		{Provider: models.ProviderGitHub, Connected: true},
		{Provider: models.ProviderAtlassian},
	}}
	h := NewSessionHandler(session, arbor.NewLogger())

	req := httptest.NewRequest("GET", "/api/session", nil)
	rec := httptest.NewRecorder()
	h.StatusHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Providers []interfaces.ProviderStatus `json:"providers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Providers, 2)
	assert.True(t, payload.Providers[0].Connected)
	assert.False(t, payload.Providers[1].Connected)
}

func TestConnectJiraHandler(t *testing.T) {
	session := &fakeSession{}
	h := NewSessionHandler(session, arbor.NewLogger())

	rec := postJSON(t, h.ConnectJiraHandler, "/api/session/jira", map[string]string{
		"email":    "user@example.com",
		"apiToken": "apitoken",
		"domain":   "https://mysite.atlassian.net/",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, session.connected, 1)
	cred := session.connected[0]
	assert.Equal(t, models.ProviderJira, cred.Provider)
	assert.Equal(t, models.CredentialBasic, cred.Kind)
	assert.Equal(t, "user@example.com", cred.Identifier)
	// Domain is normalized before the credential is stored
	assert.Equal(t, "mysite.atlassian.net", cred.SiteDomain)
}

func TestConnectJiraHandler_MissingFields(t *testing.T) {
	h := NewSessionHandler(&fakeSession{}, arbor.NewLogger())

	rec := postJSON(t, h.ConnectJiraHandler, "/api/session/jira", map[string]string{
		"email": "user@example.com",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConnectJiraHandler_InvalidCredential(t *testing.T) {
	session := &fakeSession{connectErr: common.ErrSessionInvalid}
	h := NewSessionHandler(session, arbor.NewLogger())

	rec := postJSON(t, h.ConnectJiraHandler, "/api/session/jira", map[string]string{
		"email":    "user@example.com",
		"apiToken": "bad",
		"domain":   "mysite.atlassian.net",
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestConnectBitbucketHandler(t *testing.T) {
	session := &fakeSession{}
	h := NewSessionHandler(session, arbor.NewLogger())

	rec := postJSON(t, h.ConnectBitbucketHandler, "/api/session/bitbucket", map[string]string{
		"username":    "devone",
		"appPassword": "app-pass",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, session.connected, 1)
	cred := session.connected[0]
	assert.Equal(t, models.ProviderBitbucket, cred.Provider)
	assert.Equal(t, models.CredentialAppPassword, cred.Kind)
	assert.Equal(t, models.AppPasswordIdentifier, cred.Identifier)
	assert.Equal(t, "devone", cred.Username)
}

func TestRefreshHandler(t *testing.T) {
	session := &fakeSession{}
	h := NewSessionHandler(session, arbor.NewLogger())

	req := httptest.NewRequest("POST", "/api/session/refresh", nil)
	rec := httptest.NewRecorder()
	h.RefreshHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []models.Provider{models.ProviderAtlassian}, session.refreshed)
}

func TestRefreshHandler_SessionInvalid(t *testing.T) {
	session := &fakeSession{refreshErr: common.ErrSessionInvalid}
	h := NewSessionHandler(session, arbor.NewLogger())

	req := httptest.NewRequest("POST", "/api/session/refresh", nil)
	rec := httptest.NewRecorder()
	h.RefreshHandler(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDisconnectHandler(t *testing.T) {
	session := &fakeSession{}
	h := NewSessionHandler(session, arbor.NewLogger())

	req := httptest.NewRequest("DELETE", "/api/session/github", nil)
	rec := httptest.NewRecorder()
	h.DisconnectHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []models.Provider{models.ProviderGitHub}, session.disconnected)
}

func TestDisconnectHandler_UnknownProvider(t *testing.T) {
	session := &fakeSession{}
	h := NewSessionHandler(session, arbor.NewLogger())

	req := httptest.NewRequest("DELETE", "/api/session/gitlab", nil)
	rec := httptest.NewRecorder()
	h.DisconnectHandler(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, session.disconnected)
}
