package badger

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/gitkamaal/devtracker/internal/common"
	"github.com/gitkamaal/devtracker/internal/interfaces"
	"github.com/gitkamaal/devtracker/internal/models"
)

func setupTestStorage(t *testing.T) interfaces.AuthStorage {
	t.Helper()

	logger := arbor.NewLogger()
	db, err := NewBadgerDB(logger, &common.BadgerConfig{
		Path: filepath.Join(t.TempDir(), "devtracker-test"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewAuthStorage(db, logger)
}

func TestStoreCredential_AssignsIDAndTimestamps(t *testing.T) {
	storage := setupTestStorage(t)

	cred := &models.Credential{
		Provider:   models.ProviderJira,
		Kind:       models.CredentialBasic,
		Identifier: "user@example.com",
		Secret:     "apitoken",
		SiteDomain: "mysite.atlassian.net",
	}

	err := storage.StoreCredential(context.Background(), cred)
	require.NoError(t, err)
	assert.NotEmpty(t, cred.ID)
	assert.NotZero(t, cred.CreatedAt)
	assert.NotZero(t, cred.UpdatedAt)

	stored, err := storage.GetCredential(context.Background(), models.ProviderJira)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "user@example.com", stored.Identifier)
	assert.Equal(t, "mysite.atlassian.net", stored.SiteDomain)
}

func TestStoreCredential_OneRecordPerProvider(t *testing.T) {
	storage := setupTestStorage(t)

	first := &models.Credential{
		Provider: models.ProviderGitHub,
		Kind:     models.CredentialOAuth,
		AccessToken: "old-tok",
	}
	require.NoError(t, storage.StoreCredential(context.Background(), first))

	second := &models.Credential{
		Provider: models.ProviderGitHub,
		Kind:     models.CredentialOAuth,
		AccessToken: "new-tok",
	}
	require.NoError(t, storage.StoreCredential(context.Background(), second))

	creds, err := storage.ListCredentials(context.Background())
	require.NoError(t, err)
	require.Len(t, creds, 1)
	assert.Equal(t, "new-tok", creds[0].AccessToken)
}

func TestGetCredential_MissingReturnsNil(t *testing.T) {
	storage := setupTestStorage(t)

	cred, err := storage.GetCredential(context.Background(), models.ProviderBitbucket)
	require.NoError(t, err)
	assert.Nil(t, cred)
}

func TestDeleteCredential(t *testing.T) {
	storage := setupTestStorage(t)

	cred := &models.Credential{
		Provider: models.ProviderGitHub,
		Kind:     models.CredentialOAuth,
		AccessToken: "tok",
	}
	require.NoError(t, storage.StoreCredential(context.Background(), cred))
	require.NoError(t, storage.DeleteCredential(context.Background(), models.ProviderGitHub))

	stored, err := storage.GetCredential(context.Background(), models.ProviderGitHub)
	require.NoError(t, err)
	assert.Nil(t, stored)

	// Deleting an absent record is not an error
	assert.NoError(t, storage.DeleteCredential(context.Background(), models.ProviderGitHub))
}

func TestStoreCredential_RequiresProvider(t *testing.T) {
	storage := setupTestStorage(t)

	err := storage.StoreCredential(context.Background(), &models.Credential{
		Kind:  models.CredentialBearer,
		Token: "tok",
	})
	assert.Error(t, err)
}
