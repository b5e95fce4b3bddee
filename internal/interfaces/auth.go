package interfaces

import (
	"context"

	"github.com/gitkamaal/devtracker/internal/models"
)

// AuthStorage persists provider credentials across restarts. One record per
// provider slot; last writer wins.
type AuthStorage interface {
	StoreCredential(ctx context.Context, cred *models.Credential) error
	GetCredential(ctx context.Context, provider models.Provider) (*models.Credential, error)
	ListCredentials(ctx context.Context) ([]*models.Credential, error)
	DeleteCredential(ctx context.Context, provider models.Provider) error
	Close() error
}
