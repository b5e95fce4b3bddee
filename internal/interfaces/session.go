package interfaces

import (
	"context"

	"github.com/gitkamaal/devtracker/internal/models"
)

// ProfileValidator checks that a credential is live by fetching the
// provider's own-user profile. A non-nil error marks the credential
// invalid and the holding session slot is cleared.
type ProfileValidator interface {
	ValidateCredential(ctx context.Context, cred *models.Credential) (*models.UserProfile, error)
}

// ProviderStatus is the connection state of one provider slot
type ProviderStatus struct {
	Provider  models.Provider `json:"provider"`
	Connected bool            `json:"connected"`
	Loading   bool            `json:"loading"`
	Profile   *models.UserProfile `json:"profile,omitempty"`
}

// SessionService holds the current credential per provider and exposes
// connect/disconnect operations. Implementations are safe for concurrent
// use; slot writes are last-writer-wins.
type SessionService interface {
	Credential(provider models.Provider) (*models.Credential, bool)
	Connect(ctx context.Context, cred *models.Credential) (*models.UserProfile, error)
	Disconnect(ctx context.Context, provider models.Provider) error
	Refresh(ctx context.Context, provider models.Provider) (*models.Credential, error)
	Status(ctx context.Context) []ProviderStatus
}
