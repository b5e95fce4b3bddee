package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/gitkamaal/devtracker/internal/interfaces"
	"github.com/gitkamaal/devtracker/internal/models"
)

// AuthStorage implements interfaces.AuthStorage on badgerhold. Credentials
// are keyed by provider so each slot holds at most one record.
type AuthStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewAuthStorage creates a new AuthStorage instance
func NewAuthStorage(db *BadgerDB, logger arbor.ILogger) interfaces.AuthStorage {
	return &AuthStorage{
		db:     db,
		logger: logger,
	}
}

func (s *AuthStorage) StoreCredential(ctx context.Context, cred *models.Credential) error {
	if cred.Provider == "" {
		return fmt.Errorf("credential provider is required")
	}
	if cred.ID == "" {
		cred.ID = uuid.NewString()
	}

	now := time.Now().Unix()
	if cred.CreatedAt == 0 {
		cred.CreatedAt = now
	}
	cred.UpdatedAt = now

	if err := s.db.Store().Upsert(string(cred.Provider), cred); err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}

	s.logger.Debug().Str("provider", string(cred.Provider)).Str("kind", string(cred.Kind)).Msg("Credential stored")
	return nil
}

func (s *AuthStorage) GetCredential(ctx context.Context, provider models.Provider) (*models.Credential, error) {
	var cred models.Credential
	if err := s.db.Store().Get(string(provider), &cred); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}
	return &cred, nil
}

func (s *AuthStorage) ListCredentials(ctx context.Context) ([]*models.Credential, error) {
	var creds []models.Credential
	if err := s.db.Store().Find(&creds, nil); err != nil {
		return nil, fmt.Errorf("failed to list credentials: %w", err)
	}

	result := make([]*models.Credential, 0, len(creds))
	for i := range creds {
		result = append(result, &creds[i])
	}
	return result, nil
}

func (s *AuthStorage) DeleteCredential(ctx context.Context, provider models.Provider) error {
	if err := s.db.Store().Delete(string(provider), &models.Credential{}); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil // already deleted
		}
		return fmt.Errorf("failed to delete credential: %w", err)
	}

	s.logger.Debug().Str("provider", string(provider)).Msg("Credential deleted")
	return nil
}

func (s *AuthStorage) Close() error {
	return s.db.Close()
}
