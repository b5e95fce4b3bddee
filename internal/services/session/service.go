package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/ternarybob/arbor"

	"github.com/gitkamaal/devtracker/internal/common"
	"github.com/gitkamaal/devtracker/internal/interfaces"
	"github.com/gitkamaal/devtracker/internal/models"
)

// Refresher exchanges a refresh token for new tokens (Atlassian only)
type Refresher interface {
	Refresh(ctx context.Context, cred *models.Credential) (*models.Credential, error)
}

// Service is the session state container: one credential slot per
// provider, restored from storage on start and persisted on change. It is
// passed by handle into handlers and fetchers; there is no ambient global
// session. Slot writes are last-writer-wins under the container mutex.
type Service struct {
	mu    sync.RWMutex
	slots map[models.Provider]*slot

	// refresh is serialized per provider; it is idempotent but not
	// reentrant against the upstream token endpoint
	refreshMu map[models.Provider]*sync.Mutex

	storage    interfaces.AuthStorage
	validators map[models.Provider]interfaces.ProfileValidator
	refresher  Refresher
	logger     arbor.ILogger
}

type slot struct {
	cred    *models.Credential
	profile *models.UserProfile
	loading bool
}

// NewService creates an empty session container. Call Restore to load
// persisted credentials.
func NewService(storage interfaces.AuthStorage, validators map[models.Provider]interfaces.ProfileValidator, refresher Refresher, logger arbor.ILogger) *Service {
	refreshMu := make(map[models.Provider]*sync.Mutex, len(models.AllProviders))
	for _, p := range models.AllProviders {
		refreshMu[p] = &sync.Mutex{}
	}
	return &Service{
		slots:      make(map[models.Provider]*slot),
		refreshMu:  refreshMu,
		storage:    storage,
		validators: validators,
		refresher:  refresher,
		logger:     logger,
	}
}

// Restore loads persisted credentials and re-validates each one in
// parallel. A credential that fails profile validation is treated as an
// invalid-session signal: the slot stays empty and the stored record is
// removed.
func (s *Service) Restore(ctx context.Context) error {
	creds, err := s.storage.ListCredentials(ctx)
	if err != nil {
		return fmt.Errorf("failed to load stored credentials: %w", err)
	}

	var wg sync.WaitGroup
	for _, cred := range creds {
		cred := cred
		wg.Add(1)
		common.SafeGo(s.logger, "session-restore-"+string(cred.Provider), func() {
			defer wg.Done()

			profile, err := s.validate(ctx, cred)
			if err != nil {
				s.logger.Warn().
					Err(err).
					Str("provider", string(cred.Provider)).
					Msg("Stored credential failed validation, clearing")
				s.clear(ctx, cred.Provider)
				return
			}

			s.set(cred, profile)
			s.logger.Info().
				Str("provider", string(cred.Provider)).
				Str("account", profile.DisplayName).
				Msg("Session restored")
		})
	}
	wg.Wait()

	return nil
}

// Credential returns the current credential for a provider, if connected
func (s *Service) Credential(provider models.Provider) (*models.Credential, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	slot, ok := s.slots[provider]
	if !ok || slot.cred == nil {
		return nil, false
	}
	return slot.cred, true
}

// Connect validates a credential against the provider's own-user profile,
// then persists it and fills the slot. A failing validation leaves the
// slot untouched and surfaces the invalid-session signal.
func (s *Service) Connect(ctx context.Context, cred *models.Credential) (*models.UserProfile, error) {
	profile, err := s.validate(ctx, cred)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrSessionInvalid, err)
	}

	if err := s.storage.StoreCredential(ctx, cred); err != nil {
		return nil, err
	}
	s.set(cred, profile)

	s.logger.Info().
		Str("provider", string(cred.Provider)).
		Str("account", profile.DisplayName).
		Msg("Provider connected")

	return profile, nil
}

// Disconnect clears the slot and the persisted record
func (s *Service) Disconnect(ctx context.Context, provider models.Provider) error {
	if err := s.storage.DeleteCredential(ctx, provider); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.slots, provider)
	s.mu.Unlock()

	s.logger.Info().Str("provider", string(provider)).Msg("Provider disconnected")
	return nil
}

// Refresh runs the refresh-token exchange for a provider's credential.
// Refreshes for the same provider are serialized. A failed refresh clears
// the slot: a stale credential must not linger as authenticated.
func (s *Service) Refresh(ctx context.Context, provider models.Provider) (*models.Credential, error) {
	mu, ok := s.refreshMu[provider]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
	mu.Lock()
	defer mu.Unlock()

	cred, connected := s.Credential(provider)
	if !connected {
		return nil, fmt.Errorf("provider %s is not connected", provider)
	}
	if !cred.Refreshable() {
		return nil, fmt.Errorf("credential for %s is not refreshable", provider)
	}

	refreshed, err := s.refresher.Refresh(ctx, cred)
	if err != nil {
		s.logger.Warn().Err(err).Str("provider", string(provider)).Msg("Token refresh failed, clearing session")
		s.clear(ctx, provider)
		return nil, fmt.Errorf("%w: %v", common.ErrSessionInvalid, err)
	}

	if err := s.storage.StoreCredential(ctx, refreshed); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if existing, ok := s.slots[provider]; ok {
		existing.cred = refreshed
	} else {
		s.slots[provider] = &slot{cred: refreshed}
	}
	s.mu.Unlock()

	return refreshed, nil
}

// Status reports per-provider connection state in a stable order
func (s *Service) Status(ctx context.Context) []interfaces.ProviderStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	statuses := make([]interfaces.ProviderStatus, 0, len(models.AllProviders))
	for _, provider := range models.AllProviders {
		status := interfaces.ProviderStatus{Provider: provider}
		if slot, ok := s.slots[provider]; ok && slot.cred != nil {
			status.Connected = true
			status.Loading = slot.loading
			status.Profile = slot.profile
		}
		statuses = append(statuses, status)
	}
	return statuses
}

func (s *Service) validate(ctx context.Context, cred *models.Credential) (*models.UserProfile, error) {
	validator, ok := s.validators[cred.Provider]
	if !ok {
		return nil, fmt.Errorf("no validator registered for provider %s", cred.Provider)
	}
	return validator.ValidateCredential(ctx, cred)
}

func (s *Service) set(cred *models.Credential, profile *models.UserProfile) {
	s.mu.Lock()
	s.slots[cred.Provider] = &slot{cred: cred, profile: profile}
	s.mu.Unlock()
}

// clear removes the slot and best-effort deletes the stored record
func (s *Service) clear(ctx context.Context, provider models.Provider) {
	s.mu.Lock()
	delete(s.slots, provider)
	s.mu.Unlock()

	if err := s.storage.DeleteCredential(ctx, provider); err != nil {
		s.logger.Warn().Err(err).Str("provider", string(provider)).Msg("Failed to delete stored credential")
	}
}

var _ interfaces.SessionService = (*Service)(nil)
