package app

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/gitkamaal/devtracker/internal/common"
	"github.com/gitkamaal/devtracker/internal/handlers"
	"github.com/gitkamaal/devtracker/internal/httpclient"
	"github.com/gitkamaal/devtracker/internal/interfaces"
	"github.com/gitkamaal/devtracker/internal/models"
	"github.com/gitkamaal/devtracker/internal/services/atlassian"
	"github.com/gitkamaal/devtracker/internal/services/bitbucket"
	"github.com/gitkamaal/devtracker/internal/services/github"
	"github.com/gitkamaal/devtracker/internal/services/oauth"
	"github.com/gitkamaal/devtracker/internal/services/session"
	"github.com/gitkamaal/devtracker/internal/storage/badger"
)

// App holds the wired application dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	AuthStorage interfaces.AuthStorage
	Session     interfaces.SessionService

	APIHandler      *handlers.APIHandler
	ProxyHandler    *handlers.ProxyHandler
	OAuthHandler    *handlers.OAuthHandler
	SessionHandler  *handlers.SessionHandler
	ActivityHandler *handlers.ActivityHandler
}

// New wires storage, services and handlers, then restores any persisted
// session state.
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	db, err := badger.NewBadgerDB(logger, &cfg.Storage.Badger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	authStorage := badger.NewAuthStorage(db, logger)

	client := httpclient.New(30 * time.Second)

	atlassianService := atlassian.NewService(client, logger)
	githubService := github.NewService(logger)
	bitbucketService := bitbucket.NewService(client, logger)
	oauthService := oauth.NewService(cfg, client, logger)

	validators := map[models.Provider]interfaces.ProfileValidator{
		models.ProviderGitHub:    githubService,
		models.ProviderAtlassian: atlassianService,
		models.ProviderJira:      atlassianService,
		models.ProviderBitbucket: bitbucketService,
	}

	sessionService := session.NewService(authStorage, validators, oauthService, logger)

	restoreCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := sessionService.Restore(restoreCtx); err != nil {
		logger.Warn().Err(err).Msg("Session restore failed, starting disconnected")
	}

	return &App{
		Config:          cfg,
		Logger:          logger,
		AuthStorage:     authStorage,
		Session:         sessionService,
		APIHandler:      handlers.NewAPIHandler(),
		ProxyHandler:    handlers.NewProxyHandler(client, logger),
		OAuthHandler:    handlers.NewOAuthHandler(oauthService, sessionService, logger),
		SessionHandler:  handlers.NewSessionHandler(sessionService, logger),
		ActivityHandler: handlers.NewActivityHandler(sessionService, atlassianService, githubService, bitbucketService, logger),
	}, nil
}

// Close releases application resources
func (a *App) Close() error {
	if a.AuthStorage != nil {
		return a.AuthStorage.Close()
	}
	return nil
}
