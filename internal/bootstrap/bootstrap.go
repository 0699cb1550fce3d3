// Package bootstrap wires the pieces every binary needs: the credential
// store, the restored session, the API client and the shared state.
package bootstrap

import (
	"fmt"

	"go.uber.org/zap"

	"mylibrary/internal/adapters/apiclient"
	"mylibrary/internal/adapters/sqlite"
	"mylibrary/internal/application"
	"mylibrary/internal/config"
	"mylibrary/internal/logging"
	"mylibrary/internal/ports"
)

// Runtime holds the wired application for one process
type Runtime struct {
	Config config.Config
	Logger *zap.Logger
	State  *application.State

	store *sqlite.CredentialStore
}

// Open builds a Runtime. API failures are reported to notifier; the
// persisted credential is restored, dropping it if it has expired.
func Open(cfg config.Config, notifier ports.Notifier) (*Runtime, error) {
	logger := logging.NewOrNop(cfg.LogLevel, cfg.LogPath())

	store, err := sqlite.Open(cfg.DataDir)
	if err != nil {
		logger.Sync()
		return nil, fmt.Errorf("failed to open credential store: %w", err)
	}

	session := application.NewSession(store)
	if err := session.Restore(); err != nil {
		logger.Warn("could not restore session", zap.Error(err))
	}

	client := apiclient.New(cfg.APIURL, session,
		apiclient.WithTimeout(cfg.HTTPTimeout),
		apiclient.WithNotifier(notifier),
		apiclient.WithLogger(logger),
	)

	logger.Info("runtime ready",
		zap.String("api", cfg.APIURL),
		zap.String("store", store.Path()),
		zap.Bool("signed_in", session.HasCredential()),
	)

	return &Runtime{
		Config: cfg,
		Logger: logger,
		State:  application.NewState(client, session, notifier, cfg.PublicURL),
		store:  store,
	}, nil
}

// Close releases the credential store and flushes the log
func (r *Runtime) Close() error {
	err := r.store.Close()
	_ = r.Logger.Sync()
	return err
}
