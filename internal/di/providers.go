// Package di assembles the client's long-lived dependencies.
package di

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/leap-app/leap/internal/api"
	"github.com/leap-app/leap/internal/config"
	"github.com/leap-app/leap/internal/logging"
	"github.com/leap-app/leap/internal/secrets"
	"github.com/leap-app/leap/internal/store"
)

// Overrides carries command-line flags that take precedence over the
// config file and environment.
type Overrides struct {
	ConfigPath string
	APIURL     string
	DBPath     string
}

// App holds everything a command or the TUI needs.
type App struct {
	Config   config.Config
	Logger   *slog.Logger
	Store    *store.Store
	Tokens   *secrets.TokenStore
	Client   *api.Client
	Services api.Services
}

func provideConfig(o Overrides) (config.Config, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}
	if o.APIURL != "" {
		cfg.API.BaseURL = o.APIURL
	}
	if o.DBPath != "" {
		cfg.Store.Path = o.DBPath
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func provideLogger(cfg config.Config) (*slog.Logger, func(), error) {
	logger, closeFn, err := logging.OpenFile(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { _ = closeFn() }, nil
}

func provideStore(cfg config.Config) (*store.Store, func(), error) {
	if err := store.EnsureDir(cfg.Store.Path); err != nil {
		return nil, nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	return st, func() { _ = st.Close() }, nil
}

func provideEventRepo(st *store.Store) store.EventRepo {
	return st.EventRepo()
}

func provideTokenStore(cfg config.Config) *secrets.TokenStore {
	return secrets.NewTokenStore(filepath.Dir(cfg.Store.Path))
}

// provideClient builds the API client. A token in config wins over the
// one saved by `leap login`.
func provideClient(cfg config.Config, repo store.EventRepo, logger *slog.Logger, tokens *secrets.TokenStore) *api.Client {
	token := cfg.API.Token
	if token == "" {
		saved, err := tokens.Load()
		if err != nil {
			logger.Warn("ignoring saved token", "error", err)
		}
		token = saved
	}
	return api.New(api.Config{
		BaseURL: cfg.API.BaseURL,
		Token:   token,
		Timeout: cfg.API.Timeout,
		Retry: api.RetryConfig{
			MaxAttempts: cfg.API.Retry.MaxAttempts,
			InitialWait: cfg.API.Retry.InitialWait,
			MaxWait:     cfg.API.Retry.MaxWait,
			Multiplier:  cfg.API.Retry.Multiplier,
		},
	}, repo, logger)
}

func provideServices(c *api.Client) api.Services {
	return c.Services()
}
