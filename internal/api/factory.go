package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/leap-app/leap/internal/store"
)

// Config holds everything needed to build a Client.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	Retry   RetryConfig
	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
}

// New creates a Client wrapped with retry and logging middleware.
func New(cfg Config, eventRepo store.EventRepo, logger *slog.Logger) *Client {
	var opts []Option
	if cfg.HTTPClient != nil {
		opts = append(opts, WithHTTPClient(cfg.HTTPClient))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, WithTimeout(cfg.Timeout))
	}
	if cfg.Token != "" {
		opts = append(opts, WithToken(cfg.Token))
	}
	base := NewHTTPTransport(cfg.BaseURL, opts...)

	// Wrap with middleware: caller → retry → logging → base
	logged := WithLogging(base, eventRepo, logger)
	retried := WithRetry(logged, cfg.Retry)

	return NewClient(retried)
}
