package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/leap-app/leap/internal/store"
)

// LoggingTransport is a decorator that records every request attempt as a
// store event and a log line.
type LoggingTransport struct {
	inner     Transport
	eventRepo store.EventRepo
	logger    *slog.Logger
}

// WithLogging wraps a Transport with event logging. A nil repo only logs.
func WithLogging(t Transport, repo store.EventRepo, logger *slog.Logger) Transport {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingTransport{inner: t, eventRepo: repo, logger: logger}
}

func (l *LoggingTransport) Do(ctx context.Context, req Request) (*Response, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	start := time.Now()

	resp, err := l.inner.Do(ctx, req)

	data := store.RequestEventData{
		RequestID: req.ID,
		Method:    req.Method,
		Path:      req.Path,
		Origin:    OriginFrom(ctx),
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}
	if resp != nil {
		data.StatusCode = resp.StatusCode
	}
	if code, ok := IsProtocol(err); ok {
		data.StatusCode = code
	}
	if err != nil {
		data.ErrorMessage = err.Error()
		l.logger.Warn("api request failed",
			"method", req.Method,
			"path", req.Path,
			"status", data.StatusCode,
			"request_id", req.ID,
			"duration_ms", data.LatencyMs,
			"error", err,
		)
	} else {
		l.logger.Debug("api request",
			"method", req.Method,
			"path", req.Path,
			"status", data.StatusCode,
			"request_id", req.ID,
			"duration_ms", data.LatencyMs,
		)
	}

	// Record the event but don't fail the request if recording fails.
	if l.eventRepo != nil {
		if logErr := l.eventRepo.AppendRequest(context.WithoutCancel(ctx), data); logErr != nil {
			l.logger.Warn("failed to record request event", "error", logErr)
		}
	}

	return resp, err
}
