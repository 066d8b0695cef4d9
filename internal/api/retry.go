package api

import (
	"context"
	"math"
	"math/rand/v2"
	"net/http"
	"time"
)

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultRetryConfig returns the retry policy used when none is configured.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 300 * time.Millisecond,
		MaxWait:     3 * time.Second,
		Multiplier:  2.0,
	}
}

// RetryTransport is a decorator that retries idempotent requests on
// transient errors with exponential backoff and jitter. Writes are never
// retried so a submission is sent at most once per user action.
type RetryTransport struct {
	inner  Transport
	config RetryConfig
}

// WithRetry wraps a Transport with retry logic.
func WithRetry(t Transport, cfg RetryConfig) Transport {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &RetryTransport{inner: t, config: cfg}
}

func (r *RetryTransport) Do(ctx context.Context, req Request) (*Response, error) {
	var lastErr error

	for attempt := range r.config.MaxAttempts {
		resp, err := r.inner.Do(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !r.shouldRetry(req, err) {
			return nil, err
		}

		// Last attempt: return the error without sleeping.
		if attempt == r.config.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.backoff(attempt)):
		}
	}

	return nil, lastErr
}

// shouldRetry determines if an error is retryable for this request.
func (r *RetryTransport) shouldRetry(req Request, err error) bool {
	if req.Method != http.MethodGet {
		return false
	}

	// Context errors are never retried.
	if IsContext(err) {
		return false
	}

	if IsNetwork(err) {
		return true
	}

	// Server-side trouble and rate limits are transient; other 4xx are not.
	if code, ok := IsProtocol(err); ok {
		return code >= 500 || code == http.StatusTooManyRequests
	}

	return false
}

// backoff computes the wait duration for the given attempt.
func (r *RetryTransport) backoff(attempt int) time.Duration {
	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	if wait > float64(r.config.MaxWait) {
		wait = float64(r.config.MaxWait)
	}

	// Add ±20% jitter.
	jitter := wait * 0.2 * (2*rand.Float64() - 1)
	wait += jitter

	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
