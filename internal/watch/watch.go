// Package watch polls the backend health endpoint on a cron schedule.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/leap-app/leap/internal/api"
)

// Result is the outcome of one probe.
type Result struct {
	At     time.Time
	Status *api.HealthStatus
	Err    error
}

// Watcher runs health probes once immediately and then on schedule.
type Watcher struct {
	cron     *cron.Cron
	checker  api.HealthChecker
	schedule string
	timeout  time.Duration
	report   func(Result)
	logger   *slog.Logger
}

// New creates a watcher. schedule is a standard 5-field cron spec or a
// descriptor such as "@every 30s".
func New(checker api.HealthChecker, schedule string, timeout time.Duration, report func(Result), logger *slog.Logger) *Watcher {
	return &Watcher{
		cron:     cron.New(),
		checker:  checker,
		schedule: schedule,
		timeout:  timeout,
		report:   report,
		logger:   logger,
	}
}

// Validate reports whether spec parses as a schedule.
func Validate(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return nil
}

// Run probes until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if _, err := w.cron.AddFunc(w.schedule, func() { w.probe(ctx) }); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", w.schedule, err)
	}

	w.probe(ctx)

	w.logger.Info("starting health watch", "cron", w.schedule)
	w.cron.Start()

	<-ctx.Done()
	stopCtx := w.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(5 * time.Second):
	}
	w.logger.Info("health watch stopped")
	return nil
}

func (w *Watcher) probe(parent context.Context) {
	if parent.Err() != nil {
		return
	}
	ctx, cancel := context.WithTimeout(api.WithOrigin(parent, "cli.health.watch"), w.timeout)
	defer cancel()

	status, err := w.checker.Health(ctx)
	if err != nil {
		w.logger.Warn("health probe failed", "error", err)
	}
	w.report(Result{At: time.Now(), Status: status, Err: err})
}
