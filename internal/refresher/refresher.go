// Package refresher keeps the forecast page cache warm for watched zones.
package refresher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/ngmaloney/marine-outlook/internal/config"
	"github.com/ngmaloney/marine-outlook/internal/noaa"
	"github.com/ngmaloney/marine-outlook/internal/observability"
)

// maxParallelFetches bounds the zones fetched at once in a run.
const maxParallelFetches = 4

// Run outcomes recorded in the refresh_runs_total metric.
const (
	OutcomeSuccess = "success"
	OutcomePartial = "partial"
	OutcomeFailed  = "failed"
)

// Result summarizes one refresh run.
type Result struct {
	Refreshed int
	Failed    int
}

// Outcome classifies the run for metrics.
func (r Result) Outcome() string {
	switch {
	case r.Failed == 0:
		return OutcomeSuccess
	case r.Refreshed == 0:
		return OutcomeFailed
	default:
		return OutcomePartial
	}
}

// Refresher fetches every watched zone on a cron schedule.
type Refresher struct {
	client  noaa.MarineClient
	zones   []config.Zone
	logger  *slog.Logger
	metrics *observability.Metrics

	cron *cron.Cron
}

// New creates a Refresher for zones. metrics may be nil.
func New(client noaa.MarineClient, zones []config.Zone, logger *slog.Logger, metrics *observability.Metrics) *Refresher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Refresher{
		client:  client,
		zones:   zones,
		logger:  logger,
		metrics: metrics,
	}
}

// Start schedules RunOnce on schedule, a standard cron expression or a
// descriptor such as "@every 30m". Runs that would overlap are skipped.
// Scheduled runs use ctx and stop fetching when it is cancelled.
func (r *Refresher) Start(ctx context.Context, schedule string) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(schedule, func() { r.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("scheduling refresh %q: %w", schedule, err)
	}
	r.cron = c
	c.Start()
	r.logger.Info("refresher started", "schedule", schedule, "zones", len(r.zones))
	return nil
}

// Stop halts the schedule and waits for a running refresh to finish.
func (r *Refresher) Stop() {
	if r.cron == nil {
		return
	}
	<-r.cron.Stop().Done()
	r.logger.Info("refresher stopped")
}

// RunOnce fetches every zone through the client. A zone that fails is
// logged and counted; it does not stop the others.
func (r *Refresher) RunOnce(ctx context.Context) Result {
	var refreshed, failed atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelFetches)
	for _, z := range r.zones {
		g.Go(func() error {
			page, err := r.client.FetchForecastPage(ctx, z.Code, z.Synopsis)
			if err != nil {
				failed.Add(1)
				if !errors.Is(err, context.Canceled) {
					r.logger.Warn("zone refresh failed", "zone", z.Code, "error", err)
				}
				return nil
			}
			refreshed.Add(1)
			r.logger.Debug("zone refreshed", "zone", z.Code, "source", page.Source, "stale", page.Stale)
			return nil
		})
	}
	_ = g.Wait()

	res := Result{Refreshed: int(refreshed.Load()), Failed: int(failed.Load())}
	if r.metrics != nil {
		r.metrics.RefreshRuns.WithLabelValues(res.Outcome()).Inc()
	}
	r.logger.Info("refresh run complete", "refreshed", res.Refreshed, "failed", res.Failed)
	return res
}
