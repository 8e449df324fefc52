package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/ngmaloney/marine-outlook/internal/config"
	"github.com/ngmaloney/marine-outlook/internal/database"
	"github.com/ngmaloney/marine-outlook/internal/forecast"
	"github.com/ngmaloney/marine-outlook/internal/noaa"
	"github.com/ngmaloney/marine-outlook/internal/observability"
	"github.com/ngmaloney/marine-outlook/internal/refresher"
	"github.com/ngmaloney/marine-outlook/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	pages := database.NewPageStore(db, clock)

	client := noaa.NewMarineClient(
		noaa.WithBaseURL(cfg.NOAABaseURL),
		noaa.WithUserAgent(cfg.NOAAUserAgent),
		noaa.WithTimeout(cfg.FetchTimeout),
		noaa.WithRatePerMinute(cfg.FetchRatePerMinute),
		noaa.WithCache(pages, cfg.CacheTTL),
		noaa.WithClock(clock),
		noaa.WithLogger(logger),
		noaa.WithMetrics(metrics),
	)
	builder := forecast.NewBuilder(
		forecast.WithClock(clock),
		forecast.WithMetrics(metrics),
	)

	srv := server.NewServer(cfg.HTTPAddr, client, builder, logger)
	ref := refresher.New(client, cfg.Zones, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Warm the cache, then keep it warm on schedule.
	go ref.RunOnce(ctx)
	if err := ref.Start(ctx, cfg.RefreshSchedule); err != nil {
		logger.Error("refresher error", "error", err)
		stop()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	ref.Stop()
	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("shutdown complete")
}
