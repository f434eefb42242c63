// Command poller runs the full pipeline on a cron schedule, for
// deployments that would rather not wire up an external scheduler. It
// triggers the same orchestrator.Orchestrator the CLI and HTTP server
// use.
//
// Usage:
//
//	hv-sync-poller
//	POLLER_CRON_SPEC="17 */6 * * *" hv-sync-poller
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/mentone-hv/hv-sync/internal/config"
	"github.com/mentone-hv/hv-sync/internal/db"
	"github.com/mentone-hv/hv-sync/internal/fetch"
	"github.com/mentone-hv/hv-sync/internal/orchestrator"
	"github.com/mentone-hv/hv-sync/internal/stage"
	"github.com/mentone-hv/hv-sync/internal/staleness"
	"github.com/mentone-hv/hv-sync/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	pool, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	st := store.New(pool.Pool)
	fetchClient := fetch.New(fetch.Config{
		Timeout:     cfg.FetchTimeout,
		Retries:     cfg.FetchRetries,
		Backoff:     cfg.FetchBackoff,
		PoliteDelay: cfg.PoliteDelay,
		UserAgent:   cfg.UserAgent,
	}, logger)

	deps := &stage.Deps{
		Store:            st,
		Fetch:            fetchClient,
		Stale:            staleness.New(st),
		BaseURL:          cfg.BaseURL,
		Workers:          cfg.StageWorkers,
		MaxRounds:        cfg.MaxRounds,
		StaleGradesAfter: cfg.StaleGrades,
		StaleResultsDays: cfg.StaleResults,
		FocusKeyword:     cfg.FocusKeyword,
		Log:              logger,
	}
	orch := orchestrator.New(deps, orchestrator.NewRegistry())

	runFull := func() {
		start := time.Now()
		id := "poller-" + start.UTC().Format("20060102T150405Z")
		logger.Info("poller run starting", "id", id)
		run := orch.Execute(ctx, orchestrator.RunOptions{
			ID:       id,
			Modules:  []string{"full"},
			Deadline: cfg.RunDeadline,
		})
		logger.Info("poller run finished", "id", id, "status", run.Status, "duration", time.Since(start).Round(time.Second))
	}

	c := cron.New()
	if _, err := c.AddFunc(cfg.PollerCronDay, runFull); err != nil {
		logger.Error("invalid poller cron spec", "spec", cfg.PollerCronDay, "error", err)
		os.Exit(1)
	}
	logger.Info("poller starting", "cron_spec", cfg.PollerCronDay)
	c.Start()

	<-ctx.Done()
	logger.Info("poller shutting down...")
	stopCtx := c.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(cfg.RunDeadline):
	}
	logger.Info("poller stopped")
}
