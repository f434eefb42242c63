// Command server is the hv-sync HTTP trigger server.
//
// Usage:
//
//	hv-sync-server
//	API_PORT=8080 hv-sync-server
//
// @title hv-sync API
// @version 1.0.0
// @description Hockey Victoria ingestion pipeline trigger surface: runs the six-stage pipeline on demand over HTTP.
// @host localhost:8000
// @BasePath /
// @schemes http https
// @license.name MIT
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/mentone-hv/hv-sync/internal/api"
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

	logger.Info("connecting to database...")
	pool, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("database connected", "min_conns", cfg.DBPoolMinConns, "max_conns", cfg.DBPoolMaxConns)

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

	router := api.NewRouter(pool, st, orch, cfg)

	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RunDeadline + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting hv-sync server",
			"addr", addr,
			"environment", cfg.Environment,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	logger.Info("server stopped")
}
