// Package handler provides HTTP handlers for the pipeline-trigger API
// surface (spec §6). Handlers hold the same run-scoped collaborators the
// CLI and poller use — a store.Store, a stage.Deps, and an
// orchestrator.Orchestrator — so all three trigger surfaces run the
// identical pipeline code path. Grounded in the teacher's
// internal/api/handler package (pgxpool-direct handlers, no service
// layer), with the cache/news/twitter dependencies replaced by the
// pipeline orchestrator this domain actually needs.
package handler

import (
	"net/http"
	"time"

	"github.com/mentone-hv/hv-sync/internal/config"
	"github.com/mentone-hv/hv-sync/internal/db"
	"github.com/mentone-hv/hv-sync/internal/orchestrator"
	"github.com/mentone-hv/hv-sync/internal/store"

	"github.com/mentone-hv/hv-sync/internal/api/respond"
)

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	db    *db.Pool
	store *store.Store
	orch  *orchestrator.Orchestrator
	cfg   *config.Config
}

// New creates a Handler with shared dependencies.
func New(pool *db.Pool, st *store.Store, orch *orchestrator.Orchestrator, cfg *config.Config) *Handler {
	return &Handler{db: pool, store: st, orch: orch, cfg: cfg}
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, status, and available modules.
// @Tags meta
// @Produce json
// @Success 200 {object} respond.Envelope
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.OK(w, map[string]interface{}{
		"name":    "hv-sync",
		"version": "1.0.0",
		"status":  "running",
		"docs":    "/docs",
		"modules": []string{"competitions", "teams", "games", "results", "players", "ladder"},
		"bundles": []string{"setup", "fixtures", "daily", "weekly", "full"},
	})
}

// HealthCheck returns basic liveness status.
// @Summary Health check
// @Description Returns basic health status and timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} respond.Envelope
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.OK(w, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies database connectivity.
// @Summary Database health check
// @Description Verifies Postgres connectivity.
// @Tags health
// @Produce json
// @Success 200 {object} respond.Envelope
// @Failure 503 {object} respond.Envelope
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if err := h.db.HealthCheck(r.Context()); err != nil {
		respond.Error(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	respond.OK(w, map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
