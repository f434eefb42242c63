package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/mentone-hv/hv-sync/internal/api/handler"
	"github.com/mentone-hv/hv-sync/internal/config"
	"github.com/mentone-hv/hv-sync/internal/db"
	"github.com/mentone-hv/hv-sync/internal/orchestrator"
	"github.com/mentone-hv/hv-sync/internal/store"
)

// NewRouter creates and configures the Chi router with all middleware and
// routes. The pipeline-trigger surface (spec §6) answers through the same
// orchestrator.Orchestrator the CLI and poller use, so all three trigger
// surfaces run identical stage code.
func NewRouter(pool *db.Pool, st *store.Store, orch *orchestrator.Orchestrator, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	r.Use(middleware.Compress(5)) // gzip

	// CORS — permissive preflight handling per spec §6, since the pipeline
	// surface is triggered by a handful of trusted internal origins rather
	// than served to the public.
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "POST", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "Authorization"},
		ExposedHeaders:   []string{"X-Process-Time"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	// --- Handler dependencies ---
	h := handler.New(pool, st, orch, cfg)

	// --- Routes ---

	r.Get("/", h.Root)

	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/db", h.HealthCheckDB)
	})

	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/doc.json"),
	))

	// Pipeline trigger surface (spec §6).
	r.Post("/pipeline/{stage}", h.RunStage)
	r.Post("/pipeline/bundles/{bundle}", h.RunBundle)
	r.Post("/run-pipeline", h.RunPipeline)
	r.Get("/runs/{id}", h.GetRun)

	return r
}
