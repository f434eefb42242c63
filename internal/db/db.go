// Package db provides a pgxpool-based connection pool with prepared statement
// registration and health checking.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mentone-hv/hv-sync/internal/config"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// registerPreparedStatements registers the statements the store and staleness
// selector issue against the documents table. Every collection lives in that
// one table (collection, id, body jsonb, last_checked), so the generic
// statements take the collection name as a parameter; a few
// collection-specific queries name their collection in the SQL itself.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		"health_check": "SELECT 1",

		"get_document":         "SELECT body FROM documents WHERE collection = $1 AND id = $2",
		"list_documents":       "SELECT id, body FROM documents WHERE collection = $1 ORDER BY id",
		"stale_documents":      "SELECT id, body FROM documents WHERE collection = $1 AND (last_checked IS NULL OR last_checked < $2)",
		"games_for_results":    "SELECT id, body FROM documents WHERE collection = 'games' AND (body->>'scheduled_at')::timestamptz < $1 AND NOT (body->>'status' = ANY($2))",
		"teams_by_grade":       "SELECT id, body FROM documents WHERE collection = 'teams' AND body->>'grade_id' = $1",
		"teams_focus_club":     "SELECT id, body FROM documents WHERE collection = 'teams' AND (body->>'is_home_club')::boolean = true",
		"grades_by_comp":       "SELECT id, body FROM documents WHERE collection = 'grades' AND body->>'parent_comp_id' = $1",
		"run_progress_upsert":  "INSERT INTO pipeline_runs (id, started_at, mode, status, progress) VALUES ($1,$2,$3,$4,$5) ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status, progress = EXCLUDED.progress",
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
