// Package config provides centralized configuration loaded from environment
// variables. Shared by cmd/hvsync, cmd/server, and cmd/poller.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Collection names — single source of truth, matches migrations/schema.sql
// --------------------------------------------------------------------------

const (
	CompetitionsCollection = "competitions"
	GradesCollection       = "grades"
	TeamsCollection        = "teams"
	ClubsCollection        = "clubs"
	GamesCollection        = "games"
	PlayersCollection      = "players"
	VenuesCollection       = "venues"
	LadderCacheCollection  = "ladder_cache"
)

// FocusClubSlug is the reserved, stable slug for the focus club — the one
// club whose teams/games/players this deployment cares about.
const FocusClubSlug = "mentone"

// --------------------------------------------------------------------------
// Config struct — populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Database
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Upstream site
	BaseURL       string
	FetchTimeout  time.Duration
	FetchRetries  int
	FetchBackoff  time.Duration
	PoliteDelay   time.Duration
	UserAgent     string
	MaxRounds     int
	StageWorkers  int
	BatchSize     int
	RunDeadline   time.Duration
	StaleGrades   time.Duration
	StaleResults  int // days back
	FocusKeyword  string
	PollerCronDay string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	dbURL := envOr("HV_DATABASE_URL", envOr("DATABASE_URL", ""))
	if dbURL == "" {
		return nil, fmt.Errorf("HV_DATABASE_URL or DATABASE_URL must be set")
	}

	return &Config{
		DatabaseURL:    dbURL,
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 2),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 10),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:4321",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		BaseURL:      envOr("HV_BASE_URL", "https://www.hockeyvictoria.org.au"),
		FetchTimeout: time.Duration(envInt("FETCH_TIMEOUT_SECONDS", 12)) * time.Second,
		FetchRetries: envInt("FETCH_RETRIES", 3),
		FetchBackoff: time.Duration(envInt("FETCH_BACKOFF_SECONDS", 2)) * time.Second,
		PoliteDelay:  time.Duration(envInt("POLITE_DELAY_MILLIS", 500)) * time.Millisecond,
		UserAgent:    envOr("HV_USER_AGENT", "hv-sync/1.0 (+https://github.com/mentone-hv/hv-sync)"),
		MaxRounds:    envInt("MAX_ROUNDS", 23),
		StageWorkers: envInt("STAGE_WORKERS", 3),
		BatchSize:    envInt("BATCH_SIZE", 400),
		RunDeadline:  time.Duration(envInt("RUN_DEADLINE_MINUTES", 30)) * time.Minute,
		StaleGrades:  time.Duration(envInt("STALE_GRADES_HOURS", 168)) * time.Hour,
		StaleResults: envInt("STALE_RESULTS_DAYS", 7),
		FocusKeyword: envOr("FOCUS_KEYWORD", "mentone"),

		PollerCronDay: envOr("POLLER_CRON_SPEC", "17 */6 * * *"),
	}, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
