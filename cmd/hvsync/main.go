// Command hvsync is the Hockey Victoria ingestion pipeline CLI.
//
// Usage:
//
//	hvsync run full
//	hvsync run setup
//	hvsync run daily --mentone-only
//	hvsync run results --comp-id 45678 --days 7
//	hvsync run ladder --team-id 337089 --dry-run
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mentone-hv/hv-sync/internal/config"
	"github.com/mentone-hv/hv-sync/internal/db"
	"github.com/mentone-hv/hv-sync/internal/fetch"
	"github.com/mentone-hv/hv-sync/internal/orchestrator"
	"github.com/mentone-hv/hv-sync/internal/stage"
	"github.com/mentone-hv/hv-sync/internal/staleness"
	"github.com/mentone-hv/hv-sync/internal/store"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "hvsync",
		Short: "Hockey Victoria ingestion pipeline CLI",
	}
	root.AddCommand(runCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	var (
		teamID      string
		compID      string
		gradeID     string
		days        int
		limit       int
		mentoneOnly bool
		forceUpdate bool
		dryRun      bool
	)
	cmd := &cobra.Command{
		Use:   "run [modules...]",
		Short: "Run one or more stages/bundles (setup, fixtures, daily, weekly, full, or a stage name)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			pool, err := db.New(ctx, cfg)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
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

			start := time.Now()
			run := orch.Execute(ctx, orchestrator.RunOptions{
				ID:       fmt.Sprintf("cli-%d", start.UnixNano()),
				Modules:  args,
				DryRun:   dryRun,
				Deadline: cfg.RunDeadline,
				Stage: stage.Options{
					DryRun:      dryRun,
					Limit:       limit,
					TeamID:      teamID,
					CompID:      compID,
					GradeID:     gradeID,
					Days:        days,
					MentoneOnly: mentoneOnly,
					ForceUpdate: forceUpdate,
				},
			})

			for _, s := range run.Stages {
				logger.Info("stage finished",
					"stage", s.Stage, "ok", s.OkCount, "errors", s.ErrCount,
					"duration", s.Duration.Round(time.Millisecond), "skipped", s.Skipped)
			}
			logger.Info("run finished", "status", run.Status, "duration", time.Since(start).Round(time.Second))

			switch run.Status {
			case orchestrator.StatusCompleted:
				return nil
			case orchestrator.StatusFailed:
				if run.Reason == "cancelled" {
					os.Exit(130)
				}
				os.Exit(1)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&teamID, "team-id", "", "Restrict to a single team by Hockey Victoria id")
	cmd.Flags().StringVar(&compID, "comp-id", "", "Restrict to a single competition by id")
	cmd.Flags().StringVar(&gradeID, "grade-id", "", "Restrict to a single grade (fixture id) by id")
	cmd.Flags().IntVar(&days, "days", 0, "Override the staleness window in days")
	cmd.Flags().IntVar(&limit, "limit", 0, "Cap the number of work items processed")
	cmd.Flags().BoolVar(&mentoneOnly, "mentone-only", false, "Restrict to the focus club's teams/games")
	cmd.Flags().BoolVar(&forceUpdate, "force-update", false, "Bypass the staleness/terminal-state filters")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Fetch and extract without writing")
	return cmd
}
