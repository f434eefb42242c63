// Package stage implements the six dependency-ordered stage workers (spec
// §4.5): competitions, teams, games, results, players, ladder. Each is a
// self-contained procedure (storage, http, options) -> Outcome, combining
// a Fetcher + Extractor + Classifier + reconciliation write for one
// entity kind. The bounded intra-stage worker pool is grounded in the
// teacher's fixture.ProcessPending (internal/fixture/scheduler.go),
// generalized from "seed one fixture group per worker" to "process one
// work item per worker" across all six stages.
package stage

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/mentone-hv/hv-sync/internal/fetch"
	"github.com/mentone-hv/hv-sync/internal/staleness"
	"github.com/mentone-hv/hv-sync/internal/store"
)

// Name identifies one of the six canonical stages.
type Name string

const (
	Competitions Name = "competitions"
	Teams        Name = "teams"
	Games        Name = "games"
	Results      Name = "results"
	Players      Name = "players"
	Ladder       Name = "ladder"
)

// Order is the canonical dependency order from spec §4.6.
var Order = []Name{Competitions, Teams, Games, Results, Players, Ladder}

// Critical reports whether a stage's failure must abort the run (spec
// §4.6: "if a critical stage (competitions or teams) fails, mark the
// whole run failed").
func (n Name) Critical() bool {
	return n == Competitions || n == Teams
}

// Outcome is the result every stage procedure returns, per spec §4.5.
type Outcome struct {
	Stage     Name
	OkCount   int
	ErrCount  int
	Duration  time.Duration
	Warnings  []string
	FatalErr  error
}

// Options carries the three orthogonal per-stage options from spec §4.5
// (dry_run, limit, stage-specific selector) plus the caller selectors
// named in spec §6.
type Options struct {
	DryRun      bool
	Limit       int
	TeamID      string
	CompID      string
	GradeID     string
	Days        int
	MentoneOnly bool
	ForceUpdate bool
}

func (o Options) toStaleness() staleness.Options {
	return staleness.Options{
		TeamID:      o.TeamID,
		CompID:      o.CompID,
		GradeID:     o.GradeID,
		Days:        o.Days,
		LimitTeams:  o.Limit,
		LimitGames:  o.Limit,
		MentoneOnly: o.MentoneOnly,
		ForceUpdate: o.ForceUpdate,
	}
}

// Deps bundles the shared, run-scoped collaborators every stage needs:
// one fetch.Client and one store.Store reused across the whole run (spec
// §4.1/§4.6's shared-resource policy), plus run-wide tunables.
type Deps struct {
	Store            *store.Store
	Fetch            *fetch.Client
	Stale            *staleness.Selector
	BaseURL          string
	Workers          int
	MaxRounds        int
	StaleGradesAfter time.Duration
	StaleResultsDays int
	FocusKeyword     string
	Log              *slog.Logger
}

func (d *Deps) logger() *slog.Logger {
	if d.Log != nil {
		return d.Log
	}
	return slog.Default()
}

func (d *Deps) workers() int {
	if d.Workers > 0 {
		return d.Workers
	}
	return 3
}

func (d *Deps) maxRounds() int {
	if d.MaxRounds > 0 {
		return d.MaxRounds
	}
	return 23
}

func (d *Deps) staleGradesAfter() time.Duration {
	if d.StaleGradesAfter > 0 {
		return d.StaleGradesAfter
	}
	return 7 * 24 * time.Hour
}

func (d *Deps) staleResultsDays() int {
	if d.StaleResultsDays > 0 {
		return d.StaleResultsDays
	}
	return 7
}

func (d *Deps) focusKeyword() string {
	if d.FocusKeyword != "" {
		return d.FocusKeyword
	}
	return "mentone"
}

// Run dispatches to the named stage's procedure, generalizing the
// teacher's seedNBAFixture/seedNFLFixture/seedFootballFixture
// dispatch-by-sport switch (internal/fixture/seed.go) into a
// dispatch-by-stage-name switch.
func Run(ctx context.Context, name Name, deps *Deps, opts Options) Outcome {
	start := time.Now()
	var outcome Outcome
	switch name {
	case Competitions:
		outcome = runCompetitions(ctx, deps, opts)
	case Teams:
		outcome = runTeams(ctx, deps, opts)
	case Games:
		outcome = runGames(ctx, deps, opts)
	case Results:
		outcome = runResults(ctx, deps, opts)
	case Players:
		outcome = runPlayers(ctx, deps, opts)
	case Ladder:
		outcome = runLadder(ctx, deps, opts)
	default:
		outcome = Outcome{FatalErr: errUnknownStage(name)}
	}
	outcome.Stage = name
	outcome.Duration = time.Since(start)
	return outcome
}

type unknownStageError string

func (e unknownStageError) Error() string { return "unknown stage: " + string(e) }

func errUnknownStage(n Name) error { return unknownStageError(n) }

// CriticalStageError reports a critical stage (competitions or teams)
// producing zero useful output — e.g. the competitions index page
// parsed cleanly but yielded no competitions. Spec §7 treats this the
// same as a fetch failure: the orchestrator must mark the whole run
// failed rather than let later stages run against an empty dataset.
type CriticalStageError struct {
	Stage  Name
	Detail string
}

func (e CriticalStageError) Error() string {
	return "critical stage " + string(e.Stage) + " produced no output: " + e.Detail
}

func errCriticalStageEmpty(n Name, detail string) error {
	return CriticalStageError{Stage: n, Detail: detail}
}

// clubKeyFor mirrors the original discover_teams.py's club-key derivation:
// lowercase, alphanumerics only, used to key Club documents. is_home_club
// is decided separately, by isFocusClub on the club name.
func clubKeyFor(clubName string) string {
	out := make([]byte, 0, len(clubName))
	for _, r := range clubName {
		lower := r
		if r >= 'A' && r <= 'Z' {
			lower = r + ('a' - 'A')
		}
		if (lower >= 'a' && lower <= 'z') || (lower >= '0' && lower <= '9') {
			out = append(out, byte(lower))
		}
	}
	if len(out) == 0 {
		return "unknown"
	}
	return string(out)
}

func isFocusClub(clubName, focusKeyword string) bool {
	return strings.Contains(strings.ToLower(clubName), strings.ToLower(focusKeyword))
}

// refFor builds a "{collection}/{id}" cross-entity reference, stored as a
// string document-path per spec §4.4.
func refFor(collection, id string) string {
	return collection + "/" + id
}
