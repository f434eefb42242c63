// Package staleness implements the Staleness Selector (spec §4.7): a
// read-only narrowing of each stage's work set, consulting the store for
// records whose last_checked is absent or older than a threshold. It
// never writes; it returns the narrowed list to the stage worker.
package staleness

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/mentone-hv/hv-sync/internal/domain"
	"github.com/mentone-hv/hv-sync/internal/store"
)

// Selector narrows stage work sets against a read-only store view.
type Selector struct {
	store *store.Store
}

// New builds a Selector over st.
func New(st *store.Store) *Selector {
	return &Selector{store: st}
}

// Options carries the caller selectors named in spec §6's per-stage HTTP
// trigger surface: team_id, comp_id, grade_id, days, limit_teams,
// limit_games, mentone_only, force_update.
type Options struct {
	TeamID      string
	CompID      string
	GradeID     string
	Days        int
	LimitTeams  int
	LimitGames  int
	MentoneOnly bool
	ForceUpdate bool
}

// StaleGrades returns grades whose last_checked is absent or older than
// threshold, for the Teams stage's incremental work selection.
func (sel *Selector) StaleGrades(ctx context.Context, threshold time.Duration) ([]domain.Grade, error) {
	cutoff := time.Now().UTC().Add(-threshold)
	var out []domain.Grade
	err := sel.store.Stale(ctx, store.Grades, cutoff, func(id string, body []byte) error {
		var g domain.Grade
		if err := json.Unmarshal(body, &g); err != nil {
			return err
		}
		out = append(out, g)
		return nil
	})
	return out, err
}

// GamesNeedingResults returns games scheduled in the past staleDays days
// that are not yet in a terminal state, for the Results stage, per spec
// §4.7. force_update bypasses the terminal-state filter entirely.
func (sel *Selector) GamesNeedingResults(ctx context.Context, staleDays int, opts Options) ([]domain.Game, error) {
	cutoff := time.Now().UTC()
	oldest := cutoff.AddDate(0, 0, -staleDays)

	var out []domain.Game
	err := sel.store.List(ctx, store.Games, func(id string, body []byte) error {
		var g domain.Game
		if err := json.Unmarshal(body, &g); err != nil {
			return err
		}
		if g.ScheduledAt.After(cutoff) || g.ScheduledAt.Before(oldest) {
			return nil
		}
		if g.Status.Terminal() && !opts.ForceUpdate {
			return nil
		}
		if opts.CompID != "" && extractCompID(g.CompetitionRef) != opts.CompID {
			return nil
		}
		if opts.MentoneOnly && !g.MentonePlaying {
			return nil
		}
		out = append(out, g)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if opts.LimitGames > 0 && len(out) > opts.LimitGames {
		out = out[:opts.LimitGames]
	}
	return out, nil
}

// Teams returns the teams selected for the Players/Ladder stages, subject
// to the caller's selectors (team_id, comp_id, mentone_only, limit) — spec
// §4.7's third bullet.
func (sel *Selector) Teams(ctx context.Context, opts Options) ([]domain.Team, error) {
	var out []domain.Team
	err := sel.store.List(ctx, store.Teams, func(id string, body []byte) error {
		var t domain.Team
		if err := json.Unmarshal(body, &t); err != nil {
			return err
		}
		if opts.TeamID != "" && t.ID != opts.TeamID {
			return nil
		}
		if opts.CompID != "" && extractCompID(t.CompetitionRef) != opts.CompID {
			return nil
		}
		if opts.GradeID != "" && t.GradeID != opts.GradeID {
			return nil
		}
		if opts.MentoneOnly && !t.IsHomeClub {
			return nil
		}
		out = append(out, t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if opts.LimitTeams > 0 && len(out) > opts.LimitTeams {
		out = out[:opts.LimitTeams]
	}
	return out, nil
}

// extractCompID pulls the trailing id segment off a "competitions/{id}"
// style reference.
func extractCompID(ref string) string {
	if i := strings.LastIndexByte(ref, '/'); i >= 0 {
		return ref[i+1:]
	}
	return ref
}
