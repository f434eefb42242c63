package stage

import (
	"context"
	"strconv"
	"time"

	"github.com/mentone-hv/hv-sync/internal/domain"
	"github.com/mentone-hv/hv-sync/internal/extract"
	"github.com/mentone-hv/hv-sync/internal/fetch"
	"github.com/mentone-hv/hv-sync/internal/store"
)

// runGames iterates rounds 1..N of each selected grade (default: every
// grade with a focus-club team), extracting and upserting Games, per spec
// §4.5 stage 3. Scanning a grade stops after three consecutive empty
// rounds.
func runGames(ctx context.Context, deps *Deps, opts Options) Outcome {
	teams, err := deps.Stale.Teams(ctx, opts.toStaleness())
	if err != nil {
		return Outcome{ErrCount: 1, Warnings: []string{err.Error()}}
	}

	gradeIDs := distinctFocusGradeIDs(teams, opts)
	if opts.Limit > 0 && len(gradeIDs) > opts.Limit {
		gradeIDs = gradeIDs[:opts.Limit]
	}

	ok, fail, warnings := workItems(deps.workers(), gradeIDs, func(gradeID string) (bool, string) {
		n, warn := scanGradeRounds(ctx, deps, opts, gradeID)
		if warn != "" {
			return n > 0, warn
		}
		return true, ""
	})

	return Outcome{OkCount: ok, ErrCount: fail, Warnings: warnings}
}

// distinctFocusGradeIDs extracts the unique grade ids among the teams the
// staleness selector returned (focus-club teams, or the caller's subset).
func distinctFocusGradeIDs(teams []domain.Team, opts Options) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, t := range teams {
		if !opts.MentoneOnly && opts.TeamID == "" && !t.IsHomeClub {
			continue
		}
		if t.GradeID == "" || seen[t.GradeID] {
			continue
		}
		seen[t.GradeID] = true
		ids = append(ids, t.GradeID)
	}
	return ids
}

// scanGradeRounds walks rounds 1..maxRounds for one grade, terminating
// after three consecutive rounds with no game cards. comp_id is recovered
// from the grade document itself.
func scanGradeRounds(ctx context.Context, deps *Deps, opts Options, gradeID string) (written int, warning string) {
	var grade domain.Grade
	if err := deps.Store.Get(ctx, store.Grades, gradeID, &grade); err != nil {
		return 0, "grade " + gradeID + ": " + err.Error()
	}

	emptyStreak := 0
	now := time.Now().UTC()

	for round := 1; round <= deps.maxRounds(); round++ {
		url := deps.BaseURL + "/games/" + grade.ParentCompID + "/" + gradeID + "/round/" + strconv.Itoa(round)
		res := deps.Fetch.Fetch(ctx, url)
		if res.Kind != fetch.KindOk {
			emptyStreak++
			if emptyStreak >= 3 {
				break
			}
			continue
		}

		cards, warnings := extract.Round(res.Body, round)
		if len(cards) == 0 {
			emptyStreak++
			if emptyStreak >= 3 {
				break
			}
			continue
		}
		emptyStreak = 0

		for _, w := range warnings {
			warning = w.Error()
		}

		for _, card := range cards {
			game := gameFromCard(card, grade, deps.focusKeyword(), now)
			if opts.DryRun {
				written++
				continue
			}
			if err := deps.Store.UpsertGame(ctx, game); err != nil {
				warning = err.Error()
				continue
			}
			written++
		}
	}

	return written, warning
}

func gameFromCard(card extract.GameCard, grade domain.Grade, focusKeyword string, now time.Time) domain.Game {
	home := domain.TeamRef{ID: card.Home.HVID, Name: card.Home.Name, Ref: refFor("teams", card.Home.HVID)}
	away := domain.TeamRef{ID: card.Away.HVID, Name: card.Away.Name, Ref: refFor("teams", card.Away.HVID)}

	status := domain.StatusScheduled
	if card.HomeScore != nil && card.AwayScore != nil {
		status = domain.StatusCompleted
	} else if card.StatusToken != "" {
		status = domain.GameStatus(card.StatusToken)
	}

	return domain.Game{
		ID:              card.GameID,
		CompetitionRef:  refFor("competitions", grade.ParentCompID),
		GradeRef:        refFor("grades", grade.ID),
		GradeID:         grade.ID,
		Round:           card.Round,
		ScheduledAt:     card.ScheduledAt,
		VenueName:       card.VenueName,
		VenueCode:       card.VenueCode,
		HomeTeam:        home,
		AwayTeam:        away,
		Score:           domain.Score{Home: card.HomeScore, Away: card.AwayScore},
		Status:          status,
		MentonePlaying:  isFocusClub(card.Home.Name, focusKeyword) || isFocusClub(card.Away.Name, focusKeyword),
		UpdatedAt:       now,
	}
}
