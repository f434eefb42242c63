package stage

import (
	"context"
	"time"

	"github.com/mentone-hv/hv-sync/internal/domain"
	"github.com/mentone-hv/hv-sync/internal/extract"
	"github.com/mentone-hv/hv-sync/internal/fetch"
)

// runLadder fetches each focus-club team's grade pointscore page, locates
// the team's row, and updates only the ladder fields on the Team
// document, per spec §4.5 stage 6.
func runLadder(ctx context.Context, deps *Deps, opts Options) Outcome {
	focusOpts := opts
	focusOpts.MentoneOnly = true
	teams, err := deps.Stale.Teams(ctx, focusOpts.toStaleness())
	if err != nil {
		return Outcome{ErrCount: 1, Warnings: []string{err.Error()}}
	}
	if opts.Limit > 0 && len(teams) > opts.Limit {
		teams = teams[:opts.Limit]
	}

	ok, fail, warnings := workItems(deps.workers(), teams, func(team domain.Team) (bool, string) {
		compID := refTrailingID(team.CompetitionRef)
		url := deps.BaseURL + "/pointscore/" + compID + "/" + team.GradeID
		res := deps.Fetch.Fetch(ctx, url)
		if res.Kind != fetch.KindOk {
			return false, res.Error()
		}

		rows, warnings := extract.Ladder(res.Body)
		row, found := matchLadderRow(rows, team, deps.focusKeyword())
		if !found {
			return false, "no matching ladder row for team " + team.ID
		}

		now := time.Now().UTC()
		snapshot := domain.LadderSnapshot{
			Position: row.Position, Points: row.Points, Played: row.Played,
			Wins: row.Wins, Draws: row.Draws, Losses: row.Losses, Byes: row.Byes,
			For: row.For, Against: row.Against, Diff: row.Diff, SnapshotAt: now,
		}

		if !opts.DryRun {
			if err := deps.Store.UpdateTeamLadder(ctx, team.ID, snapshot, now); err != nil {
				return false, err.Error()
			}
		}
		if len(warnings) > 0 {
			return true, warnings[0].Error()
		}
		return true, ""
	})

	return Outcome{OkCount: ok, ErrCount: fail, Warnings: warnings}
}

// matchLadderRow locates a team's row by external id first, then by an
// exact team-name match, then by a focus-keyword name match per spec §4.5
// stage 6.
func matchLadderRow(rows []extract.LadderRow, team domain.Team, focusKeyword string) (extract.LadderRow, bool) {
	for _, row := range rows {
		if row.TeamHVID == team.ID {
			return row, true
		}
	}
	for _, row := range rows {
		if row.TeamName == team.Name {
			return row, true
		}
	}
	if focusKeyword != "" {
		for _, row := range rows {
			if isFocusClub(row.TeamName, focusKeyword) {
				return row, true
			}
		}
	}
	return extract.LadderRow{}, false
}
