package stage

import (
	"context"
	"encoding/json"
	"strings"
	"sync/atomic"
	"time"

	"github.com/mentone-hv/hv-sync/internal/config"
	"github.com/mentone-hv/hv-sync/internal/domain"
	"github.com/mentone-hv/hv-sync/internal/extract"
	"github.com/mentone-hv/hv-sync/internal/fetch"
	"github.com/mentone-hv/hv-sync/internal/store"
)

// runTeams fetches each selected Grade's ladder page, extracts teams,
// classifies them, and upserts Team documents including their initial
// ladder snapshot, per spec §4.5 stage 2. Critical: a failure here
// propagates to the orchestrator.
func runTeams(ctx context.Context, deps *Deps, opts Options) Outcome {
	grades, err := selectGrades(ctx, deps, opts)
	if err != nil {
		return Outcome{ErrCount: 1, FatalErr: err}
	}
	if opts.Limit > 0 && len(grades) > opts.Limit {
		grades = grades[:opts.Limit]
	}

	now := time.Now().UTC()
	var teamsFound int64

	ok, fail, warnings := workItems(deps.workers(), grades, func(g domain.Grade) (bool, string) {
		url := deps.BaseURL + "/pointscore/" + g.ParentCompID + "/" + g.ID
		res := deps.Fetch.Fetch(ctx, url)
		if res.Kind != fetch.KindOk {
			return false, res.Error()
		}

		rows, warnings := extract.Ladder(res.Body)
		for _, row := range rows {
			team := domain.Team{
				ID:             row.TeamHVID,
				Name:           row.TeamName,
				CompetitionRef: refFor("competitions", g.ParentCompID),
				GradeRef:       refFor("grades", g.ID),
				GradeID:        g.ID,
				Season:         g.Season,
				Active:         true,
				Type:           g.Type,
				Gender:         g.Gender,
				UpdatedAt:      now,
				Ladder: domain.LadderSnapshot{
					Position:   row.Position,
					Points:     row.Points,
					Played:     row.Played,
					Wins:       row.Wins,
					Draws:      row.Draws,
					Losses:     row.Losses,
					Byes:       row.Byes,
					For:        row.For,
					Against:    row.Against,
					Diff:       row.Diff,
					SnapshotAt: now,
				},
			}
			team.ClubName = clubNameFromTeam(row.TeamName)
			team.ClubKey = clubKeyFor(team.ClubName)
			team.IsHomeClub = isFocusClub(team.ClubName, deps.focusKeyword())
			if team.IsHomeClub {
				team.ClubKey = config.FocusClubSlug
			}

			if team.ID == "" {
				continue
			}
			atomic.AddInt64(&teamsFound, 1)
			if !opts.DryRun {
				if err := deps.Store.UpsertTeam(ctx, team); err != nil {
					return false, err.Error()
				}
				if team.IsHomeClub {
					club := domain.Club{
						Slug:        team.ClubKey,
						Name:        team.ClubName,
						IsFocusClub: true,
						UpdatedAt:   now,
					}
					if err := deps.Store.UpsertClub(ctx, club); err != nil {
						return false, err.Error()
					}
				}
			}
		}

		if len(warnings) > 0 {
			return true, warnings[0].Error()
		}
		return true, ""
	})

	if len(grades) > 0 && teamsFound == 0 {
		return Outcome{
			ErrCount: fail + 1,
			Warnings: warnings,
			FatalErr: errCriticalStageEmpty(Teams, "no teams discovered across the selected grades"),
		}
	}

	return Outcome{OkCount: ok, ErrCount: fail, Warnings: warnings}
}

// selectGrades returns either every grade matching opts.CompID or, when
// incremental selection is wanted, the stale subset from the staleness
// selector.
func selectGrades(ctx context.Context, deps *Deps, opts Options) ([]domain.Grade, error) {
	if opts.ForceUpdate || opts.CompID != "" || opts.GradeID != "" {
		var out []domain.Grade
		err := deps.Store.List(ctx, store.Grades, func(id string, body []byte) error {
			var g domain.Grade
			if err := unmarshalGrade(body, &g); err != nil {
				return err
			}
			if opts.CompID != "" && g.ParentCompID != opts.CompID {
				return nil
			}
			if opts.GradeID != "" && g.ID != opts.GradeID {
				return nil
			}
			out = append(out, g)
			return nil
		})
		return out, err
	}
	return deps.Stale.StaleGrades(ctx, deps.staleGradesAfter())
}

// clubNameFromTeam strips a trailing grade/pool qualifier from a team's
// display name to recover its club name: every trailing token that
// contains a digit is dropped ("Mentone Men's 2" -> "Mentone Men's"); a
// name made only of such tokens is returned unchanged.
func clubNameFromTeam(teamName string) string {
	fields := strings.Fields(teamName)
	cut := len(fields)
	for cut > 0 && hasDigit(fields[cut-1]) {
		cut--
	}
	if cut == 0 {
		return teamName
	}
	return strings.Join(fields[:cut], " ")
}

func hasDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}

func unmarshalGrade(body []byte, g *domain.Grade) error {
	return json.Unmarshal(body, g)
}
