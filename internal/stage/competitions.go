package stage

import (
	"context"
	"time"

	"github.com/mentone-hv/hv-sync/internal/classify"
	"github.com/mentone-hv/hv-sync/internal/domain"
	"github.com/mentone-hv/hv-sync/internal/extract"
	"github.com/mentone-hv/hv-sync/internal/fetch"
)

// runCompetitions fetches the competitions-index once and upserts every
// Competition and Grade discovered, per spec §4.5 stage 1. Critical: a
// failure here must propagate to the orchestrator so later stages don't run.
func runCompetitions(ctx context.Context, deps *Deps, opts Options) Outcome {
	url := deps.BaseURL + "/games/"
	res := deps.Fetch.Fetch(ctx, url)
	if res.Kind != fetch.KindOk {
		return Outcome{ErrCount: 1, FatalErr: res}
	}

	blocks, warnings := extract.Competitions(res.Body)
	var warnStrs []string
	for _, w := range warnings {
		warnStrs = append(warnStrs, w.Error())
	}

	if len(blocks) == 0 {
		return Outcome{
			ErrCount: 1,
			Warnings: warnStrs,
			FatalErr: errCriticalStageEmpty(Competitions, "no competitions discovered on "+url),
		}
	}

	now := time.Now().UTC()
	var ok, fail int

	for _, block := range blocks {
		if opts.Limit > 0 && ok+fail >= opts.Limit {
			break
		}
		comp := domain.Competition{
			ID:        block.ParentCompID,
			Name:      block.Name,
			Season:    currentSeason(now),
			Active:    true,
			UpdatedAt: now,
		}
		if !opts.DryRun {
			if err := deps.Store.UpsertCompetition(ctx, comp); err != nil {
				fail++
				warnStrs = append(warnStrs, err.Error())
				continue
			}
		}
		ok++

		for _, g := range block.Grades {
			grade := domain.Grade{
				ID:             g.FixtureID,
				Name:           g.Name,
				ParentCompID:   g.CompID,
				CompetitionRef: refFor("competitions", g.CompID),
				URL:            deps.BaseURL + g.URL,
				Season:         comp.Season,
				Active:         true,
				UpdatedAt:      now,
			}
			grade.Type = classify.Type(grade.Name)
			grade.Gender = classify.Gender(grade.Name, grade.Type)

			if !opts.DryRun {
				if err := deps.Store.UpsertGrade(ctx, grade); err != nil {
					fail++
					warnStrs = append(warnStrs, err.Error())
					continue
				}
			}
			ok++
		}
	}

	return Outcome{OkCount: ok, ErrCount: fail, Warnings: warnStrs}
}

// currentSeason derives the season year string from the run instant. The
// source site scopes competitions by calendar year.
func currentSeason(t time.Time) string {
	return t.Format("2006")
}
