package stage

import (
	"context"
	"time"

	"github.com/mentone-hv/hv-sync/internal/domain"
	"github.com/mentone-hv/hv-sync/internal/extract"
	"github.com/mentone-hv/hv-sync/internal/fetch"
)

// runResults selects games scheduled in the past that are not yet in a
// terminal state (unless force_update), fetches each game page, and
// upserts only the result fields the Results stage owns: status,
// scores, winner_text, mentone_result, results_retrieved_at — never
// venue/teams/date (spec §4.4's field-ownership rule). The same game
// page also carries venue details, which are reconciled into their own
// Venue document keyed by slug (spec §3: at most one record per
// distinct venue).
func runResults(ctx context.Context, deps *Deps, opts Options) Outcome {
	days := opts.Days
	if days <= 0 {
		days = deps.staleResultsDays()
	}

	games, err := deps.Stale.GamesNeedingResults(ctx, days, opts.toStaleness())
	if err != nil {
		return Outcome{ErrCount: 1, Warnings: []string{err.Error()}}
	}
	if opts.Limit > 0 && len(games) > opts.Limit {
		games = games[:opts.Limit]
	}

	ok, fail, warnings := workItems(deps.workers(), games, func(g domain.Game) (bool, string) {
		url := deps.BaseURL + "/game/" + g.ID
		res := deps.Fetch.Fetch(ctx, url)
		if res.Kind != fetch.KindOk {
			return false, res.Error()
		}

		detail, warns := extract.GameDetailResult(res.Body)
		now := time.Now().UTC()

		status := resolveStatus(detail)
		result := mentoneResult(g, detail, deps.focusKeyword())

		if !opts.DryRun {
			err := deps.Store.UpdateGameResult(ctx, g.ID, status, detail.HomeScore, detail.AwayScore,
				detail.WinnerText, result, now)
			if err != nil {
				return false, err.Error()
			}
			if venueWarn := reconcileVenue(ctx, deps, res.Body, url); venueWarn != "" && len(warns) == 0 {
				return true, venueWarn
			}
		}
		if len(warns) > 0 {
			return true, warns[0].Error()
		}
		return true, ""
	})

	return Outcome{OkCount: ok, ErrCount: fail, Warnings: warnings}
}

func resolveStatus(detail extract.GameDetail) domain.GameStatus {
	if detail.Status == "" {
		return domain.StatusUnknownOutcome
	}
	return domain.GameStatus(detail.Status)
}

// mentoneResult reports win/loss/draw from the focus club's perspective;
// empty when the focus club isn't in this game or the scores aren't known.
func mentoneResult(g domain.Game, detail extract.GameDetail, focusKeyword string) string {
	if detail.HomeScore == nil || detail.AwayScore == nil || !g.MentonePlaying {
		return ""
	}
	home := *detail.HomeScore
	away := *detail.AwayScore
	mentoneIsHome := isFocusClub(g.HomeTeam.Name, focusKeyword)
	switch {
	case home == away:
		return "draw"
	case (home > away) == mentoneIsHome:
		return "win"
	default:
		return "loss"
	}
}

// reconcileVenue extracts venue details from a game detail page already
// in hand and merges them into the Venue document keyed by slug,
// appending url to source_urls if not already present (spec §3: "source
// list deduplicated"). jsonb `||` replaces arrays rather than unioning
// them, so the append happens here rather than in the merge itself.
func reconcileVenue(ctx context.Context, deps *Deps, page []byte, sourceURL string) string {
	detail, warns := extract.Venue(page)
	if detail.Slug == "" {
		if len(warns) > 0 {
			return warns[0].Error()
		}
		return ""
	}

	now := time.Now().UTC()
	venue := domain.Venue{
		Slug:      detail.Slug,
		Name:      detail.Name,
		Address:   detail.Address,
		FieldCode: detail.FieldCode,
		MapURL:    detail.MapURL,
		CreatedAt: now,
		UpdatedAt: now,
	}

	existing, found := deps.Store.GetVenue(ctx, detail.Slug)
	sources := []string{sourceURL}
	if found {
		sources = existing.SourceURLs
		if !containsString(sources, sourceURL) {
			sources = append(sources, sourceURL)
		}
		venue.CreatedAt = existing.CreatedAt
	}
	venue.SourceURLs = sources

	if err := deps.Store.UpsertVenue(ctx, venue); err != nil {
		return err.Error()
	}
	return ""
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
