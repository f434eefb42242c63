package stage

import (
	"context"
	"strings"
	"time"

	"github.com/mentone-hv/hv-sync/internal/domain"
	"github.com/mentone-hv/hv-sync/internal/extract"
	"github.com/mentone-hv/hv-sync/internal/fetch"
	"github.com/mentone-hv/hv-sync/internal/urlid"
)

// runPlayers fetches each focus-club team's stats page to discover game
// URLs and the roster, then fetches each not-yet-processed game URL for
// per-game participation, aggregates stats, and upserts Player docs and
// each Game's participation list, per spec §4.5 stage 5.
func runPlayers(ctx context.Context, deps *Deps, opts Options) Outcome {
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
		return processTeamPlayers(ctx, deps, opts, team)
	})

	return Outcome{OkCount: ok, ErrCount: fail, Warnings: warnings}
}

func processTeamPlayers(ctx context.Context, deps *Deps, opts Options, team domain.Team) (bool, string) {
	compID := refTrailingID(team.CompetitionRef)
	url := deps.BaseURL + "/games/team-stats/" + compID + "?team=" + team.ID
	res := deps.Fetch.Fetch(ctx, url)
	if res.Kind != fetch.KindOk {
		return false, res.Error()
	}

	stats, warnings := extract.TeamStatsPage(res.Body)
	now := time.Now().UTC()

	// The roster table gives identity (name, role) and team association;
	// it is never used as a source for the stat counters, which must be
	// sums over the per-game participation list (spec §3).
	roster := make(map[string]extract.RosterEntry, len(stats.Roster))
	for _, entry := range stats.Roster {
		if entry.PlayerHVID == "" {
			continue
		}
		roster[entry.PlayerHVID] = entry
	}

	newParticipation := make(map[string][]domain.GamePlayerStat)

	for _, gameURL := range stats.GameURLs {
		gameID, ok := urlid.ParseGameID(gameURL)
		if !ok {
			continue
		}
		existing, found := deps.Store.GetGame(ctx, gameID)
		if found && len(existing.Participation) > 0 {
			continue // already fully processed for this team
		}

		gameRes := deps.Fetch.Fetch(ctx, deps.BaseURL+gameURL)
		if gameRes.Kind != fetch.KindOk {
			continue
		}
		participants, _ := extract.Participation(gameRes.Body)
		gameStats := make([]domain.GamePlayerStat, 0, len(participants))
		for _, p := range participants {
			stat := domain.GamePlayerStat{
				GameID: gameID, PlayerID: p.PlayerHVID, Name: p.Name, Goals: p.Goals,
				GreenCards: p.GreenCards, YellowCards: p.YellowCards, RedCards: p.RedCards,
			}
			gameStats = append(gameStats, stat)
			newParticipation[p.PlayerHVID] = append(newParticipation[p.PlayerHVID], stat)
		}
		if !opts.DryRun && len(gameStats) > 0 {
			if err := deps.Store.UpdateGameParticipation(ctx, gameID, gameStats, now); err != nil {
				return false, err.Error()
			}
		}
	}

	// Every player seen either on the roster or in a fetched game's
	// participation gets its Player document reconciled: identity fields
	// from the roster, team association, and stat counters recomputed as
	// the sum over the full (existing + new) participation list.
	playerIDs := make(map[string]bool, len(roster)+len(newParticipation))
	for id := range roster {
		playerIDs[id] = true
	}
	for id := range newParticipation {
		playerIDs[id] = true
	}

	for playerID := range playerIDs {
		player, existed := deps.Store.GetPlayer(ctx, playerID)
		if !existed {
			player = domain.Player{ID: playerID}
		}
		if entry, ok := roster[playerID]; ok {
			player.Name = entry.Name
			player.Role = entry.Role
		}
		player.Teams = upsertPlayerTeam(player.Teams, domain.PlayerTeam{
			TeamID: team.ID, Name: team.Name, GradeID: team.GradeID,
		})
		player.Participation = mergeParticipation(player.Participation, newParticipation[playerID])
		player.Stats = sumParticipation(player.Participation)

		if !opts.DryRun {
			if err := deps.Store.UpsertPlayer(ctx, player); err != nil {
				return false, err.Error()
			}
		}
	}

	if len(warnings) > 0 {
		return true, warnings[0].Error()
	}
	return true, ""
}

// mergeParticipation folds fresh per-game stat lines into a player's
// existing participation list, replacing any prior entry for the same
// game rather than duplicating it.
func mergeParticipation(existing []domain.GamePlayerStat, fresh []domain.GamePlayerStat) []domain.GamePlayerStat {
	for _, stat := range fresh {
		replaced := false
		for i, e := range existing {
			if e.GameID == stat.GameID {
				existing[i] = stat
				replaced = true
				break
			}
		}
		if !replaced {
			existing = append(existing, stat)
		}
	}
	return existing
}

// sumParticipation derives the aggregate stat counters as a sum over the
// participation list, per spec §3's invariant.
func sumParticipation(participation []domain.GamePlayerStat) domain.PlayerStats {
	var stats domain.PlayerStats
	stats.Games = len(participation)
	for _, p := range participation {
		stats.Goals += p.Goals
		stats.GreenCards += p.GreenCards
		stats.YellowCards += p.YellowCards
		stats.RedCards += p.RedCards
	}
	return stats
}

func upsertPlayerTeam(teams []domain.PlayerTeam, pt domain.PlayerTeam) []domain.PlayerTeam {
	for i, t := range teams {
		if t.TeamID == pt.TeamID {
			teams[i] = pt
			return teams
		}
	}
	return append(teams, pt)
}

func refTrailingID(ref string) string {
	if i := strings.LastIndexByte(ref, '/'); i >= 0 {
		return ref[i+1:]
	}
	return ref
}
