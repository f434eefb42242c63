// Package urlid extracts the stable external identifiers embedded in
// Hockey Victoria URL paths. Every document key in the store is one of
// these tokens — the core never mints a surrogate key for an externally
// identified entity.
package urlid

import (
	"regexp"
	"strconv"
)

var (
	reCompFixture     = regexp.MustCompile(`/games/(\d+)/(\d+)(?:/round/(\d+))?`)
	reCompOnly        = regexp.MustCompile(`/(?:reports/games|team-stats)/(\d+)`)
	reTeam            = regexp.MustCompile(`/games/team/(\d+)/(\d+)`)
	reTeamStats       = regexp.MustCompile(`/games/team-stats/(\d+)`)
	reGame            = regexp.MustCompile(`/game/(\d+)`)
	rePointscore      = regexp.MustCompile(`/pointscore/(\d+)/(\d+)`)
	rePlayerStats     = regexp.MustCompile(`/games/statistics/(\d+)`)
)

// CompFixture holds the comp_id/fixture_id pair common to grade, draw,
// round, and ladder URLs, plus the round number when the URL names one.
type CompFixture struct {
	CompID    string
	FixtureID string
	Round     int // 0 if the URL carries no round segment
}

// ParseCompFixture matches "/games/{comp}/{fixture}" and
// "/games/{comp}/{fixture}/round/{n}" per spec scenario S2.
func ParseCompFixture(path string) (CompFixture, bool) {
	m := reCompFixture.FindStringSubmatch(path)
	if m == nil {
		return CompFixture{}, false
	}
	cf := CompFixture{CompID: m[1], FixtureID: m[2]}
	if m[3] != "" {
		n, err := strconv.Atoi(m[3])
		if err != nil {
			return CompFixture{}, false
		}
		cf.Round = n
	}
	return cf, true
}

// ParsePointscore matches "/pointscore/{comp}/{fixture}" (ladder pages).
func ParsePointscore(path string) (CompFixture, bool) {
	m := rePointscore.FindStringSubmatch(path)
	if m == nil {
		return CompFixture{}, false
	}
	return CompFixture{CompID: m[1], FixtureID: m[2]}, true
}

// ParseCompetitionID extracts a bare competition id from an action link of
// shape "/reports/games/{id}" or "/team-stats/{id}", used by the
// competitions-index extractor to read a competition block's parent id;
// the first grade link's comp_id is the fallback when no action link has one.
func ParseCompetitionID(path string) (string, bool) {
	m := reCompOnly.FindStringSubmatch(path)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// TeamRef holds the comp_id/team_id pair from a team page URL.
type TeamRef struct {
	CompID string
	TeamID string
}

// ParseTeam matches "/games/team/{comp}/{team}".
func ParseTeam(path string) (TeamRef, bool) {
	m := reTeam.FindStringSubmatch(path)
	if m == nil {
		return TeamRef{}, false
	}
	return TeamRef{CompID: m[1], TeamID: m[2]}, true
}

// ParseTeamStatsComp extracts the comp id from "/games/team-stats/{comp}";
// the team id itself arrives as a "team" query parameter, not a path token.
func ParseTeamStatsComp(path string) (string, bool) {
	m := reTeamStats.FindStringSubmatch(path)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ParseGameID matches "/game/{game}".
func ParseGameID(path string) (string, bool) {
	m := reGame.FindStringSubmatch(path)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ParsePlayerID matches "/games/statistics/{player}".
func ParsePlayerID(path string) (string, bool) {
	m := rePlayerStats.FindStringSubmatch(path)
	if m == nil {
		return "", false
	}
	return m[1], true
}
