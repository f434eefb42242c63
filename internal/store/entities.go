package store

import (
	"context"
	"time"

	"github.com/mentone-hv/hv-sync/internal/domain"
)

// UpsertCompetition merges a Competition document. Competitions is the
// critical stage (spec §4.6), so callers are expected to check the error.
func (s *Store) UpsertCompetition(ctx context.Context, c domain.Competition) error {
	now := time.Now().UTC()
	c.LastChecked = now
	body, err := structToBody(c)
	if err != nil {
		return err
	}
	return s.MergeUpsert(ctx, Competitions, c.ID, body, now)
}

// UpsertGrade merges a Grade document.
func (s *Store) UpsertGrade(ctx context.Context, g domain.Grade) error {
	now := time.Now().UTC()
	g.LastChecked = now
	body, err := structToBody(g)
	if err != nil {
		return err
	}
	return s.MergeUpsert(ctx, Grades, g.ID, body, now)
}

// UpsertTeam merges a Team document, including its embedded ladder
// snapshot (the Ladder stage writes the same document through
// UpdateTeamLadder, just the ladder and updated_at fields, relying on merge
// to leave the rest of the team untouched).
func (s *Store) UpsertTeam(ctx context.Context, team domain.Team) error {
	now := time.Now().UTC()
	team.LastChecked = now
	body, err := structToBody(team)
	if err != nil {
		return err
	}
	return s.MergeUpsert(ctx, Teams, team.ID, body, now)
}

// UpsertClub merges a Club document.
func (s *Store) UpsertClub(ctx context.Context, club domain.Club) error {
	body, err := structToBody(club)
	if err != nil {
		return err
	}
	return s.MergeUpsert(ctx, Clubs, club.Slug, body, time.Now().UTC())
}

// UpsertGame merges a Game document.
func (s *Store) UpsertGame(ctx context.Context, g domain.Game) error {
	now := time.Now().UTC()
	g.LastChecked = now
	body, err := structToBody(g)
	if err != nil {
		return err
	}
	return s.MergeUpsert(ctx, Games, g.ID, body, now)
}

// UpsertPlayer merges a Player document.
func (s *Store) UpsertPlayer(ctx context.Context, p domain.Player) error {
	now := time.Now().UTC()
	p.LastChecked = now
	body, err := structToBody(p)
	if err != nil {
		return err
	}
	return s.MergeUpsert(ctx, Players, p.ID, body, now)
}

// UpdateGameResult merges only the fields the Results stage owns per spec
// §4.4: status, both scores, winner_text, mentone_result, and
// results_retrieved_at. It deliberately does not go through
// structToBody(domain.Game{...}) — that would serialize every other Game
// field as its zero value and, via the jsonb `||` merge, stomp on
// venue/teams/date fields that belong to the Games stage.
func (s *Store) UpdateGameResult(ctx context.Context, gameID string, status domain.GameStatus, home, away *int, winnerText, mentoneResult string, retrievedAt time.Time) error {
	body := map[string]interface{}{
		"status":               string(status),
		"winner_text":          winnerText,
		"mentone_result":       mentoneResult,
		"results_retrieved_at": retrievedAt,
		"updated_at":           retrievedAt,
	}
	body["score"] = map[string]interface{}{"home": home, "away": away}
	return s.MergeUpsert(ctx, Games, gameID, body, retrievedAt)
}

// UpdateGameParticipation merges only the participation list the Players
// stage owns on a Game document, leaving every other field untouched.
func (s *Store) UpdateGameParticipation(ctx context.Context, gameID string, participation []domain.GamePlayerStat, touchedAt time.Time) error {
	body := map[string]interface{}{
		"participation": participation,
		"updated_at":    touchedAt,
	}
	return s.MergeUpsert(ctx, Games, gameID, body, touchedAt)
}

// UpdateTeamLadder merges only the ladder fields the Ladder stage owns on
// a Team document: ladder, updated_at, last_checked.
func (s *Store) UpdateTeamLadder(ctx context.Context, teamID string, ladder domain.LadderSnapshot, touchedAt time.Time) error {
	body := map[string]interface{}{
		"ladder":     ladder,
		"updated_at": touchedAt,
	}
	return s.MergeUpsert(ctx, Teams, teamID, body, touchedAt)
}

// UpsertVenue merges a Venue document. At most one record exists per
// distinct slug (spec §3's Venue invariant); source_urls accumulation
// happens at the caller (stage worker), which reads-then-appends since
// jsonb `||` replaces arrays rather than unioning them.
func (s *Store) UpsertVenue(ctx context.Context, v domain.Venue) error {
	body, err := structToBody(v)
	if err != nil {
		return err
	}
	return s.MergeUpsert(ctx, Venues, v.Slug, body, time.Now().UTC())
}

// GetTeam reads a Team document by id, returning (zero, false) if absent.
func (s *Store) GetTeam(ctx context.Context, id string) (domain.Team, bool) {
	var t domain.Team
	if err := s.Get(ctx, Teams, id, &t); err != nil {
		return domain.Team{}, false
	}
	return t, true
}

// GetGame reads a Game document by id, returning (zero, false) if absent.
func (s *Store) GetGame(ctx context.Context, id string) (domain.Game, bool) {
	var g domain.Game
	if err := s.Get(ctx, Games, id, &g); err != nil {
		return domain.Game{}, false
	}
	return g, true
}

// GetVenue reads a Venue document by slug, returning (zero, false) if
// absent.
func (s *Store) GetVenue(ctx context.Context, slug string) (domain.Venue, bool) {
	var v domain.Venue
	if err := s.Get(ctx, Venues, slug, &v); err != nil {
		return domain.Venue{}, false
	}
	return v, true
}

// GetPlayer reads a Player document by id, returning (zero, false) if
// absent.
func (s *Store) GetPlayer(ctx context.Context, id string) (domain.Player, bool) {
	var p domain.Player
	if err := s.Get(ctx, Players, id, &p); err != nil {
		return domain.Player{}, false
	}
	return p, true
}
