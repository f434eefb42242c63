// Package domain defines the typed records the core operates on: one struct
// per entity kind from the data model, plus the small enumerations the
// classifier and game state machine produce. These are the contract between
// extractors, the classifier, and the store — extractors and the classifier
// never see *pgxpool.Pool, and the store never parses HTML.
package domain

import "time"

// TeamType is the classifier's type axis.
type TeamType string

const (
	TeamSenior TeamType = "Senior"
	TeamJunior TeamType = "Junior"
	TeamMasters TeamType = "Masters"
	TeamMidweek TeamType = "Midweek"
	TeamIndoor  TeamType = "Indoor"
	TeamOutdoor TeamType = "Outdoor"
	TeamSocial  TeamType = "Social/Other"
)

// Gender is the classifier's gender axis.
type Gender string

const (
	GenderMen     Gender = "Men"
	GenderWomen   Gender = "Women"
	GenderMixed   Gender = "Mixed"
	GenderUnknown Gender = "Unknown"
)

// GameStatus is the Game state machine from spec §4.5.
type GameStatus string

const (
	StatusScheduled      GameStatus = "scheduled"
	StatusCompleted      GameStatus = "completed"
	StatusForfeit        GameStatus = "forfeit"
	StatusCancelled      GameStatus = "cancelled"
	StatusPostponed      GameStatus = "postponed"
	StatusAbandoned      GameStatus = "abandoned"
	StatusWashedOut      GameStatus = "washed out"
	StatusUnknownOutcome GameStatus = "unknown_outcome"
)

// Terminal reports whether a status is one the Results stage will not
// re-check on a subsequent run (unless force_update is set).
func (s GameStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusForfeit, StatusCancelled, StatusAbandoned, StatusWashedOut:
		return true
	default:
		return false
	}
}

// Competition is the season-long tournament umbrella. Key = external
// competition id (string of digits), mirrored into ID.
type Competition struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Season    string    `json:"season"`
	Type      string    `json:"type,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	LastChecked time.Time `json:"last_checked"`
}

// Grade is a named division within a competition. Key = external fixture id.
type Grade struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	ParentCompID  string    `json:"parent_comp_id"`
	CompetitionRef string   `json:"competition_ref"` // "competitions/{id}"
	URL           string    `json:"url,omitempty"`
	Type          TeamType  `json:"type"`
	Gender        Gender    `json:"gender"`
	Season        string    `json:"season"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	LastChecked   time.Time `json:"last_checked"`
}

// LadderSnapshot is the standings row embedded in a Team.
type LadderSnapshot struct {
	Position int       `json:"position"`
	Points   int       `json:"points"`
	Played   int       `json:"played"`
	Wins     int       `json:"wins"`
	Draws    int       `json:"draws"`
	Losses   int       `json:"losses"`
	Byes     int       `json:"byes"`
	For      int       `json:"for"`
	Against  int       `json:"against"`
	Diff     int       `json:"diff"`
	SnapshotAt time.Time `json:"snapshot_at"`
}

// Team is keyed by the external team id embedded in team URLs.
type Team struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	ClubName      string         `json:"club_name"`
	ClubKey       string         `json:"club_key"`
	CompetitionRef string        `json:"competition_ref"`
	GradeRef      string         `json:"grade_ref"`
	GradeID       string         `json:"grade_id"`
	IsHomeClub    bool           `json:"is_home_club"`
	Type          TeamType       `json:"type"`
	Gender        Gender         `json:"gender"`
	Season        string         `json:"season"`
	Active        bool           `json:"active"`
	Ladder        LadderSnapshot `json:"ladder"`
	URL           string         `json:"url,omitempty"`
	LadderURL     string         `json:"ladder_url,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	LastChecked   time.Time      `json:"last_checked"`
}

// Club is keyed by a slugified club name; the focus club uses FocusClubSlug.
type Club struct {
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	ShortName   string    `json:"short_name,omitempty"`
	PrimaryColor string   `json:"primary_color,omitempty"`
	SecondaryColor string `json:"secondary_color,omitempty"`
	HomeVenueHint string  `json:"home_venue_hint,omitempty"`
	IsFocusClub bool      `json:"is_focus_club"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TeamRef is a denormalised home/away team embed on a Game.
type TeamRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Ref  string `json:"ref"` // "teams/{id}"
}

// Score is present once a game's result is known.
type Score struct {
	Home *int `json:"home,omitempty"`
	Away *int `json:"away,omitempty"`
}

// Game is keyed by the external game id from the game detail URL.
type Game struct {
	ID              string     `json:"id"`
	CompetitionRef  string     `json:"competition_ref"`
	GradeRef        string     `json:"grade_ref"`
	GradeID         string     `json:"grade_id"`
	Round           int        `json:"round"`
	ScheduledAt     time.Time  `json:"scheduled_at"`
	VenueName       string     `json:"venue_name,omitempty"`
	VenueCode       string     `json:"venue_code,omitempty"`
	HomeTeam        TeamRef    `json:"home_team"`
	AwayTeam        TeamRef    `json:"away_team"`
	Score           Score      `json:"score"`
	WinnerText      string     `json:"winner_text,omitempty"`
	Status          GameStatus `json:"status"`
	MentonePlaying  bool       `json:"mentone_playing"`
	MentoneResult   string     `json:"mentone_result,omitempty"` // "win"|"loss"|"draw"
	Participation   []GamePlayerStat `json:"participation,omitempty"`
	ResultsRetrievedAt time.Time `json:"results_retrieved_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	LastChecked     time.Time  `json:"last_checked"`
}

// GamePlayerStat is one player's per-game participation record, embedded on
// both the Game document and aggregated into the Player document. GameID
// is redundant on Game.Participation (the containing document already
// identifies the game) but is what lets Player.Participation entries be
// deduplicated and summed per spec §3's "stat counters are sums over the
// participation list" invariant.
type GamePlayerStat struct {
	GameID   string `json:"game_id,omitempty"`
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Goals    int    `json:"goals"`
	GreenCards int  `json:"green_cards"`
	YellowCards int `json:"yellow_cards"`
	RedCards int    `json:"red_cards"`
}

// PlayerRole distinguishes goalkeepers from field players for stat purposes.
type PlayerRole string

const (
	RoleField      PlayerRole = "field"
	RoleGoalkeeper PlayerRole = "goalkeeper"
)

// PlayerTeam is one team a player is associated with, with grade context.
type PlayerTeam struct {
	TeamID  string `json:"team_id"`
	Name    string `json:"name"`
	GradeID string `json:"grade_id,omitempty"`
}

// PlayerStats are aggregated counters, sums over Participation.
type PlayerStats struct {
	Games       int `json:"games"`
	Goals       int `json:"goals"`
	GreenCards  int `json:"green_cards"`
	YellowCards int `json:"yellow_cards"`
	RedCards    int `json:"red_cards"`
}

// Player is keyed by the external player id.
type Player struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Role          PlayerRole       `json:"role"`
	Gender        Gender           `json:"gender,omitempty"`
	Teams         []PlayerTeam     `json:"teams"`
	Stats         PlayerStats      `json:"stats"`
	Participation []GamePlayerStat `json:"participation,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	LastChecked   time.Time        `json:"last_checked"`
}

// Venue is keyed by a slug derived from name + first address line.
type Venue struct {
	Slug       string    `json:"slug"`
	Name       string    `json:"name"`
	Address    string    `json:"address,omitempty"`
	FieldCode  string    `json:"field_code,omitempty"`
	MapURL     string    `json:"map_url,omitempty"`
	SourceURLs []string  `json:"source_urls"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
