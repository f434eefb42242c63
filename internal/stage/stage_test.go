package stage

import (
	"testing"

	"github.com/mentone-hv/hv-sync/internal/domain"
)

func TestClubKeyFor(t *testing.T) {
	if got := clubKeyFor("Mentone Hockey Club"); got != "mentonehockeyclub" {
		t.Fatalf("got %q", got)
	}
	if got := clubKeyFor(""); got != "unknown" {
		t.Fatalf("expected fallback, got %q", got)
	}
}

func TestIsFocusClub(t *testing.T) {
	if !isFocusClub("Mentone Men's A", "mentone") {
		t.Fatalf("expected match")
	}
	if isFocusClub("Hawthorn Men's A", "mentone") {
		t.Fatalf("expected no match")
	}
}

func TestClubNameFromTeam(t *testing.T) {
	cases := map[string]string{
		"Mentone 1":       "Mentone",
		"Mentone Men's 2": "Mentone Men's",
		"Camberwell":      "Camberwell",
	}
	for in, want := range cases {
		if got := clubNameFromTeam(in); got != want {
			t.Errorf("clubNameFromTeam(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDistinctFocusGradeIDs(t *testing.T) {
	teams := []domain.Team{
		{GradeID: "1", IsHomeClub: true},
		{GradeID: "1", IsHomeClub: true},
		{GradeID: "2", IsHomeClub: false},
	}
	ids := distinctFocusGradeIDs(teams, Options{})
	if len(ids) != 1 || ids[0] != "1" {
		t.Fatalf("got %v", ids)
	}
}

func TestRefFor(t *testing.T) {
	if got := refFor("teams", "123"); got != "teams/123" {
		t.Fatalf("got %q", got)
	}
}

func TestStageCriticality(t *testing.T) {
	if !Competitions.Critical() || !Teams.Critical() {
		t.Fatalf("competitions and teams must be critical")
	}
	if Games.Critical() || Results.Critical() || Players.Critical() || Ladder.Critical() {
		t.Fatalf("only competitions/teams should be critical")
	}
}
