package classify

import (
	"testing"

	"github.com/mentone-hv/hv-sync/internal/domain"
)

func TestType(t *testing.T) {
	cases := []struct {
		name string
		want domain.TeamType
	}{
		{"Men's Pennant A", domain.TeamSenior},
		{"U12 Boys", domain.TeamJunior},
		{"U18 Girls", domain.TeamJunior},
		{"Midweek Women", domain.TeamMidweek},
		{"Masters 45+ Men", domain.TeamMidweek},
		{"Vic League 1 Men", domain.TeamSenior},
		{"Indoor Mixed", domain.TeamIndoor},
		{"Outdoor Social", domain.TeamOutdoor},
		{"Summer Cup Mixed", domain.TeamSocial},
		{"Metro Women", domain.TeamSenior},
		{"Something Unrecognized", domain.TeamSenior},
	}
	for _, c := range cases {
		if got := Type(c.name); got != c.want {
			t.Errorf("Type(%q) = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestGender(t *testing.T) {
	cases := []struct {
		name     string
		teamType domain.TeamType
		want     domain.Gender
	}{
		{"Women's Pennant A", domain.TeamSenior, domain.GenderWomen},
		{"Men's Pennant A", domain.TeamSenior, domain.GenderMen},
		{"U12 Mixed", domain.TeamJunior, domain.GenderMixed},
		{"Ladies Midweek", domain.TeamMidweek, domain.GenderWomen},
		{"U10 Boys", domain.TeamJunior, domain.GenderMen},
		{"U16 Girls", domain.TeamJunior, domain.GenderWomen},
		{"Senior Pennant", domain.TeamSenior, domain.GenderMen}, // falls to type heuristic
		{"U8", domain.TeamJunior, domain.GenderMixed},           // no explicit token, junior -> mixed
	}
	for _, c := range cases {
		if got := Gender(c.name, c.teamType); got != c.want {
			t.Errorf("Gender(%q, %v) = %v, want %v", c.name, c.teamType, got, c.want)
		}
	}
}
