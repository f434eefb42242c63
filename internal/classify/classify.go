// Package classify implements the strictly-ordered keyword classifier that
// assigns a TeamType and Gender to a free-text grade/team name. It is a
// pure function with no I/O, grounded in the ordering the REDESIGN FLAGS
// mandate over the original discover_teams.py's determine_team_type /
// determine_gender (the original checked generic keywords before the
// specific age-band and league tokens; this ordering checks specific
// tokens first).
package classify

import (
	"strings"

	"github.com/mentone-hv/hv-sync/internal/domain"
)

var ageBandTokens = []string{"35+", "40+", "45+", "50+", "60+", "70+"}

var juniorAgeTokens = buildJuniorTokens()

func buildJuniorTokens() []string {
	tokens := make([]string, 0, 12)
	for age := 8; age <= 19; age++ {
		tokens = append(tokens, "u"+itoa(age))
	}
	return tokens
}

func itoa(n int) string {
	if n < 10 {
		return string(rune('0' + n))
	}
	return string(rune('0'+n/10)) + string(rune('0'+n%10))
}

func containsAny(lower string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

// Type implements the Type decision procedure from spec §4.3, in order:
//  1. midweek/masters/age-band -> Midweek
//  2. junior/u8..u19 -> Junior
//  3. senior/pennant/vic league/premier league/metro -> Senior
//  4. indoor -> Indoor; outdoor -> Outdoor; social/summer/vaisakhi/cup -> Social/Other
//  5. generic keyword scan
//  6. default Senior
func Type(name string) domain.TeamType {
	lower := strings.ToLower(name)

	if strings.Contains(lower, "midweek") || strings.Contains(lower, "masters") || containsAny(lower, ageBandTokens) {
		return domain.TeamMidweek
	}
	if strings.Contains(lower, "junior") || containsAny(lower, juniorAgeTokens) {
		return domain.TeamJunior
	}
	if strings.Contains(lower, "senior") || strings.Contains(lower, "pennant") ||
		strings.Contains(lower, "vic league") || strings.Contains(lower, "premier league") ||
		strings.Contains(lower, "metro") {
		return domain.TeamSenior
	}
	if strings.Contains(lower, "indoor") {
		return domain.TeamIndoor
	}
	if strings.Contains(lower, "outdoor") {
		return domain.TeamOutdoor
	}
	if strings.Contains(lower, "social") || strings.Contains(lower, "summer") ||
		strings.Contains(lower, "vaisakhi") || strings.Contains(lower, "cup") {
		return domain.TeamSocial
	}

	// Step 5: generic keyword map, in the order spec §4.3 lists it.
	generic := []struct {
		token string
		kind  domain.TeamType
	}{
		{"senior", domain.TeamSenior},
		{"junior", domain.TeamJunior},
		{"midweek", domain.TeamMidweek},
		{"masters", domain.TeamMidweek},
		{"outdoor", domain.TeamOutdoor},
		{"indoor", domain.TeamIndoor},
	}
	for _, g := range generic {
		if strings.Contains(lower, g.token) {
			return g.kind
		}
	}

	return domain.TeamSenior
}

// Gender implements the Gender decision procedure from spec §4.3.
func Gender(name string, teamType domain.TeamType) domain.Gender {
	lower := strings.ToLower(name)

	switch {
	case strings.Contains(lower, "women"), strings.Contains(lower, "girls"), strings.Contains(lower, "ladies"):
		return domain.GenderWomen
	case strings.Contains(lower, "men"), strings.Contains(lower, "boys"):
		return domain.GenderMen
	case strings.Contains(lower, "mixed"):
		return domain.GenderMixed
	}

	// Still unknown: fall back on the type-based heuristic.
	switch teamType {
	case domain.TeamJunior:
		return domain.GenderMixed
	case domain.TeamMidweek, domain.TeamSenior:
		return domain.GenderMen
	default:
		return domain.GenderUnknown
	}
}
