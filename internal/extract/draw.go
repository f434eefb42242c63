package extract

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/mentone-hv/hv-sync/internal/urlid"
)

// TeamSide is a home/away team reference on a game card.
type TeamSide struct {
	Name string
	HVID string
}

// GameCard is one game decomposed from a round page, per spec §4.2's
// draw/round extractor.
type GameCard struct {
	GameID        string
	URL           string
	Round         int
	ScheduledAt   time.Time
	HasScheduledAt bool
	VenueName     string
	VenueCode     string
	Home          TeamSide
	Away          TeamSide
	HomeScore     *int
	AwayScore     *int
	StatusToken   string
}

// gameCardSelector matches one game card container on a round page.
const gameCardSelector = ".game, .fixture, .match-card, tr.game-row"

// Round parses a "{comp}/{fixture}/round/{n}" page into its game cards.
// Per spec §4.2, the caller is responsible for the "three consecutive
// empty rounds" termination rule — this function just reports whether any
// cards were found.
func Round(page []byte, round int) ([]GameCard, []Warning) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(page)))
	if err != nil {
		return nil, []Warning{{Context: "round", Reason: err.Error()}}
	}

	var cards []GameCard
	var warnings []Warning

	doc.Find(gameCardSelector).Each(func(_ int, sel *goquery.Selection) {
		href := ""
		sel.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
			h, _ := a.Attr("href")
			if _, ok := urlid.ParseGameID(h); ok {
				href = h
				return false
			}
			return true
		})
		gameID, ok := urlid.ParseGameID(href)
		if !ok {
			return // not a game card, e.g. a bye row
		}

		card := GameCard{GameID: gameID, URL: href, Round: round}

		text := cleanText(sel.Text())
		if t, ok := parseGameDateTime(text); ok {
			card.ScheduledAt = t
			card.HasScheduledAt = true
		}

		card.VenueName = cleanText(sel.Find(".venue, .venue-name").First().Text())
		card.VenueCode = cleanText(sel.Find(".venue-code, .court").First().Text())

		teams := sel.Find(".team, .team-name")
		if teams.Length() >= 2 {
			card.Home = teamSideFrom(teams.Eq(0))
			card.Away = teamSideFrom(teams.Eq(1))
		}
		if card.Home.Name == "" || card.Away.Name == "" {
			warnings = append(warnings, Warning{Context: "game:" + gameID, Reason: "missing home/away team name"})
			return
		}

		scoreText := cleanText(sel.Find(".score").Text())
		if h, a, ok := parseScorePair(scoreText); ok {
			card.HomeScore, card.AwayScore = &h, &a
		}

		card.StatusToken = detectStatusToken(text)

		cards = append(cards, card)
	})

	return cards, warnings
}

func teamSideFrom(sel *goquery.Selection) TeamSide {
	href, _ := sel.Find("a[href]").First().Attr("href")
	hvid := ""
	if ref, ok := urlid.ParseTeam(href); ok {
		hvid = ref.TeamID
	}
	name := cleanText(sel.Text())
	return TeamSide{Name: name, HVID: hvid}
}

var statusKeywords = []string{"forfeit", "cancelled", "postponed", "abandoned", "washed out"}

func detectStatusToken(text string) string {
	lower := strings.ToLower(text)
	for _, k := range statusKeywords {
		if strings.Contains(lower, k) {
			return k
		}
	}
	return ""
}

func parseScorePair(text string) (int, int, bool) {
	normalized := strings.ReplaceAll(text, "−", "-")
	parts := strings.SplitN(normalized, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	h, ok1 := extractNumber(parts[0])
	a, ok2 := extractNumber(parts[1])
	if !ok1 || !ok2 {
		return 0, 0, false
	}
	return h, a, true
}
