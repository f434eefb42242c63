package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mentone-hv/hv-sync/internal/domain"
	"github.com/mentone-hv/hv-sync/internal/urlid"
)

// RosterEntry is one player row from a team-stats roster table.
type RosterEntry struct {
	PlayerHVID  string
	Name        string
	Role        domain.PlayerRole
	Goals       int
	GreenCards  int
	YellowCards int
	RedCards    int
}

// TeamStats is the parsed result of a team stats page: the game URLs it
// references (which the Players stage fetches for per-game participation)
// plus the roster, per spec §4.2's team-stats extractor.
type TeamStats struct {
	GameURLs []string
	Roster   []RosterEntry
}

const goalkeepingHeaderHint = "goalkeep"

// TeamStatsPage parses a team stats page.
func TeamStatsPage(page []byte) (TeamStats, []Warning) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(page)))
	if err != nil {
		return TeamStats{}, []Warning{{Context: "team-stats", Reason: err.Error()}}
	}

	var out TeamStats
	var warnings []Warning
	seen := make(map[string]bool)

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if _, ok := urlid.ParseGameID(href); ok && !seen[href] {
			seen[href] = true
			out.GameURLs = append(out.GameURLs, href)
		}
	})

	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		headerText := strings.ToLower(cleanText(table.Find("thead").Text()))
		role := domain.RoleField
		if strings.Contains(headerText, goalkeepingHeaderHint) {
			role = domain.RoleGoalkeeper
		}

		table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
			link := tr.Find("a[href]").First()
			href, _ := link.Attr("href")
			playerID, ok := urlid.ParsePlayerID(href)
			name := cleanText(link.Text())
			if !ok || name == "" {
				warnings = append(warnings, Warning{Context: "roster row", Reason: "missing player id or name"})
				return
			}

			cells := tr.Find("td")
			texts := make([]string, 0, cells.Length())
			cells.Each(func(_ int, c *goquery.Selection) { texts = append(texts, cleanText(c.Text())) })

			entry := RosterEntry{PlayerHVID: playerID, Name: name, Role: role}
			// Trailing numeric columns are goals/green/yellow/red, in that
			// order, when present — mirrors the game-participation shape.
			numericTail := lastNInts(texts, 4)
			if len(numericTail) == 4 {
				entry.Goals, entry.GreenCards, entry.YellowCards, entry.RedCards =
					numericTail[0], numericTail[1], numericTail[2], numericTail[3]
			}

			out.Roster = append(out.Roster, entry)
		})
	})

	return out, warnings
}

func lastNInts(texts []string, n int) []int {
	var vals []int
	for _, t := range texts {
		if v, ok := extractNumber(t); ok {
			vals = append(vals, v)
		}
	}
	if len(vals) < n {
		return nil
	}
	return vals[len(vals)-n:]
}
