package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mentone-hv/hv-sync/internal/urlid"
)

// LadderRow is one team's pointscore-table line, per spec §4.2's ladder
// extractor. Tie-breaks follow source ordering; Position is the row's
// 1-based rank in that order.
type LadderRow struct {
	Position int
	TeamName string
	TeamHVID string
	Played   int
	Wins     int
	Draws    int
	Losses   int
	Byes     int
	For      int
	Against  int
	Diff     int
	Points   int
}

// Ladder parses a pointscore page into ordered team rows.
func Ladder(page []byte) ([]LadderRow, []Warning) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(page)))
	if err != nil {
		return nil, []Warning{{Context: "ladder", Reason: err.Error()}}
	}

	var rows []LadderRow
	var warnings []Warning
	position := 0

	doc.Find("table tbody tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < 10 {
			return // header or malformed row, skip silently (not a required field here)
		}

		link := tr.Find("a[href]").First()
		href, _ := link.Attr("href")
		teamHVID := ""
		if ref, ok := urlid.ParseTeam(href); ok {
			teamHVID = ref.TeamID
		}
		teamName := cleanText(link.Text())
		if teamName == "" {
			teamName = cleanText(cells.Eq(0).Text())
		}
		if teamName == "" {
			warnings = append(warnings, Warning{Context: "ladder row", Reason: "missing team name"})
			return
		}

		position++
		row := LadderRow{Position: position, TeamName: teamName, TeamHVID: teamHVID}

		texts := make([]string, 0, cells.Length())
		cells.Each(func(_ int, c *goquery.Selection) { texts = append(texts, cleanText(c.Text())) })

		// Columns after the team-name cell: P W D L B F A D Pts (spec order).
		numeric := texts[1:]
		fields := []*int{&row.Played, &row.Wins, &row.Draws, &row.Losses, &row.Byes, &row.For, &row.Against, &row.Diff, &row.Points}
		for i, f := range fields {
			if i >= len(numeric) {
				break
			}
			if n, ok := extractNumber(numeric[i]); ok {
				*f = n
			}
		}

		rows = append(rows, row)
	})

	return rows, warnings
}
