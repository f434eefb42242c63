package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mentone-hv/hv-sync/internal/urlid"
)

// Participant is one player's per-game statline, per spec §4.2's
// game-participation extractor.
type Participant struct {
	PlayerHVID  string
	Name        string
	Goals       int
	GreenCards  int
	YellowCards int
	RedCards    int
}

// Participation parses the per-game player stat rows from a game detail
// page.
func Participation(page []byte) ([]Participant, []Warning) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(page)))
	if err != nil {
		return nil, []Warning{{Context: "participation", Reason: err.Error()}}
	}

	var out []Participant
	var warnings []Warning

	doc.Find("table.player-stats tbody tr, table.lineup tbody tr").Each(func(_ int, tr *goquery.Selection) {
		link := tr.Find("a[href]").First()
		href, _ := link.Attr("href")
		playerID, ok := urlid.ParsePlayerID(href)
		name := cleanText(link.Text())
		if !ok || name == "" {
			warnings = append(warnings, Warning{Context: "participation row", Reason: "missing player id or name"})
			return
		}

		cells := tr.Find("td")
		texts := make([]string, 0, cells.Length())
		cells.Each(func(_ int, c *goquery.Selection) { texts = append(texts, cleanText(c.Text())) })

		p := Participant{PlayerHVID: playerID, Name: name}
		numericTail := lastNInts(texts, 4)
		if len(numericTail) == 4 {
			p.Goals, p.GreenCards, p.YellowCards, p.RedCards =
				numericTail[0], numericTail[1], numericTail[2], numericTail[3]
		}

		out = append(out, p)
	})

	return out, warnings
}
