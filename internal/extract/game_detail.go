package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// GameDetail is the result outcome decoded from a game page, per spec
// §4.2's game-detail extractor.
type GameDetail struct {
	HomeScore  *int
	AwayScore  *int
	WinnerText string
	Status     string // "completed" or one of the special-status keywords
}

// GameDetailResult parses the heading score, winner sentence, and any
// special-status keyword from a game page.
func GameDetailResult(page []byte) (GameDetail, []Warning) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(page)))
	if err != nil {
		return GameDetail{}, []Warning{{Context: "game-detail", Reason: err.Error()}}
	}

	var result GameDetail

	heading := cleanText(doc.Find("h1").First().Text())
	if h, a, ok := parseScorePair(heading); ok {
		result.HomeScore, result.AwayScore = &h, &a
		result.Status = "completed"
	}

	doc.Find("p, .winner, .result-summary").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := cleanText(sel.Text())
		lower := strings.ToLower(text)
		if strings.Contains(lower, "won by") || strings.Contains(lower, "defeated") || strings.Contains(lower, "drew") {
			result.WinnerText = text
			return false
		}
		return true
	})

	bodyText := cleanText(doc.Text())
	if keyword := detectStatusToken(bodyText); keyword != "" && result.Status == "" {
		result.Status = keyword
	}

	return result, nil
}
