package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mentone-hv/hv-sync/internal/urlid"
)

// GradeLink is one grade reference discovered under a competition block on
// the games index page.
type GradeLink struct {
	Name      string
	CompID    string
	FixtureID string
	URL       string
}

// CompetitionBlock is one competition heading plus the grade links found in
// its sibling containers, per spec §4.2's competitions-index extractor.
type CompetitionBlock struct {
	Name         string
	ParentCompID string
	Grades       []GradeLink
}

// competitionBlockSelector matches the heading-bearing container that
// starts a new competition section; sibling containers up to the next one
// belong to the same competition.
const competitionBlockSelector = ".card, .panel, section"

// Competitions parses the top-level games index page into an ordered list
// of competition blocks, each carrying its grade links, per spec §4.2.
func Competitions(page []byte) ([]CompetitionBlock, []Warning) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(page)))
	if err != nil {
		return nil, []Warning{{Context: "competitions-index", Reason: err.Error()}}
	}

	var blocks []CompetitionBlock
	var warnings []Warning
	var current *CompetitionBlock

	doc.Find(competitionBlockSelector).Each(func(_ int, sel *goquery.Selection) {
		heading := strings.TrimSpace(sel.Find("h1,h2,h3,h4").First().Text())

		compID, hasCompID := "", false
		sel.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
			href, _ := a.Attr("href")
			if id, ok := urlid.ParseCompetitionID(href); ok {
				compID, hasCompID = id, true
				return false
			}
			return true
		})

		if heading != "" && hasCompID {
			blocks = append(blocks, CompetitionBlock{Name: heading, ParentCompID: compID})
			current = &blocks[len(blocks)-1]
		}

		sel.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
			href, _ := a.Attr("href")
			cf, ok := urlid.ParseCompFixture(href)
			if !ok || cf.Round != 0 {
				return
			}
			if current == nil {
				blocks = append(blocks, CompetitionBlock{Name: heading, ParentCompID: cf.CompID})
				current = &blocks[len(blocks)-1]
			}
			gradeName := cleanText(a.Text())
			if gradeName == "" {
				gradeName = heading
			}
			current.Grades = append(current.Grades, GradeLink{
				Name:      gradeName,
				CompID:    cf.CompID,
				FixtureID: cf.FixtureID,
				URL:       href,
			})
		})
	})

	// Backfill parent comp id from first grade link where the action link
	// never supplied one, per spec §4.2 step 3.
	for i := range blocks {
		if blocks[i].ParentCompID == "" && len(blocks[i].Grades) > 0 {
			blocks[i].ParentCompID = blocks[i].Grades[0].CompID
		}
		if blocks[i].ParentCompID == "" {
			warnings = append(warnings, Warning{Context: "competition:" + blocks[i].Name, Reason: "no parent_comp_id resolvable"})
		}
	}

	return blocks, warnings
}
