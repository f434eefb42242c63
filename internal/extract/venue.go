package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// VenueDetail is the venue information recoverable from a game detail
// page, per spec §4.2's venue extractor.
type VenueDetail struct {
	Name      string
	Address   string
	FieldCode string
	MapURL    string
	Slug      string
}

// Venue parses venue fields from a game detail page and derives the
// slug: uppercased alphanumerics of name + "_" + first address segment,
// trimmed to <=50 characters, per spec §4.2.
func Venue(page []byte) (VenueDetail, []Warning) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(page)))
	if err != nil {
		return VenueDetail{}, []Warning{{Context: "venue", Reason: err.Error()}}
	}

	name := cleanText(doc.Find(".venue, .venue-name").First().Text())
	if name == "" {
		return VenueDetail{}, []Warning{{Context: "venue", Reason: "no venue name on page"}}
	}

	address := cleanText(doc.Find(".venue-address, .address").First().Text())
	fieldCode := cleanText(doc.Find(".venue-code, .court").First().Text())
	mapURL, _ := doc.Find("a.map-link, a[href*='maps.google'], a[href*='google.com/maps']").First().Attr("href")

	firstAddressSegment := address
	if idx := strings.Index(address, ","); idx >= 0 {
		firstAddressSegment = address[:idx]
	}

	return VenueDetail{
		Name:      name,
		Address:   address,
		FieldCode: fieldCode,
		MapURL:    mapURL,
		Slug:      slugify([]string{name, firstAddressSegment}, 50),
	}, nil
}
