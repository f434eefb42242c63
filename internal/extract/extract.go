// Package extract holds the pure HTML-parsing functions described in
// spec §4.2, one per page kind. Each extractor is a pure function of page
// bytes (plus, where the page alone is ambiguous, a small context
// record); none touches the store or the network. Parsing uses
// github.com/PuerkitoBio/goquery, grounded in the other_examples scraper
// repos (Dvorinka-facr-scraper, Kmicac-smoothcomp-scraper) since the
// teacher repo has no HTML-parsing component of its own.
package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Warning is a structured parse warning produced when a required field on
// one record is malformed; the record is skipped but the page continues.
type Warning struct {
	Context string
	Reason  string
}

func (w Warning) Error() string {
	return fmt.Sprintf("%s: %s", w.Context, w.Reason)
}

var numberRe = regexp.MustCompile(`-?[\d]+`)

// cleanText collapses internal whitespace and trims, mirroring the
// original utils/parsing_utils.clean_text.
func cleanText(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}

// extractNumber pulls the first integer out of free text, accepting both
// an ASCII hyphen and the Unicode minus sign U+2212 as negative markers
// per spec §4.2's ladder extractor note.
func extractNumber(s string) (int, bool) {
	normalized := strings.ReplaceAll(s, "−", "-")
	m := numberRe.FindString(normalized)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

// slugify produces the uppercased-alphanumeric slug the venue extractor
// needs: name + "_" + first address segment, trimmed to <= maxLen.
func slugify(parts []string, maxLen int) string {
	var b strings.Builder
	for i, p := range parts {
		if i > 0 {
			b.WriteByte('_')
		}
		for _, r := range strings.ToUpper(p) {
			if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
				b.WriteRune(r)
			}
		}
	}
	s := b.String()
	if len(s) > maxLen {
		s = s[:maxLen]
	}
	return s
}
