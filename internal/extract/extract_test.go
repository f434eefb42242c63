package extract

import "testing"

func TestExtractNumber(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"12", 12, true},
		{"-3", -3, true},
		{"−5", -5, true}, // unicode minus
		{"Pts: 21", 21, true},
		{"no digits here", 0, false},
	}
	for _, c := range cases {
		got, ok := extractNumber(c.in)
		if ok != c.ok || (ok && got != c.want) {
			t.Errorf("extractNumber(%q) = %d,%v want %d,%v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestSlugify(t *testing.T) {
	got := slugify([]string{"Mentone Grammar Hockey Centre", "10 Venue Rd"}, 50)
	if got == "" {
		t.Fatalf("expected non-empty slug")
	}
	for _, r := range got {
		if !((r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_') {
			t.Fatalf("slug contains unexpected char %q in %q", r, got)
		}
	}
	if len(got) > 50 {
		t.Fatalf("slug exceeds 50 chars: %q", got)
	}
}

func TestParseGameDateTime(t *testing.T) {
	tm, ok := parseGameDateTime("Sat 12 Apr 2025 14:30 vs Someone")
	if !ok {
		t.Fatalf("expected a match")
	}
	if tm.IsZero() {
		t.Fatalf("expected non-zero time")
	}
}

func TestParseScorePair(t *testing.T) {
	h, a, ok := parseScorePair("3 - 2")
	if !ok || h != 3 || a != 2 {
		t.Fatalf("got %d-%d ok=%v", h, a, ok)
	}
	h, a, ok = parseScorePair("1 − 4") // unicode minus as separator
	if !ok || h != 1 || a != 4 {
		t.Fatalf("got %d-%d ok=%v", h, a, ok)
	}
}

func TestDetectStatusToken(t *testing.T) {
	if detectStatusToken("Match was postponed due to rain") != "postponed" {
		t.Fatalf("expected postponed")
	}
	if detectStatusToken("Final score 3-2") != "" {
		t.Fatalf("expected no keyword")
	}
}

func TestCompetitionsExtractor(t *testing.T) {
	html := []byte(`
<html><body>
<div class="card">
  <h2>Senior Pennant</h2>
  <a href="/reports/games/22076">Games</a>
</div>
<div class="card">
  <a href="/games/22076/37393">Men's Pennant A</a>
  <a href="/games/22076/37394">Men's Pennant B</a>
</div>
</body></html>`)

	blocks, warnings := Competitions(html)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(blocks) == 0 {
		t.Fatalf("expected at least one competition block")
	}
	found := false
	for _, b := range blocks {
		if b.ParentCompID == "22076" && len(b.Grades) > 0 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a block with parent_comp_id 22076 and grades, got %+v", blocks)
	}
}

func TestLadderExtractor(t *testing.T) {
	html := []byte(`
<html><body>
<table><tbody>
<tr><td><a href="/games/team/22076/337089">Mentone</a></td><td>10</td><td>8</td><td>1</td><td>1</td><td>0</td><td>40</td><td>10</td><td>30</td><td>24</td></tr>
</tbody></table>
</body></html>`)

	rows, warnings := Ladder(html)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	row := rows[0]
	if row.TeamName != "Mentone" || row.TeamHVID != "337089" || row.Points != 24 {
		t.Fatalf("unexpected row: %+v", row)
	}
}

func TestGameDetailResult(t *testing.T) {
	html := []byte(`<html><body><h1>3 - 2</h1></body></html>`)
	detail, warnings := GameDetailResult(html)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if detail.HomeScore == nil || detail.AwayScore == nil || *detail.HomeScore != 3 || *detail.AwayScore != 2 {
		t.Fatalf("unexpected detail: %+v", detail)
	}
	if detail.Status != "completed" {
		t.Fatalf("expected completed status, got %q", detail.Status)
	}
}

func TestGameDetailResultSpecialStatus(t *testing.T) {
	html := []byte(`<html><body><h1>Game abandoned</h1><p>This match was abandoned due to weather.</p></body></html>`)
	detail, _ := GameDetailResult(html)
	if detail.Status != "abandoned" {
		t.Fatalf("expected abandoned status, got %q", detail.Status)
	}
}
