package epub

import (
	"strings"
	"testing"
)

func openTestBook(t *testing.T) *Document {
	t.Helper()
	doc, err := Open(testBook(t))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(doc.Close)
	if _, err := doc.BuildLocations(DefaultLocationSize); err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestNewPaginator_RequiresLocations(t *testing.T) {
	doc, err := Open(testBook(t))
	if err != nil {
		t.Fatal(err)
	}
	defer doc.Close()

	if _, err := NewPaginator(doc, 80, 24); err == nil {
		t.Fatal("paginating without a location index should fail")
	}
}

func TestPaginator_NoWraparound(t *testing.T) {
	doc := openTestBook(t)
	p, err := NewPaginator(doc, 40, 10)
	if err != nil {
		t.Fatal(err)
	}

	first := p.CurrentLocation()
	if first.Page != 0 {
		t.Fatalf("start page = %d", first.Page)
	}

	// Previous at the first page stays put.
	if loc := p.Previous(); loc.Page != 0 {
		t.Errorf("Previous at start moved to page %d", loc.Page)
	}

	// Walk to the end.
	var loc Location
	for i := 0; i < first.TotalPages+5; i++ {
		loc = p.Next()
	}
	if loc.Page != loc.TotalPages-1 {
		t.Errorf("Next past end landed on %d/%d", loc.Page, loc.TotalPages)
	}
	if loc.Percent != 100 {
		t.Errorf("last page percent = %d, want 100", loc.Percent)
	}

	// Next at the last page stays put.
	if again := p.Next(); again.Page != loc.Page {
		t.Errorf("Next at end moved to page %d", again.Page)
	}
}

func TestPaginator_PercentNeverDecreases(t *testing.T) {
	doc := openTestBook(t)
	p, err := NewPaginator(doc, 40, 8)
	if err != nil {
		t.Fatal(err)
	}

	prev := p.CurrentLocation().Percent
	for {
		loc := p.Next()
		if loc.Percent < prev {
			t.Fatalf("percent decreased: %d -> %d at page %d", prev, loc.Percent, loc.Page)
		}
		prev = loc.Percent
		if loc.Page == loc.TotalPages-1 {
			break
		}
	}
}

func TestPaginator_LabelFallsBackToLastKnown(t *testing.T) {
	doc := openTestBook(t)
	p, err := NewPaginator(doc, 40, 10)
	if err != nil {
		t.Fatal(err)
	}

	// Walk to the last page; chapter 3 has no nav label, so the location
	// should carry the previous chapter's label forward.
	var loc Location
	for i := 0; i < p.CurrentLocation().TotalPages; i++ {
		loc = p.Next()
	}
	if loc.ChapterLabel != "Chapter Two" {
		t.Errorf("label on unlabeled chapter = %q, want fallback to Chapter Two", loc.ChapterLabel)
	}
}

func TestPaginator_LinesFitViewport(t *testing.T) {
	doc := openTestBook(t)
	const width, height = 30, 6
	p, err := NewPaginator(doc, width, height)
	if err != nil {
		t.Fatal(err)
	}

	for {
		lines := p.Lines()
		if len(lines) == 0 || len(lines) > height {
			t.Fatalf("page has %d lines for height %d", len(lines), height)
		}
		for _, line := range lines {
			if n := len([]rune(line)); n > width {
				t.Fatalf("line %q is %d runes for width %d", line, n, width)
			}
		}
		loc := p.Next()
		if loc.Page == loc.TotalPages-1 {
			break
		}
	}
}

func TestPaginator_ResizeKeepsPosition(t *testing.T) {
	doc := openTestBook(t)
	p, err := NewPaginator(doc, 40, 10)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		p.Next()
	}
	before := p.CurrentLocation()

	if err := p.Resize(60, 20); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	after := p.CurrentLocation()

	// Different geometry, roughly the same place in the book. The new page
	// starts at or before the old offset, so percent may only drop a little.
	if diff := after.Percent - before.Percent; diff < -25 || diff > 5 {
		t.Errorf("percent jumped on resize: %d -> %d", before.Percent, after.Percent)
	}
}

func TestPaginator_SeekPercent(t *testing.T) {
	doc := openTestBook(t)
	p, err := NewPaginator(doc, 40, 10)
	if err != nil {
		t.Fatal(err)
	}

	loc := p.SeekPercent(50)
	if loc.Percent < 35 || loc.Percent > 55 {
		t.Errorf("SeekPercent(50) landed at %d%%", loc.Percent)
	}

	if loc := p.SeekPercent(0); loc.Page != 0 {
		t.Errorf("SeekPercent(0) = page %d, want 0", loc.Page)
	}
	if loc := p.SeekPercent(100); loc.Page != loc.TotalPages-1 {
		t.Errorf("SeekPercent(100) = page %d/%d, want last", loc.Page, loc.TotalPages)
	}
}

func TestWrapText(t *testing.T) {
	text := "alpha beta gamma delta\n\nsecond paragraph"
	lines, offsets := wrapText(text, 11)

	if len(lines) != len(offsets) {
		t.Fatalf("lines/offsets length mismatch: %d vs %d", len(lines), len(offsets))
	}
	for _, line := range lines {
		if len([]rune(line)) > 11 {
			t.Errorf("line %q exceeds width", line)
		}
	}

	joined := strings.Join(lines, " ")
	if !strings.Contains(joined, "alpha") || !strings.Contains(joined, "paragraph") {
		t.Errorf("wrapped text lost words: %q", joined)
	}

	// A blank separator line marks the paragraph break.
	foundBlank := false
	for _, line := range lines {
		if line == "" {
			foundBlank = true
		}
	}
	if !foundBlank {
		t.Error("paragraph break should produce a blank line")
	}

	// Offsets must be non-decreasing and start at zero.
	if offsets[0] != 0 {
		t.Errorf("first offset = %d", offsets[0])
	}
	for i := 1; i < len(offsets); i++ {
		if offsets[i] < offsets[i-1] {
			t.Errorf("offsets not monotonic at %d: %v", i, offsets)
		}
	}
}

func TestWrapText_HardSplitsLongRuns(t *testing.T) {
	lines, _ := wrapText(strings.Repeat("x", 25), 10)
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	for _, line := range lines[:2] {
		if len(line) != 10 {
			t.Errorf("hard-split line %q, want full width", line)
		}
	}
}
