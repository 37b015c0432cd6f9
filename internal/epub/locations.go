package epub

import "fmt"

// DefaultLocationSize is the rune span of one location. The value matches
// the break interval the web reader generates, so percentages line up across
// clients.
const DefaultLocationSize = 1650

// span is one location: a fixed-size rune window within a chapter.
type span struct {
	chapter int
	start   int // rune offset within the chapter
}

// Locations is a fixed, fine-grained partitioning of the whole book used to
// estimate completion. Generated once per load; never persisted.
type Locations struct {
	spans      []span
	size       int
	totalRunes int
	// runesBefore[i] is the rune count of chapters 0..i-1.
	runesBefore []int
}

// BuildLocations generates the location index. Call once after Open; a
// second call replaces the index.
func (d *Document) BuildLocations(size int) (*Locations, error) {
	if d.closed {
		return nil, ErrClosed
	}
	if size <= 0 {
		size = DefaultLocationSize
	}

	loc := &Locations{size: size, runesBefore: make([]int, len(d.Chapters))}
	for ci, ch := range d.Chapters {
		loc.runesBefore[ci] = loc.totalRunes
		loc.totalRunes += ch.Runes
		for off := 0; off == 0 || off < ch.Runes; off += size {
			loc.spans = append(loc.spans, span{chapter: ci, start: off})
		}
	}
	if loc.totalRunes == 0 {
		return nil, fmt.Errorf("epub: no text to index")
	}
	d.locations = loc
	return loc, nil
}

// Total returns the number of indexed locations.
func (l *Locations) Total() int {
	return len(l.spans)
}

// IndexOf returns the location index covering the given chapter and rune
// offset. Offsets past the chapter end clamp to its last location.
func (l *Locations) IndexOf(chapter, offset int) int {
	for i := len(l.spans) - 1; i >= 0; i-- {
		s := l.spans[i]
		if s.chapter < chapter || (s.chapter == chapter && s.start <= offset) {
			return i
		}
	}
	return 0
}

// PercentFromPosition is the document's intrinsic completion measure: the
// global rune offset of the position over the book's total runes, in 0–100.
func (l *Locations) PercentFromPosition(chapter, offset int) int {
	if chapter < 0 || chapter >= len(l.runesBefore) {
		return 0
	}
	global := l.runesBefore[chapter] + offset
	if global < 0 {
		global = 0
	}
	if global > l.totalRunes {
		global = l.totalRunes
	}
	return int(float64(global)/float64(l.totalRunes)*100 + 0.5)
}

// PercentFromIndex derives completion from the location index alone:
// index over total locations, in 0–100. Used when no finer position is
// available.
func (l *Locations) PercentFromIndex(index int) int {
	total := len(l.spans)
	if total == 0 {
		return 0
	}
	if index < 0 {
		index = 0
	}
	if index >= total {
		index = total - 1
	}
	if total == 1 {
		return 100
	}
	return int(float64(index)/float64(total-1)*100 + 0.5)
}
