package epub

import (
	"errors"
	"strings"
)

// Location is where the reader currently is. Produced on every relocation
// and handed to the progress synchronizer.
type Location struct {
	ChapterLabel string
	Percent      int // 0–100
	Page         int // zero-based page index
	TotalPages   int
}

// page is one viewport of wrapped lines.
type page struct {
	chapter int
	offset  int // rune offset of the page start within its chapter
	lines   []string
}

// Paginator presents a Document as discrete pages sized to a viewport.
// Page geometry is rebuilt on Resize; the location index is not, so
// percentages stay stable across viewport changes.
type Paginator struct {
	doc       *Document
	pages     []page
	current   int
	lastLabel string
}

// NewPaginator lays out the document for a width×height character viewport.
// The document must have its location index built.
func NewPaginator(doc *Document, width, height int) (*Paginator, error) {
	if doc.closed {
		return nil, ErrClosed
	}
	if doc.locations == nil {
		return nil, errors.New("epub: build locations before paginating")
	}
	p := &Paginator{doc: doc}
	if err := p.layout(width, height); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Paginator) layout(width, height int) error {
	if width < 1 || height < 1 {
		return errors.New("epub: viewport too small")
	}
	var pages []page
	for ci, ch := range p.doc.Chapters {
		lines, offsets := wrapText(ch.Text, width)
		if len(lines) == 0 {
			continue
		}
		for start := 0; start < len(lines); start += height {
			end := start + height
			if end > len(lines) {
				end = len(lines)
			}
			pages = append(pages, page{
				chapter: ci,
				offset:  offsets[start],
				lines:   lines[start:end],
			})
		}
	}
	if len(pages) == 0 {
		return errors.New("epub: document produced no pages")
	}
	p.pages = pages
	if p.current >= len(pages) {
		p.current = len(pages) - 1
	}
	return nil
}

// Resize re-wraps the document for a new viewport, keeping the current
// chapter position as close as possible.
func (p *Paginator) Resize(width, height int) error {
	cur := p.pages[p.current]
	if err := p.layout(width, height); err != nil {
		return err
	}
	// Land on the page covering the old chapter offset.
	for i, pg := range p.pages {
		if pg.chapter > cur.chapter || (pg.chapter == cur.chapter && pg.offset > cur.offset) {
			if i > 0 {
				i--
			}
			p.current = i
			return nil
		}
	}
	p.current = len(p.pages) - 1
	return nil
}

// Lines returns the current page's wrapped lines.
func (p *Paginator) Lines() []string {
	return p.pages[p.current].lines
}

// Next advances one page. At the last page it is a no-op — no wraparound.
func (p *Paginator) Next() Location {
	if p.current < len(p.pages)-1 {
		p.current++
	}
	return p.CurrentLocation()
}

// Previous retreats one page. At the first page it is a no-op.
func (p *Paginator) Previous() Location {
	if p.current > 0 {
		p.current--
	}
	return p.CurrentLocation()
}

// SeekPercent jumps to the last page starting at or before the given global
// completion percentage. Used to resume a book at its saved progress.
func (p *Paginator) SeekPercent(percent int) Location {
	if percent <= 0 {
		p.current = 0
		return p.CurrentLocation()
	}
	if percent > 100 {
		percent = 100
	}

	loc := p.doc.locations
	target := int(float64(percent) / 100 * float64(loc.totalRunes))

	p.current = 0
	for i, pg := range p.pages {
		if loc.runesBefore[pg.chapter]+pg.offset <= target {
			p.current = i
		} else {
			break
		}
	}
	return p.CurrentLocation()
}

// CurrentLocation reports the present position. The chapter label is
// best-effort: chapters without nav entries inherit the last known label.
// Percent prefers the intrinsic rune-offset measure and falls back to
// location-index over total.
func (p *Paginator) CurrentLocation() Location {
	pg := p.pages[p.current]
	ch := p.doc.Chapters[pg.chapter]

	if ch.Label != "" {
		p.lastLabel = ch.Label
	}

	loc := p.doc.locations
	var percent int
	if loc.totalRunes > 0 {
		percent = loc.PercentFromPosition(pg.chapter, pg.offset)
	} else {
		percent = loc.PercentFromIndex(loc.IndexOf(pg.chapter, pg.offset))
	}
	// The last page reads as finished even when rounding falls short.
	if p.current == len(p.pages)-1 {
		percent = 100
	}

	return Location{
		ChapterLabel: p.lastLabel,
		Percent:      percent,
		Page:         p.current,
		TotalPages:   len(p.pages),
	}
}

// wrapText greedily word-wraps text into lines of at most width runes.
// offsets[i] is the rune offset (within text) where line i starts, used to
// anchor pages in the location index. Paragraph breaks become blank lines.
func wrapText(text string, width int) (lines []string, offsets []int) {
	runeOffset := 0
	paragraphs := strings.Split(text, "\n\n")
	for pi, para := range paragraphs {
		if pi > 0 {
			// Account for the separator runes.
			runeOffset += 2
			lines = append(lines, "")
			offsets = append(offsets, runeOffset)
		}
		wrapParagraph(para, width, runeOffset, &lines, &offsets)
		runeOffset += len([]rune(para))
	}
	return lines, offsets
}

func wrapParagraph(para string, width, base int, lines *[]string, offsets *[]int) {
	runes := []rune(para)
	if len(runes) == 0 {
		return
	}
	lineStart := 0
	for lineStart < len(runes) {
		end := lineStart + width
		if end >= len(runes) {
			end = len(runes)
		} else {
			// Break on the last space that fits; hard-split unbroken runs.
			brk := -1
			for i := end; i > lineStart; i-- {
				if runes[i-1] == ' ' {
					brk = i
					break
				}
			}
			if brk > lineStart {
				end = brk
			}
		}
		line := strings.TrimRight(string(runes[lineStart:end]), " ")
		*lines = append(*lines, line)
		*offsets = append(*offsets, base+lineStart)
		for end < len(runes) && runes[end] == ' ' {
			end++
		}
		lineStart = end
	}
}
