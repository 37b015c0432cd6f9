package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/blackwell-systems/readctl/internal/library"
	"github.com/charmbracelet/bubbles/list"
)

// BookItem wraps a catalog book for list display.
type BookItem struct {
	Book library.Book
}

// FilterValue implements list.Item.
func (b BookItem) FilterValue() string {
	author := ""
	if b.Book.Author != nil {
		author = *b.Book.Author
	}
	return b.Book.Title + " " + author
}

// EntryItem wraps a library entry for list display.
type EntryItem struct {
	Entry library.Entry
}

// FilterValue implements list.Item.
func (e EntryItem) FilterValue() string {
	author := ""
	if e.Entry.Author != nil {
		author = *e.Entry.Author
	}
	return e.Entry.Title + " " + author + " " + string(e.Entry.Status)
}

// shelfBadge is the short shelf tag shown next to an entry.
func shelfBadge(s library.Status) string {
	switch s {
	case library.StatusReading:
		return "reading"
	case library.StatusToRead:
		return "up next"
	case library.StatusFinished:
		return "finished"
	case library.StatusAbandoned:
		return "abandoned"
	}
	return string(s)
}

// padOrTruncate pads s to exactly width visible chars, truncating with "…"
// if necessary. Rune count, not bytes, so UTF-8 titles align.
func padOrTruncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	n := len(runes)
	if n > width {
		if width <= 1 {
			return "…"
		}
		return string(runes[:width-1]) + "…"
	}
	if n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// renderBookItem renders a catalog book row.
func renderBookItem(w io.Writer, m list.Model, index int, item list.Item) {
	bi, ok := item.(BookItem)
	if !ok {
		return
	}

	author := ""
	if bi.Book.Author != nil {
		author = *bi.Book.Author
	}
	title := padOrTruncate(bi.Book.Title, 48)

	flag := ""
	if bi.Book.InLibrary {
		flag = StyleCached.Render("✓ in library")
	}

	if index == m.Index() {
		_, _ = fmt.Fprint(w, StyleHighlight.Render("› "+title)+" "+StyleHelp.Render(author)+" "+flag)
	} else {
		_, _ = fmt.Fprint(w, "  "+StyleNormal.Render(title)+" "+StyleHelp.Render(author)+" "+flag)
	}
}

// renderEntryItem renders a library entry row with shelf and progress.
func renderEntryItem(w io.Writer, m list.Model, index int, item list.Item) {
	ei, ok := item.(EntryItem)
	if !ok {
		return
	}

	title := padOrTruncate(ei.Entry.Title, 44)
	badge := StyleTag.Render(fmt.Sprintf("[%s]", shelfBadge(ei.Entry.Status)))

	progress := ""
	if ei.Entry.Status == library.StatusReading && ei.Entry.Progress != nil {
		progress = StyleCached.Render(fmt.Sprintf("%3.0f%%", *ei.Entry.Progress))
	}

	if index == m.Index() {
		_, _ = fmt.Fprint(w, StyleHighlight.Render("› "+title)+" "+badge+" "+progress)
	} else {
		_, _ = fmt.Fprint(w, "  "+StyleNormal.Render(title)+" "+badge+" "+progress)
	}
}
