package tui

import (
	"fmt"
	"strings"

	"github.com/blackwell-systems/readctl/internal/epub"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// readerChrome is the vertical space taken by the header and footer rows.
const readerChrome = 4

var readerKeyMap = struct {
	next, prev, quit key.Binding
}{
	next: key.NewBinding(
		key.WithKeys("right", "l", " ", "pgdown"),
		key.WithHelp("→/l", "next page"),
	),
	prev: key.NewBinding(
		key.WithKeys("left", "h", "pgup"),
		key.WithHelp("←/h", "previous page"),
	),
	quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// readerModel drives the paged reading view. The paginator is built lazily
// on the first WindowSizeMsg because page geometry depends on the terminal.
type readerModel struct {
	doc      *epub.Document
	pag      *epub.Paginator
	start    int // resume percentage, 0 to start at the beginning
	width    int
	height   int
	quitting bool
	err      error

	// onRelocate fires after every page turn and once on initial layout,
	// letting the caller record reading progress.
	onRelocate func(epub.Location)
}

func (m *readerModel) Init() tea.Cmd {
	return nil
}

func (m *readerModel) relocate(loc epub.Location) {
	if m.onRelocate != nil {
		m.onRelocate(loc)
	}
}

func (m *readerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.pag == nil {
			if key.Matches(msg, readerKeyMap.quit) {
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, readerKeyMap.quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, readerKeyMap.next):
			before := m.pag.CurrentLocation()
			loc := m.pag.Next()
			if loc.Page != before.Page {
				m.relocate(loc)
			}

		case key.Matches(msg, readerKeyMap.prev):
			before := m.pag.CurrentLocation()
			loc := m.pag.Previous()
			if loc.Page != before.Page {
				m.relocate(loc)
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		textWidth := msg.Width - 4
		if textWidth < 20 {
			textWidth = 20
		}
		textHeight := msg.Height - readerChrome
		if textHeight < 4 {
			textHeight = 4
		}

		if m.pag == nil {
			pag, err := epub.NewPaginator(m.doc, textWidth, textHeight)
			if err != nil {
				m.err = err
				return m, tea.Quit
			}
			m.pag = pag
			if m.start > 0 {
				m.pag.SeekPercent(m.start)
			}
			m.relocate(m.pag.CurrentLocation())
		} else if err := m.pag.Resize(textWidth, textHeight); err != nil {
			m.err = err
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m *readerModel) View() string {
	if m.quitting {
		return ""
	}
	if m.pag == nil {
		return "\n  loading…"
	}

	loc := m.pag.CurrentLocation()

	title := m.doc.Title
	if m.doc.Author != "" {
		title += " — " + m.doc.Author
	}
	header := StyleHeader.Render(" " + ansi.Truncate(title, m.width-2, "…") + " ")

	body := lipgloss.NewStyle().
		Padding(0, 2).
		Render(strings.Join(m.pag.Lines(), "\n"))

	left := loc.ChapterLabel
	right := fmt.Sprintf("%d%% · page %d/%d", loc.Percent, loc.Page, loc.TotalPages)
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if gap < 1 {
		left = ansi.Truncate(left, m.width-lipgloss.Width(right)-8, "…")
		gap = m.width - lipgloss.Width(left) - lipgloss.Width(right) - 4
		if gap < 1 {
			gap = 1
		}
	}
	footer := StyleHelp.Render("  " + left + strings.Repeat(" ", gap) + right)

	// Pad body to a fixed height so the footer stays anchored.
	bodyLines := strings.Count(body, "\n") + 1
	padding := m.height - readerChrome - bodyLines
	if padding > 0 {
		body += strings.Repeat("\n", padding)
	}

	return header + "\n\n" + body + "\n" + footer
}

// RunReader opens the paged reading view over doc, resuming at startPercent
// when it is positive. onRelocate is called with the current location after
// the initial layout and each page turn; pass nil to read without tracking.
func RunReader(doc *epub.Document, startPercent int, onRelocate func(epub.Location)) error {
	m := &readerModel{doc: doc, start: startPercent, onRelocate: onRelocate}

	p := tea.NewProgram(m, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("running reader: %w", err)
	}
	if fm, ok := finalModel.(*readerModel); ok && fm.err != nil {
		return fm.err
	}
	return nil
}
