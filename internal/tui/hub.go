package tui

import (
	"fmt"
	"io"

	"github.com/blackwell-systems/readctl/internal/tui/delegate"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// MenuItem represents an action in the hub menu.
type MenuItem struct {
	Key         string
	Label       string
	Description string
	NeedsAuth   bool // greyed out when signed out
}

// FilterValue implements list.Item.
func (m MenuItem) FilterValue() string {
	return m.Label + " " + m.Description
}

// HubContext holds status info to display in the hub header.
type HubContext struct {
	Email     string // empty when signed out
	Tier      string
	BookCount int // library size; -1 when unknown
}

// menuItems defines the menu in logical order.
var menuItems = []MenuItem{
	{Key: "library", Label: "My Library", Description: "Browse your shelves and open a book", NeedsAuth: true},
	{Key: "discover", Label: "Discover", Description: "Page through the catalog", NeedsAuth: false},
	{Key: "add", Label: "Add Book", Description: "Shelve a catalog book onto to-read", NeedsAuth: true},
	{Key: "status", Label: "Account", Description: "Show signed-in user and subscription", NeedsAuth: false},
	{Key: "subscribe", Label: "Upgrade", Description: "Start a Pro subscription checkout", NeedsAuth: true},
	{Key: "quit", Label: "Quit", Description: "Exit readctl", NeedsAuth: false},
}

func renderMenuItem(w io.Writer, m list.Model, index int, item list.Item) {
	menuItem, ok := item.(MenuItem)
	if !ok {
		return
	}

	display := fmt.Sprintf("%-14s %s", menuItem.Label, StyleHelp.Render(menuItem.Description))

	if index == m.Index() {
		_, _ = fmt.Fprint(w, StyleHighlight.Render("› "+display))
	} else {
		_, _ = fmt.Fprint(w, "  "+StyleNormal.Render(display))
	}
}

type hubModel struct {
	list     list.Model
	quitting bool
	action   string
	context  HubContext
}

var hubKeyMap = struct {
	quit, selectItem key.Binding
}{
	quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	selectItem: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
}

func (m hubModel) Init() tea.Cmd {
	return nil
}

func (m hubModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch {
		case key.Matches(msg, hubKeyMap.quit):
			m.quitting = true
			m.action = "quit"
			return m, tea.Quit

		case key.Matches(msg, hubKeyMap.selectItem):
			if item, ok := m.list.SelectedItem().(MenuItem); ok {
				m.action = item.Key
				m.quitting = true
				return m, tea.Quit
			}
		}

	case tea.WindowSizeMsg:
		const chrome = 6 // header, status line, padding
		h, v := StyleBorder.GetFrameSize()
		w := msg.Width - h - 4
		if w < 40 {
			w = 40
		}
		ht := msg.Height - v - chrome
		if ht < 5 {
			ht = 5
		}
		m.list.SetSize(w, ht)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m hubModel) View() string {
	if m.quitting {
		return ""
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("86")).
		Padding(0, 1).
		Render("readctl — Reading Tracker")

	status := "signed out"
	if m.context.Email != "" {
		status = m.context.Email
		if m.context.Tier != "" {
			status += " · " + m.context.Tier
		}
		if m.context.BookCount >= 0 {
			status += fmt.Sprintf(" · %d books", m.context.BookCount)
		}
	}
	statusBar := StyleHelp.Render("  " + status)

	content := lipgloss.JoinVertical(lipgloss.Left, header, statusBar, m.list.View())
	return lipgloss.NewStyle().Padding(1, 2).Render(StyleBorder.Render(content))
}

// RunHub shows the main menu and returns the chosen action key.
func RunHub(ctx HubContext) (string, error) {
	items := make([]list.Item, 0, len(menuItems))
	for _, mi := range menuItems {
		if mi.NeedsAuth && ctx.Email == "" {
			continue
		}
		items = append(items, mi)
	}

	d := delegate.New(renderMenuItem)
	l := list.New(items, d, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)

	m := hubModel{list: l, context: ctx}
	p := tea.NewProgram(m, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("running hub: %w", err)
	}

	if fm, ok := finalModel.(hubModel); ok && fm.action != "" {
		return fm.action, nil
	}
	return "quit", nil
}
