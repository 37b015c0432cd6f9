package tui

import (
	"fmt"

	"github.com/blackwell-systems/readctl/internal/library"
	"github.com/blackwell-systems/readctl/internal/tui/delegate"
	"github.com/blackwell-systems/readctl/internal/tui/picker"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// Browser actions, reported with the selected entry.
const (
	ActionRead   = "read"
	ActionUpdate = "update"
)

// BrowseResult is what the user picked in the shelf browser.
type BrowseResult struct {
	Entry  library.Entry
	Action string
}

type shelfBrowserModel struct {
	base   *picker.Base
	keys   StandardKeys
	result *BrowseResult
}

func (m *shelfBrowserModel) Init() tea.Cmd {
	return nil
}

func (m *shelfBrowserModel) pick(action string) bool {
	item, ok := m.base.SelectedItem().(EntryItem)
	if !ok {
		return false
	}
	m.result = &BrowseResult{Entry: item.Entry, Action: action}
	return true
}

func (m *shelfBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.base.Update(msg)
	return m, cmd
}

func (m *shelfBrowserModel) View() string {
	return m.base.View()
}

// RunShelfBrowser shows the library shelves in reading order and lets the
// user pick an entry to read (enter) or re-shelve (u).
func RunShelfBrowser(shelves library.Shelves) (BrowseResult, error) {
	var items []list.Item
	for _, status := range []library.Status{
		library.StatusReading,
		library.StatusToRead,
		library.StatusFinished,
		library.StatusAbandoned,
	} {
		for _, e := range shelves.ByStatus(status) {
			items = append(items, EntryItem{Entry: e})
		}
	}
	if len(items) == 0 {
		return BrowseResult{}, fmt.Errorf("library is empty")
	}

	d := delegate.New(renderEntryItem)
	l := list.New(items, d, 0, 0)
	l.Title = fmt.Sprintf("My Library — %d books", len(items))
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = StyleHeader
	l.Styles.PaginationStyle = StyleHelp
	l.Styles.HelpStyle = StyleHelp

	readKey := key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "read"),
	)
	updateKey := key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "re-shelve"),
	)
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{readKey, updateKey}
	}

	keys := NewStandardKeys()
	m := &shelfBrowserModel{keys: keys}

	m.base = picker.New(picker.Config{
		List:       l,
		QuitKeys:   keys.Quit,
		SelectKeys: keys.Select,
		OnSelect: func(item list.Item) bool {
			return m.pick(ActionRead)
		},
		OnKeyPress: func(msg tea.KeyMsg) (bool, tea.Cmd) {
			if msg.String() == "u" {
				if m.pick(ActionUpdate) {
					m.base.Quit()
					return true, tea.Quit
				}
			}
			return false, nil
		},
		ShowBorder:  true,
		BorderStyle: StyleBorder,
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return BrowseResult{}, fmt.Errorf("running TUI: %w", err)
	}

	if fm, ok := finalModel.(*shelfBrowserModel); ok {
		if fm.result != nil {
			return *fm.result, nil
		}
		if fm.base.Error() != nil {
			return BrowseResult{}, fm.base.Error()
		}
	}
	return BrowseResult{}, fmt.Errorf("canceled")
}
