package tui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

// ProgressReader wraps an io.Reader and reports bytes read on a channel.
type ProgressReader struct {
	reader     io.Reader
	total      int64
	read       int64
	updates    chan int64
	lastReport int64
}

// NewProgressReader creates a reader that reports download progress.
func NewProgressReader(r io.Reader, total int64, updates chan int64) *ProgressReader {
	return &ProgressReader{reader: r, total: total, updates: updates}
}

func (pr *ProgressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	pr.read += int64(n)

	if pr.updates != nil && n > 0 {
		// Report every 256 KiB or on completion; book payloads are small
		// enough that finer updates just churn the UI.
		const updateInterval = 256 * 1024
		sinceLast := pr.read - pr.lastReport
		isComplete := err == io.EOF || (pr.total > 0 && pr.read >= pr.total)

		if sinceLast >= updateInterval || isComplete {
			select {
			case pr.updates <- pr.read:
				pr.lastReport = pr.read
			default:
				// Channel full, skip this update
			}
		}
	}
	return n, err
}

type downloadMsg int64

type downloadTickMsg time.Time

// downloadModel shows a progress bar while book content streams in.
type downloadModel struct {
	progress  progress.Model
	total     int64
	current   int64
	label     string
	done      bool
	cancelled bool
	updates   <-chan int64
}

func (m downloadModel) Init() tea.Cmd {
	return tea.Batch(downloadTick(), waitForDownload(m.updates))
}

func downloadTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return downloadTickMsg(t)
	})
}

func waitForDownload(ch <-chan int64) tea.Cmd {
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return downloadMsg(-1)
		}
		return downloadMsg(n)
	}
}

func (m downloadModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.done = true
			m.cancelled = true
			return m, tea.Quit
		}

	case downloadTickMsg:
		if m.done {
			return m, tea.Quit
		}
		return m, downloadTick()

	case downloadMsg:
		if int64(msg) == -1 {
			m.done = true
			return m, tea.Quit
		}
		m.current = int64(msg)
		if m.total > 0 && m.current >= m.total {
			m.done = true
			return m, tea.Quit
		}
		return m, waitForDownload(m.updates)

	case tea.WindowSizeMsg:
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		return m, nil
	}

	return m, nil
}

func (m downloadModel) View() string {
	if m.done {
		return ""
	}

	percent := 0.0
	if m.total > 0 {
		percent = float64(m.current) / float64(m.total)
	}

	currentMB := float64(m.current) / 1024 / 1024
	totalMB := float64(m.total) / 1024 / 1024

	return fmt.Sprintf(
		"%s\n%s\n%.2f MB / %.2f MB (%.0f%%)\n",
		m.label,
		m.progress.ViewAs(percent),
		currentMB,
		totalMB,
		percent*100,
	)
}

// ShowDownload displays a progress bar while content streams through a
// ProgressReader feeding updates. Returns an error if the user cancels.
func ShowDownload(label string, total int64, updates <-chan int64) error {
	m := downloadModel{
		progress: progress.New(progress.WithDefaultGradient()),
		total:    total,
		label:    label,
		updates:  updates,
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := finalModel.(downloadModel); ok && fm.cancelled {
		return fmt.Errorf("cancelled by user")
	}
	return nil
}
