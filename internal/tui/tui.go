// Package tui renders the operator console for the validator store.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

func padToWidth(s string, width int) string {
	current := runewidth.StringWidth(s)
	if current >= width {
		return s
	}
	return s + strings.Repeat(" ", width-current)
}

func separatorLine(width int) string {
	if width < 2 {
		return strings.Repeat("─", width)
	}
	return "├" + strings.Repeat("─", width-2) + "┤"
}

func formatInfoLine(text string, width int) string {
	if width < 2 {
		return padToWidth(text, width)
	}
	return "│" + padToWidth(text, width-2) + "│"
}

// StoreStats summarizes the store for the header section.
type StoreStats struct {
	Snapshots      int64
	Miners         int64
	Events         int64
	WalletMappings int64

	// Latest snapshot summary; LatestBlock is zero when no snapshot exists.
	LatestBlock   int64
	LatestTime    time.Time
	LatestMiners  int
	LatestVolume  float64
	RetentionDays int
}

// MinerRow is one leaderboard entry, ordered by score descending.
type MinerRow struct {
	UID            int64
	Hotkey         string
	Score          float64
	WeightedVolume float64
	EVMAddress     string // empty when the miner has no linked wallet
}

// StatsMsg is sent when store stats should be updated.
type StatsMsg struct {
	Stats StoreStats
}

// MinersMsg is sent when the leaderboard should be updated.
type MinersMsg struct {
	Miners []MinerRow
}

// Model holds the TUI state
type Model struct {
	stats  StoreStats
	miners []MinerRow
	width  int
	height int
}

// NewModel creates a new TUI model
func NewModel() Model {
	return Model{miners: []MinerRow{}}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case StatsMsg:
		m.stats = msg.Stats
		return m, nil

	case MinersMsg:
		m.miners = msg.Miners
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	}

	return m, nil
}

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	header := m.renderHeader()
	leaderboard := m.renderMiners()

	return lipgloss.JoinVertical(lipgloss.Left, header, leaderboard)
}

// renderHeader renders the top section: latest snapshot on the left, table
// growth on the right.
func (m Model) renderHeader() string {
	colWidth := (m.width - 3) / 2
	rightColWidth := m.width - colWidth - 3

	latestLine := "latest snapshot: none"
	timeLine := ""
	volumeLine := ""
	if m.stats.LatestBlock != 0 {
		latestLine = fmt.Sprintf("latest snapshot: block %d (%d miners)", m.stats.LatestBlock, m.stats.LatestMiners)
		timeLine = fmt.Sprintf("captured: %s", m.stats.LatestTime.Format("2006-01-02 15:04:05"))
		volumeLine = fmt.Sprintf("total volume: %.4f", m.stats.LatestVolume)
	}

	leftLines := []string{
		latestLine,
		timeLine,
		volumeLine,
	}

	rightLines := []string{
		fmt.Sprintf("snapshots=%d miners=%d", m.stats.Snapshots, m.stats.Miners),
		fmt.Sprintf("cached events=%d (kept %dd)", m.stats.Events, m.stats.RetentionDays),
		fmt.Sprintf("wallet mappings=%d", m.stats.WalletMappings),
	}

	var rows []string
	for i := 0; i < len(leftLines); i++ {
		left := leftLines[i]
		right := ""
		if i < len(rightLines) {
			right = rightLines[i]
		}

		if runewidth.StringWidth(left) > colWidth-2 {
			left = runewidth.Truncate(left, colWidth-2, "...")
		}
		if runewidth.StringWidth(right) > rightColWidth-2 {
			right = runewidth.Truncate(right, rightColWidth-2, "...")
		}

		rows = append(rows, fmt.Sprintf("│ %s│ %s│",
			padToWidth(left, colWidth-2),
			padToWidth(right, rightColWidth-2)))
	}

	topBorder := fmt.Sprintf("┌%s┬%s┐",
		strings.Repeat("─", colWidth),
		strings.Repeat("─", rightColWidth))
	separator := fmt.Sprintf("├%s┴%s┤",
		strings.Repeat("─", colWidth),
		strings.Repeat("─", rightColWidth))

	return topBorder + "\n" + strings.Join(rows, "\n") + "\n" + separator
}

// renderMiners renders the miner leaderboard table.
func (m Model) renderMiners() string {
	if len(m.miners) == 0 {
		return formatInfoLine(" no miner state recorded yet", m.width) + "\n" +
			"└" + strings.Repeat("─", m.width-2) + "┘"
	}

	// Header (~5 lines) and table borders eat into the height budget.
	maxRows := m.height - 8
	if maxRows <= 0 {
		return ""
	}

	rows := len(m.miners)
	if rows > maxRows {
		rows = maxRows
	}

	var lines []string
	for i := 0; i < rows; i++ {
		miner := m.miners[i]

		wallet := miner.EVMAddress
		if wallet == "" {
			wallet = "-"
		}

		hotkey := miner.Hotkey
		if len(hotkey) > 12 {
			hotkey = hotkey[:12] + "..."
		}

		line := fmt.Sprintf(" %3d  uid=%-4d  score=%-10.4f  volume=%-12.4f  %s  %s",
			i+1, miner.UID, miner.Score, miner.WeightedVolume, hotkey, wallet)
		lines = append(lines, formatInfoLine(runewidth.Truncate(line, m.width-2, "..."), m.width))
	}

	bottomBorder := "└" + strings.Repeat("─", m.width-2) + "┘"

	return strings.Join(lines, "\n") + "\n" +
		separatorLine(m.width) + "\n" +
		formatInfoLine(" Rank, UID, Score, Weighted Volume, Hotkey, Wallet", m.width) + "\n" +
		bottomBorder
}

// Run starts the TUI program
func Run(updateCh <-chan interface{}) error {
	m := NewModel()
	p := tea.NewProgram(m, tea.WithAltScreen())

	// Forward updates from the poller until the channel closes
	go func() {
		for data := range updateCh {
			switch v := data.(type) {
			case StoreStats:
				p.Send(StatsMsg{Stats: v})
			case []MinerRow:
				p.Send(MinersMsg{Miners: v})
			}
		}
		// Channel closed, quit TUI
		p.Quit()
	}()

	_, err := p.Run()
	return err
}
