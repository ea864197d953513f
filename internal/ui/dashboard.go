package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/tenderdesk/internal/views"
)

type dashboardScreen struct {
	tiles  []views.Tile
	cursor int
}

func (s *dashboardScreen) load(tiles []views.Tile) {
	s.tiles = tiles
	if s.cursor >= len(tiles) {
		s.cursor = 0
	}
}

func (m *Model) dashboardKey(msg tea.KeyMsg) tea.Cmd {
	s := m.dash
	switch {
	case key.Matches(msg, m.keys.Left), key.Matches(msg, m.keys.Up):
		if s.cursor > 0 {
			s.cursor--
		}
	case key.Matches(msg, m.keys.Right), key.Matches(msg, m.keys.Down):
		if s.cursor < len(s.tiles)-1 {
			s.cursor++
		}
	case key.Matches(msg, m.keys.Open):
		if s.cursor < len(s.tiles) {
			return m.switchTo(s.tiles[s.cursor].Target)
		}
	}
	return nil
}

func (m Model) renderDashboard(width int) string {
	styles := m.theme.Styles()
	name := m.user.FullName
	if name == "" {
		name = m.user.Username
	}
	intro := styles.Text.Render(fmt.Sprintf("Welcome, %s.", name)) + " " +
		styles.MutedText.Render("Signed in as "+m.role.Title()+".")

	if len(m.dash.tiles) == 0 {
		return intro + "\n\n" + styles.FaintText.Render("No summaries for this role")
	}

	cards := make([]string, 0, len(m.dash.tiles))
	for i, t := range m.dash.tiles {
		style := styles.Tile
		if i == m.dash.cursor && m.focus == focusContent {
			style = style.BorderForeground(lipgloss.Color(m.theme.BorderFocus))
		}
		body := styles.MutedText.Render(t.Title) + "\n" +
			styles.Text.Bold(true).Render(fmt.Sprintf("%d", t.Value))
		cards = append(cards, style.Render(body))
	}

	// Wrap cards into rows that fit the content width.
	var rows []string
	var row []string
	used := 0
	for _, c := range cards {
		w := lipgloss.Width(c) + 1
		if used+w > width && len(row) > 0 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row, used = nil, 0
		}
		row = append(row, c, " ")
		used += w
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}

	return intro + "\n\n" + lipgloss.JoinVertical(lipgloss.Left, rows...) + "\n\n" +
		styles.FaintText.Render("enter opens the selected summary")
}
