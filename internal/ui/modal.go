package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// promptKind says what a submitted prompt value is used for.
type promptKind int

const (
	promptSearch promptKind = iota
	promptProofPath
	promptTenderImage
	promptRemarks
	promptAmount
	promptVendor
)

// prompt is a one-line modal input. Enter submits, esc dismisses.
type prompt struct {
	kind  promptKind
	title string
	input textinput.Model
	// target is the record the prompt applies to; extra holds a choice made
	// before the prompt opened, such as an inspection result.
	target int64
	extra  string
}

func newPrompt(kind promptKind, title, placeholder string) *prompt {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 512
	ti.Width = 48
	ti.Focus()
	return &prompt{kind: kind, title: title, input: ti}
}

// Update returns whether the prompt closed and whether it was submitted.
func (p *prompt) Update(msg tea.Msg) (cmd tea.Cmd, closed, submitted bool) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			return nil, true, true
		case "esc", "ctrl+g":
			return nil, true, false
		}
	}
	p.input, cmd = p.input.Update(msg)
	return cmd, false, false
}

// Value returns the submitted text.
func (p *prompt) Value() string {
	return p.input.Value()
}

func (p *prompt) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	body := styles.AccentText.Bold(true).Render(p.title) + "\n\n" +
		p.input.View() + "\n\n" +
		styles.FaintText.Render("enter to confirm, esc to cancel")
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(1, 2).
		Width(56).
		Render(body)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}
