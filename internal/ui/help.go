package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/tenderdesk/internal/toolbar"
)

type helpSection struct {
	title string
	items []helpItem
}

type helpItem struct {
	key  string
	desc string
}

func bindingItem(b key.Binding) helpItem {
	h := b.Help()
	return helpItem{key: h.Key, desc: h.Desc}
}

// helpSections lists the bindings shown by the help overlay.
func (m Model) helpSections() []helpSection {
	k := m.keys
	bar := make([]helpItem, 0, len(toolbar.All()))
	for _, a := range toolbar.All() {
		bar = append(bar, helpItem{key: a.Key(), desc: a.Label()})
	}
	return []helpSection{
		{
			title: "Navigation",
			items: []helpItem{
				bindingItem(k.Focus),
				{"j/k", "Move down/up"},
				bindingItem(k.Open),
				{"[ ] < >", "Prev/next/first/last record"},
			},
		},
		{title: "Toolbar", items: bar},
		{
			title: "Screens",
			items: []helpItem{
				bindingItem(k.AddRow),
				bindingItem(k.RemoveRow),
				bindingItem(k.Left),
				bindingItem(k.Pick),
				{"v", "Set vendor"},
				bindingItem(k.Ack),
				bindingItem(k.Sign),
				bindingItem(k.Upload),
				bindingItem(k.Image),
				bindingItem(k.Pass),
			},
		},
		{
			title: "General",
			items: []helpItem{
				bindingItem(k.Activity),
				bindingItem(k.CycleTheme),
				bindingItem(k.Help),
				{"Q/ctrl+c", "Quit"},
			},
		},
	}
}

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()
	sections := m.helpSections()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 34)))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Warning)).
		Width(12)
	for i, section := range sections {
		b.WriteString(styles.AccentText.Bold(true).Render(section.title))
		b.WriteString("\n")
		for _, item := range section.items {
			b.WriteString(keyStyle.Render(item.key))
			b.WriteString(styles.Text.Render(item.desc))
			b.WriteString("\n")
		}
		if i < len(sections)-1 {
			b.WriteString("\n")
		}
	}

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(46)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}
