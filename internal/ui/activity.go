package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/tenderdesk/internal/logtail"
)

type activityMsg struct {
	entries []logtail.Entry
	err     error
}

// refreshActivity reads the tail of the console's own log.
func (m *Model) refreshActivity() tea.Cmd {
	path := m.logPath
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		lines, err := logtail.Read(path, ActivityLines)
		if err != nil {
			return activityMsg{err: err}
		}
		return activityMsg{entries: logtail.ParseAll(lines)}
	}
}

func (m *Model) applyActivity(msg activityMsg) {
	m.activityErr = msg.err
	if msg.err != nil {
		return
	}
	atBottom := m.activity.AtBottom() || m.activity.TotalLineCount() == 0
	m.activity.SetContent(m.formatActivity(msg.entries))
	if atBottom {
		m.activity.GotoBottom()
	}
}

func (m *Model) formatActivity(entries []logtail.Entry) string {
	styles := m.theme.Styles()
	if len(entries) == 0 {
		return styles.FaintText.Render("No activity yet")
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Level == "" {
			lines = append(lines, styles.MutedText.Render(e.Raw))
			continue
		}
		level := styles.MutedText
		switch e.Level {
		case "WARN":
			level = styles.WarningText
		case "ERROR":
			level = styles.DangerText
		case "DEBUG":
			level = styles.FaintText
		}
		var b strings.Builder
		if !e.Time.IsZero() {
			b.WriteString(styles.FaintText.Render(e.Time.Format("15:04:05")))
			b.WriteString(" ")
		}
		b.WriteString(level.Render(padRight(e.Level, 5)))
		b.WriteString(" ")
		b.WriteString(styles.Text.Render(e.Message))
		for _, a := range e.Attrs {
			b.WriteString(" ")
			b.WriteString(styles.MutedText.Render(a.Key + "="))
			b.WriteString(styles.AccentText.Render(a.Value))
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}

func (m *Model) handleActivityKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Activity), key.Matches(msg, m.keys.Escape):
		m.showActivity = false
		return nil
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Top):
		m.activity.GotoTop()
		return nil
	case key.Matches(msg, m.keys.Bottom):
		m.activity.GotoBottom()
		return nil
	}
	var cmd tea.Cmd
	m.activity, cmd = m.activity.Update(msg)
	return cmd
}

func (m *Model) resizeActivity() {
	w := m.width - SidebarWidth - 3
	h := m.height - 6
	if w < 20 {
		w = 20
	}
	if h < 3 {
		h = 3
	}
	m.activity.Width = w
	m.activity.Height = h
}

func (m Model) renderActivity(width, height int) string {
	styles := m.theme.Styles()
	title := styles.AccentText.Bold(true).Render("Activity") + "  " + styles.FaintText.Render(truncateMiddle(m.logPath, width-12))
	if m.activityErr != nil {
		return title + "\n\n" + styles.DangerText.Render(m.activityErr.Error())
	}
	return title + "\n" + m.activity.View()
}
