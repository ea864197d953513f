package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/tenderdesk/internal/gateway"
	"github.com/five82/tenderdesk/internal/toolbar"
	"github.com/five82/tenderdesk/internal/views"
)

// renderMain renders header, toolbar, menu and the current screen.
func (m Model) renderMain() string {
	header := m.renderHeader()
	bar := m.renderToolbar()
	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(bar)
	if bodyHeight < 3 {
		bodyHeight = 3
	}

	sidebar := m.renderSidebar(bodyHeight)
	contentWidth := m.width - lipgloss.Width(sidebar) - 1
	if contentWidth < 20 {
		contentWidth = 20
	}
	var content string
	if m.showActivity {
		content = m.renderActivity(contentWidth, bodyHeight)
	} else {
		content = m.renderContent(contentWidth, bodyHeight)
	}
	content = lipgloss.NewStyle().Width(contentWidth).Height(bodyHeight).MaxHeight(bodyHeight).Render(content)

	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", content)
	return lipgloss.JoinVertical(lipgloss.Left, header, bar, body)
}

// renderHeader shows the signed-in user, the dashboard counters from the
// poller and an offline badge after repeated poll failures.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	name := m.user.FullName
	if name == "" {
		name = m.user.Username
	}
	parts := []string{
		bg.Render("tenderdesk", styles.Logo),
		bg.Render(name, styles.Text.Bold(true)) + bg.Space() + bg.Render("("+m.role.Title()+")", styles.MutedText),
	}

	snap := m.snapshot
	switch {
	case snap.IsOffline():
		parts = append(parts, bg.Render("● OFFLINE", styles.DangerText))
		if snap.LastError != nil {
			parts = append(parts, bg.Render(truncate(describeError(snap.LastError), 40), styles.WarningText))
		}
	case snap.HasCounts:
		parts = append(parts, bg.Render("● ONLINE", styles.SuccessText))
	default:
		parts = append(parts, bg.Render("Connecting...", styles.WarningText))
	}

	if snap.HasCounts && m.width >= LayoutCompactWidth {
		c := snap.Counts
		counter := func(label string, v int) string {
			return bg.Render(label, styles.MutedText) + bg.Space() + bg.Render(fmt.Sprintf("%d", v), styles.Text)
		}
		parts = append(parts,
			counter("Tenders", c.ActiveTenders),
			counter("Contracts", c.Contracts),
			counter("POs", c.PurchaseOrders),
			counter("Bills", c.PendingBills),
		)
	}
	if !snap.LastUpdated.IsZero() {
		parts = append(parts, bg.Render(snap.LastUpdated.Format("15:04:05"), styles.FaintText))
	}
	if m.apiURL != "" && m.width >= LayoutCompactWidth {
		parts = append(parts, bg.Render(truncateMiddle(m.apiURL, 32), styles.FaintText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, sep))
}

// renderToolbar renders the CRUD toolbar and, when set, the feedback message.
func (m Model) renderToolbar() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)

	buttons := make([]string, 0, len(toolbar.All()))
	for _, a := range toolbar.All() {
		buttons = append(buttons, bg.Render(a.Key(), styles.WarningText)+bg.Space()+bg.Render(a.Label(), styles.MutedText))
	}
	line := styles.Footer.Width(m.width).Render(bg.Join(buttons, "  "))

	if m.feedback.Visible(m.now()) {
		style := styles.AccentText
		switch m.feedback.Level {
		case toolbar.LevelSuccess:
			style = styles.SuccessText
		case toolbar.LevelError:
			style = styles.DangerText
		}
		line += "\n" + lipgloss.NewStyle().Padding(0, 1).Render(style.Render(m.feedback.Message))
	}
	return line
}

// renderSidebar renders the role-gated view menu.
func (m Model) renderSidebar(height int) string {
	styles := m.theme.Styles()
	lines := make([]string, 0, len(m.menu)+2)
	lines = append(lines, styles.MutedText.Render("VIEWS"), "")
	for i, n := range m.menu {
		label := padRight(" "+n.Title(), SidebarWidth-4)
		switch {
		case i == m.menuIdx && m.focus == focusMenu:
			lines = append(lines, styles.Selected.Render(label))
		case n == m.current:
			lines = append(lines, styles.AccentText.Bold(true).Render(label))
		default:
			lines = append(lines, styles.Text.Render(label))
		}
	}
	box := styles.Box
	if m.focus == focusMenu {
		box = styles.BoxFocus
	}
	return box.Width(SidebarWidth - 2).Height(height - 2).Render(strings.Join(lines, "\n"))
}

// renderContent renders the current screen, its loading placeholder or its
// failure state.
func (m Model) renderContent(width, height int) string {
	styles := m.theme.Styles()
	title := styles.AccentText.Bold(true).Render(m.current.Title())

	if m.loading {
		return title + "\n\n" + m.spinner.View() + " " + styles.MutedText.Render("Loading "+strings.ToLower(m.current.Title())+"...")
	}
	if m.loadErr != nil {
		return title + "\n\n" +
			styles.DangerText.Render("Could not load "+strings.ToLower(m.current.Title())) + "\n" +
			styles.MutedText.Render(describeError(m.loadErr)) + "\n\n" +
			styles.FaintText.Render("ctrl+r to retry")
	}

	var body string
	switch m.current {
	case views.Dashboard:
		body = m.renderDashboard(width)
	case views.Tenders:
		body = m.renderTenders(width, height-2)
	case views.Contracts:
		body = m.renderContracts(width)
	case views.Orders:
		body = m.renderOrders(width)
	case views.Delivery:
		body = m.renderDelivery(width)
	case views.Payments:
		body = m.renderPayments(width)
	}
	return title + "\n\n" + body
}

// describeError renders API errors by their detail and other errors as is.
func describeError(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return fmt.Sprintf("%s (HTTP %d)", apiErr.Detail, apiErr.Status)
	}
	return err.Error()
}
