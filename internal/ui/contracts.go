package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/tenderdesk/internal/gateway"
	"github.com/five82/tenderdesk/internal/toolbar"
	"github.com/five82/tenderdesk/internal/views"
)

type contractScreen struct {
	contracts []gateway.Contract
	tenders   []gateway.Tender
	cursor    int
	form      *form
}

func newContractScreen() *contractScreen {
	return &contractScreen{form: newForm(
		fieldSpec{key: "tender", label: "Tender #", placeholder: "tender id"},
		fieldSpec{key: "scope", label: "Scope", placeholder: "scope of work"},
	)}
}

func (s *contractScreen) load(data views.ContractsData) {
	s.contracts = data.Contracts
	s.tenders = data.Tenders
	s.form.Stop()
	s.form.Clear()
	if s.cursor >= len(s.contracts) {
		s.cursor = 0
	}
}

func (s *contractScreen) tenderTitle(id int64) string {
	for _, t := range s.tenders {
		if t.ID == id {
			return t.Title
		}
	}
	return "tender #" + idString(id)
}

func (m *Model) contractKey(msg tea.KeyMsg) tea.Cmd {
	s := m.contracts
	switch {
	case key.Matches(msg, m.keys.Up):
		if s.cursor > 0 {
			s.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if s.cursor < len(s.contracts)-1 {
			s.cursor++
		}
	case key.Matches(msg, m.keys.Sign):
		return m.contractSign()
	}
	return nil
}

// contractDraft opens the draft form.
func (m *Model) contractDraft() tea.Cmd {
	if !m.role.CanDraftContract() {
		m.flash(toolbar.LevelError, "%s users cannot draft contracts", m.role.Title())
		return nil
	}
	m.focus = focusContent
	m.contracts.form.Clear()
	return m.contracts.form.Edit()
}

func (m *Model) contractSave() tea.Cmd {
	s := m.contracts
	if !s.form.editing {
		m.flash(toolbar.LevelInfo, "Nothing to save")
		return nil
	}
	tenderID, _ := strconv.ParseInt(s.form.Value("tender"), 10, 64)
	contract, err := views.ContractDraft(tenderID, s.form.Value("scope"), m.now())
	if err != nil {
		m.flash(toolbar.LevelError, "%s", err)
		return nil
	}
	return m.submit("Draft contract", true, func(ctx context.Context, svc gateway.Service) (string, error) {
		created, err := svc.CreateContract(ctx, contract)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Contract %s drafted", created.DispatchID), nil
	})
}

// contractSign signs the selected contract as the current user.
func (m *Model) contractSign() tea.Cmd {
	s := m.contracts
	if s.cursor >= len(s.contracts) {
		return nil
	}
	c := s.contracts[s.cursor]
	if !m.role.CanSignContract(c.Status) {
		if c.Signed() {
			m.flash(toolbar.LevelInfo, "Contract is already signed")
		} else {
			m.flash(toolbar.LevelError, "%s users cannot sign contracts", m.role.Title())
		}
		return nil
	}
	signer := m.user.Username
	return m.submit("Sign contract", true, func(ctx context.Context, svc gateway.Service) (string, error) {
		if err := svc.SignContract(ctx, c.ID, signer); err != nil {
			return "", err
		}
		return fmt.Sprintf("Contract for %s signed", s.tenderTitle(c.TenderID)), nil
	})
}

func (m Model) renderContracts(width int) string {
	styles := m.theme.Styles()
	s := m.contracts
	var b strings.Builder

	if len(s.contracts) == 0 {
		b.WriteString(styles.FaintText.Render("No contracts yet") + "\n")
	}
	for i, c := range s.contracts {
		line := padRight(ternary(c.DispatchID != "", c.DispatchID, "#"+idString(c.ID)), 14) + " " +
			padRight(truncate(s.tenderTitle(c.TenderID), 30), 30) + " "
		badge := styles.StatusStyle(c.Status).Render(c.Status)
		vetting := styles.FaintText.Render("vetting " + strings.ToLower(c.VettingStatus))
		if i == s.cursor && m.focus == focusContent && !s.form.editing {
			b.WriteString(styles.Selected.Render("› "+line) + badge + " " + vetting + "\n")
		} else {
			b.WriteString(styles.Text.Render("  "+line) + badge + " " + vetting + "\n")
		}
	}

	if s.cursor < len(s.contracts) {
		c := s.contracts[s.cursor]
		b.WriteString("\n" + styles.MutedText.Render("Scope   ") + styles.Text.Render(truncate(c.ScopeOfWork, width-10)) + "\n")
		if c.Signed() && c.SignedDate != "" {
			b.WriteString(styles.MutedText.Render("Signed  ") + styles.Text.Render(c.SignedDate) + "\n")
		}
	}

	if s.form.editing {
		b.WriteString("\n" + styles.WarningText.Bold(true).Render("New contract") + "\n")
		b.WriteString(styles.BoxFocus.Width(min(width-4, 70)).Render(s.form.View(styles, min(width-8, 66))) + "\n")
		hints := make([]string, 0, len(s.tenders))
		for _, t := range s.tenders {
			if t.Active() {
				hints = append(hints, "#"+idString(t.ID)+" "+truncate(t.Title, 24))
			}
		}
		if len(hints) > 0 {
			b.WriteString(styles.FaintText.Render("Tenders: "+strings.Join(hints, ", ")) + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
