package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/tenderdesk/internal/gateway"
	"github.com/five82/tenderdesk/internal/grid"
	"github.com/five82/tenderdesk/internal/toolbar"
	"github.com/five82/tenderdesk/internal/views"
)

type paymentScreen struct {
	invoices []gateway.Invoice
	payments []gateway.Payment
	cursor   int
}

func (s *paymentScreen) load(data views.PaymentsData) {
	s.invoices = data.Invoices
	s.payments = data.Payments
	if s.cursor >= len(s.invoices) {
		s.cursor = 0
	}
}

func (m *Model) paymentKey(msg tea.KeyMsg) tea.Cmd {
	s := m.payments
	switch {
	case key.Matches(msg, m.keys.Up):
		if s.cursor > 0 {
			s.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if s.cursor < len(s.invoices)-1 {
			s.cursor++
		}
	case key.Matches(msg, m.keys.Open):
		return m.paymentRecord()
	}
	return nil
}

// paymentRecord asks for the settlement amount of the selected invoice.
func (m *Model) paymentRecord() tea.Cmd {
	if !m.role.CanRecordPayment() {
		m.flash(toolbar.LevelError, "%s users cannot record payments", m.role.Title())
		return nil
	}
	s := m.payments
	if s.cursor >= len(s.invoices) {
		m.flash(toolbar.LevelInfo, "No invoice selected")
		return nil
	}
	inv := s.invoices[s.cursor]
	if !inv.Pending() {
		m.flash(toolbar.LevelInfo, "Invoice %s is already paid", inv.InvoiceNumber)
		return nil
	}
	p := newPrompt(promptAmount, "Settle "+inv.InvoiceNumber, "amount")
	p.input.SetValue(money(inv.TotalPayable))
	p.target = inv.ID
	m.prompt = p
	return nil
}

func (m *Model) paymentSubmit(invoiceID int64, amount string) tea.Cmd {
	payment, err := views.Payment(invoiceID, grid.ParseNumber(amount))
	if err != nil {
		m.flash(toolbar.LevelError, "%s", err)
		return nil
	}
	return m.submit("Record payment", true, func(ctx context.Context, svc gateway.Service) (string, error) {
		created, err := svc.CreatePayment(ctx, payment)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Payment %s recorded, commission %s", created.TransactionID, money(created.CommissionAmount)), nil
	})
}

func (m Model) renderPayments(width int) string {
	styles := m.theme.Styles()
	s := m.payments
	var b strings.Builder

	b.WriteString(styles.MutedText.Render("Invoices") + "\n")
	if len(s.invoices) == 0 {
		b.WriteString(styles.FaintText.Render("No invoices") + "\n")
	}
	for i, inv := range s.invoices {
		line := padRight(inv.InvoiceNumber, 16) + " " +
			padRight("PO #"+idString(inv.POID), 10) + " " +
			padRight(money(inv.TotalPayable), 14) + " "
		badge := styles.StatusStyle(inv.Status).Render(inv.Status)
		if i == s.cursor && m.focus == focusContent {
			b.WriteString(styles.Selected.Render("› "+line) + badge + "\n")
		} else {
			b.WriteString(styles.Text.Render("  "+line) + badge + "\n")
		}
	}

	b.WriteString("\n" + styles.MutedText.Render("History") + "\n")
	if len(s.payments) == 0 {
		b.WriteString(styles.FaintText.Render("No payments recorded"))
		return b.String()
	}
	for _, p := range s.payments {
		date := p.PaymentDate
		if len(date) > 10 {
			date = date[:10]
		}
		b.WriteString(styles.Text.Render(padRight(p.TransactionID, 14)) + " " +
			styles.MutedText.Render(padRight("invoice #"+idString(p.InvoiceID), 12)) + " " +
			styles.Text.Render(padRight(money(p.AmountPaid), 12)) + " " +
			styles.FaintText.Render(padRight("fee "+money(p.CommissionAmount), 14)) + " " +
			styles.MutedText.Render(truncate(p.PaymentMode+" "+date, width-60)) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
