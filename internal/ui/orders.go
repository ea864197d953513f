package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/tenderdesk/internal/gateway"
	"github.com/five82/tenderdesk/internal/grid"
	"github.com/five82/tenderdesk/internal/roles"
	"github.com/five82/tenderdesk/internal/toolbar"
	"github.com/five82/tenderdesk/internal/views"
)

// orderScreen is the purchase order editor: a tender reference, a vendor and
// a grid of line items over the item catalogue.
type orderScreen struct {
	tenders []gateway.Tender
	items   []gateway.Item
	orders  []gateway.PurchaseOrder

	engine    *grid.Engine
	tenderIdx int // -1 until a tender is chosen
	vendorID  int64

	row, col int
	editing  bool
	cell     textinput.Model
}

func newOrderScreen() *orderScreen {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 64
	return &orderScreen{
		engine:    grid.New(views.OrderSchema(nil)),
		tenderIdx: -1,
		cell:      ti,
	}
}

// load binds a fresh engine to the catalogue with one blank row.
func (s *orderScreen) load(data views.OrdersData) {
	s.tenders = s.tenders[:0]
	for _, t := range data.Tenders {
		if t.Active() {
			s.tenders = append(s.tenders, t)
		}
	}
	s.items = data.Items
	s.orders = data.Orders
	s.engine = grid.New(views.OrderSchema(data.Items))
	s.engine.AddRow(nil)
	s.tenderIdx = -1
	s.row, s.col = 0, 0
	s.editing = false
	s.cell.Blur()
}

// editable returns the columns the cursor can visit.
func (s *orderScreen) editable() []grid.ColumnSpec {
	var out []grid.ColumnSpec
	for _, c := range s.engine.Schema().Columns() {
		if c.ReadOnly || c.Kind == grid.KindImage || c.Role == grid.RoleAmount {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (s *orderScreen) cursor() (grid.Row, grid.ColumnSpec, bool) {
	rows := s.engine.Rows()
	cols := s.editable()
	if s.row < 0 || s.row >= len(rows) || s.col < 0 || s.col >= len(cols) {
		return grid.Row{}, grid.ColumnSpec{}, false
	}
	return rows[s.row], cols[s.col], true
}

func (s *orderScreen) tenderID() int64 {
	if s.tenderIdx < 0 || s.tenderIdx >= len(s.tenders) {
		return 0
	}
	return s.tenders[s.tenderIdx].ID
}

// cycleLookup selects the next catalogue entry in the cursor row.
func (s *orderScreen) cycleLookup(row grid.Row, col grid.ColumnSpec) {
	opts := s.engine.Options(row.ID, col.Key)
	if len(opts) == 0 {
		return
	}
	next := 0
	for i, o := range opts {
		if o.Selected {
			next = (i + 1) % len(opts)
			break
		}
	}
	s.engine.Set(row.ID, col.Key, opts[next].Entry.ID)
}

// resolveLookup maps typed text to a catalogue id by exact id or by name
// prefix.
func resolveLookup(col grid.ColumnSpec, text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", true
	}
	for _, e := range col.Source {
		if e.ID == text {
			return e.ID, true
		}
	}
	lower := strings.ToLower(text)
	for _, e := range col.Source {
		if strings.HasPrefix(strings.ToLower(e.Name), lower) {
			return e.ID, true
		}
	}
	return "", false
}

func (m *Model) orderKey(msg tea.KeyMsg) tea.Cmd {
	s := m.orders
	rows := s.engine.Len()
	switch {
	case key.Matches(msg, m.keys.Up):
		if s.row > 0 {
			s.row--
		}
	case key.Matches(msg, m.keys.Down):
		if s.row < rows-1 {
			s.row++
		}
	case key.Matches(msg, m.keys.Left):
		if s.col > 0 {
			s.col--
		}
	case key.Matches(msg, m.keys.Right):
		if s.col < len(s.editable())-1 {
			s.col++
		}
	case key.Matches(msg, m.keys.AddRow):
		m.orderAddRow()
	case key.Matches(msg, m.keys.RemoveRow):
		m.orderRemoveRow()
	case key.Matches(msg, m.keys.Pick):
		if len(s.tenders) == 0 {
			m.flash(toolbar.LevelInfo, "No active tenders")
			return nil
		}
		s.tenderIdx = (s.tenderIdx + 1) % len(s.tenders)
	case msg.String() == "v":
		p := newPrompt(promptVendor, "Vendor id", "numeric user id of the vendor")
		if s.vendorID > 0 {
			p.input.SetValue(strconv.FormatInt(s.vendorID, 10))
		}
		m.prompt = p
	case msg.String() == " ":
		if row, col, ok := s.cursor(); ok && col.Kind == grid.KindLookup {
			s.cycleLookup(row, col)
		}
	case key.Matches(msg, m.keys.Open):
		return m.orderEditCell()
	case key.Matches(msg, m.keys.Ack):
		return m.orderAcknowledge()
	}
	return nil
}

func (m *Model) orderAddRow() {
	s := m.orders
	s.engine.AddRow(nil)
	s.row = s.engine.Len() - 1
	s.col = 0
}

func (m *Model) orderRemoveRow() {
	s := m.orders
	row, _, ok := s.cursor()
	if !ok {
		return
	}
	s.engine.RemoveRow(row.ID)
	if s.row >= s.engine.Len() && s.row > 0 {
		s.row--
	}
}

// orderEditCell opens the inline editor on the cursor cell.
func (m *Model) orderEditCell() tea.Cmd {
	s := m.orders
	row, col, ok := s.cursor()
	if !ok {
		m.flash(toolbar.LevelInfo, "Add a row first")
		return nil
	}
	m.focus = focusContent
	s.editing = true
	s.cell.SetValue(row.Value(col.Key))
	s.cell.CursorEnd()
	return s.cell.Focus()
}

// orderCellKey handles keys while a cell is being edited.
func (m *Model) orderCellKey(msg tea.KeyMsg) tea.Cmd {
	s := m.orders
	switch msg.String() {
	case "esc":
		s.editing = false
		s.cell.Blur()
		return nil
	case "enter", "tab":
		row, col, ok := s.cursor()
		s.editing = false
		s.cell.Blur()
		if !ok {
			return nil
		}
		value := s.cell.Value()
		if col.Kind == grid.KindLookup {
			id, found := resolveLookup(col, value)
			if !found {
				m.flash(toolbar.LevelError, "No item matches %q", strings.TrimSpace(value))
				return nil
			}
			value = id
		}
		s.engine.Set(row.ID, col.Key, value)
		if msg.String() == "tab" && s.col < len(s.editable())-1 {
			s.col++
			return m.orderEditCell()
		}
		return nil
	}
	var cmd tea.Cmd
	s.cell, cmd = s.cell.Update(msg)
	return cmd
}

func (m *Model) orderSetVendor(value string) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id <= 0 {
		m.flash(toolbar.LevelError, "Vendor id must be a positive number")
		return
	}
	m.orders.vendorID = id
}

// orderSave validates the grid and issues the purchase order.
func (m *Model) orderSave() tea.Cmd {
	if !m.role.CanRaiseOrder() {
		m.flash(toolbar.LevelError, "%s users cannot issue purchase orders", m.role.Title())
		return nil
	}
	s := m.orders
	approver := m.user.FullName
	if approver == "" {
		approver = m.user.Username
	}
	po, err := views.PurchaseOrder(s.tenderID(), s.vendorID, approver, s.engine.LineItems())
	if err != nil {
		m.flash(toolbar.LevelError, "%s", err)
		return nil
	}
	return m.submit("Issue purchase order", true, func(ctx context.Context, svc gateway.Service) (string, error) {
		created, err := svc.CreatePurchaseOrder(ctx, po)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Purchase order %s issued for %s", created.PONumber, money(created.TotalAmount)), nil
	})
}

func (m *Model) orderCancel() {
	s := m.orders
	s.engine.Reset()
	s.engine.AddRow(nil)
	s.row, s.col = 0, 0
	s.tenderIdx = -1
	s.editing = false
	s.cell.Blur()
	m.flash(toolbar.LevelInfo, "Order cleared")
}

// orderAcknowledge acknowledges the oldest open order addressed to the
// signed-in vendor.
func (m *Model) orderAcknowledge() tea.Cmd {
	if m.role != roles.Vendor {
		m.flash(toolbar.LevelError, "Only vendors acknowledge purchase orders")
		return nil
	}
	for _, po := range m.orders.orders {
		if po.VendorID != m.user.ID || po.Acknowledged != 0 {
			continue
		}
		return m.submit("Acknowledge", true, func(ctx context.Context, svc gateway.Service) (string, error) {
			if err := svc.AcknowledgePurchaseOrder(ctx, po.ID); err != nil {
				return "", err
			}
			return fmt.Sprintf("%s acknowledged", po.PONumber), nil
		})
	}
	m.flash(toolbar.LevelInfo, "No purchase orders awaiting acknowledgement")
	return nil
}

var orderColumnWidths = map[string]int{
	views.ColItem:   22,
	views.ColImage:  18,
	views.ColQty:    8,
	views.ColRate:   10,
	views.ColAmount: 12,
}

func (m Model) renderOrders(width int) string {
	styles := m.theme.Styles()
	s := m.orders

	tender := styles.FaintText.Render("none, press t to choose")
	if s.tenderIdx >= 0 && s.tenderIdx < len(s.tenders) {
		t := s.tenders[s.tenderIdx]
		tender = styles.Text.Render(t.TenderID + " - " + truncate(t.Title, width-30))
	}
	vendor := styles.FaintText.Render("none, press v to set")
	if s.vendorID > 0 {
		vendor = styles.Text.Render("#" + strconv.FormatInt(s.vendorID, 10))
	}
	var b strings.Builder
	b.WriteString(styles.MutedText.Render("Tender  ") + tender + "\n")
	b.WriteString(styles.MutedText.Render("Vendor  ") + vendor + "\n\n")

	cols := s.engine.Schema().Columns()
	editable := s.editable()
	cursorKey := ""
	if s.col >= 0 && s.col < len(editable) {
		cursorKey = editable[s.col].Key
	}

	header := make([]string, 0, len(cols))
	for _, c := range cols {
		header = append(header, padRight(c.Label, orderColumnWidths[c.Key]))
	}
	b.WriteString(styles.AccentText.Bold(true).Render(strings.Join(header, " ")) + "\n")

	for i, r := range s.engine.Rows() {
		cells := make([]string, 0, len(cols))
		for _, c := range cols {
			w := orderColumnWidths[c.Key]
			text := r.Value(c.Key)
			switch c.Kind {
			case grid.KindLookup:
				if entry, ok := s.engine.Match(r.ID); ok {
					text = entry.Name
				}
			case grid.KindImage:
				if src := s.engine.Image(r.ID); src == grid.PlaceholderImage {
					text = "[no image]"
				} else {
					text = truncateMiddle(src, w)
				}
			}
			onCursor := i == s.row && c.Key == cursorKey && m.focus == focusContent
			switch {
			case onCursor && s.editing:
				in := s.cell
				in.Width = w - 1
				cells = append(cells, lipgloss.NewStyle().Width(w).MaxWidth(w).Render(in.View()))
			case onCursor:
				cells = append(cells, styles.Selected.Render(padRight(text, w)))
			case c.ReadOnly || c.Kind == grid.KindImage:
				cells = append(cells, styles.MutedText.Render(padRight(text, w)))
			default:
				cells = append(cells, styles.Text.Render(padRight(text, w)))
			}
		}
		b.WriteString(strings.Join(cells, " ") + "\n")
	}
	if s.engine.Len() == 0 {
		b.WriteString(styles.FaintText.Render("No rows, press a to add one") + "\n")
	}

	subtotal, tax, grand := s.engine.Totals().Format()
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render(padRight("Subtotal", 12)) + styles.Text.Render(subtotal) + "\n")
	b.WriteString(styles.MutedText.Render(padRight("Tax", 12)) + styles.Text.Render(tax) + "\n")
	b.WriteString(styles.MutedText.Render(padRight("Grand total", 12)) + styles.Text.Bold(true).Render(grand) + "\n")

	if len(s.orders) > 0 {
		b.WriteString("\n" + styles.AccentText.Bold(true).Render("Issued orders") + "\n")
		for _, po := range s.orders {
			ack := ternary(po.Acknowledged != 0, "acknowledged", "awaiting vendor")
			b.WriteString(styles.Text.Render(padRight(po.PONumber, 14)) + " " +
				styles.MutedText.Render(padRight("tender #"+idString(po.TenderID), 12)) + " " +
				styles.Text.Render(padRight(money(po.TotalAmount), 12)) + " " +
				styles.StatusStyle(po.Status).Render(po.Status) + " " +
				styles.FaintText.Render(ack) + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
