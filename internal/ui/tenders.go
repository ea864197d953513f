package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/tenderdesk/internal/gateway"
	"github.com/five82/tenderdesk/internal/navigator"
	"github.com/five82/tenderdesk/internal/toolbar"
	"github.com/five82/tenderdesk/internal/views"
)

type tenderMode int

const (
	tenderBrowse tenderMode = iota
	tenderAdding
	tenderEditing
)

// tenderScreen is the record browser: a navigator over the fetched tenders
// feeding one edit form.
type tenderScreen struct {
	nav  *navigator.Navigator[gateway.Tender]
	form *form
	mode tenderMode

	// image is the image url shown under the form: the current record's, or
	// the one attached to a new tender.
	image string

	// After a reload, land on keepID, or on the last record when landLast
	// is set (new tenders are appended).
	keepID   int64
	landLast bool
}

func newTenderScreen() *tenderScreen {
	s := &tenderScreen{form: newForm(
		fieldSpec{key: "title", label: "Title", placeholder: "Tender title"},
		fieldSpec{key: "description", label: "Description"},
		fieldSpec{key: "budget", label: "Budget", placeholder: "0"},
		fieldSpec{key: "deadline", label: "Deadline", placeholder: "YYYY-MM-DD"},
		fieldSpec{key: "delivery_timeline", label: "Timeline", placeholder: "e.g. 6 months"},
		fieldSpec{key: "status", label: "Status", placeholder: "open"},
	)}
	s.setRecords(nil)
	return s
}

// setRecords replaces the navigator and loads the landing record into the
// form.
func (s *tenderScreen) setRecords(tenders []gateway.Tender) {
	s.nav = navigator.New(tenders)
	s.nav.Bind(func(_ int, t gateway.Tender) { s.fill(t) })
	s.mode = tenderBrowse
	s.form.Stop()

	switch {
	case s.keepID > 0 && s.nav.Find(func(t gateway.Tender) bool { return t.ID == s.keepID }):
	case s.landLast && s.nav.Move(navigator.Last):
	case s.nav.LoadAt(0):
	default:
		s.form.Clear()
		s.image = ""
	}
	s.keepID, s.landLast = 0, false
}

func (s *tenderScreen) fill(t gateway.Tender) {
	d := views.DraftFromTender(t)
	s.form.Set("title", d.Title)
	s.form.Set("description", d.Description)
	s.form.Set("budget", d.Budget)
	s.form.Set("deadline", d.Deadline)
	s.form.Set("delivery_timeline", d.DeliveryTimeline)
	s.form.Set("status", d.Status)
	s.image = d.ImageURL
}

func (s *tenderScreen) draft() views.TenderDraft {
	return views.TenderDraft{
		Title:            s.form.Value("title"),
		Description:      s.form.Value("description"),
		Budget:           s.form.Value("budget"),
		Deadline:         s.form.Value("deadline"),
		DeliveryTimeline: s.form.Value("delivery_timeline"),
		Status:           s.form.Value("status"),
		ImageURL:         s.image,
	}
}

func (m *Model) tenderKey(msg tea.KeyMsg) tea.Cmd {
	nav := m.tenders.nav
	switch {
	case key.Matches(msg, m.keys.First), key.Matches(msg, m.keys.Top):
		nav.Move(navigator.First)
	case key.Matches(msg, m.keys.Prev), key.Matches(msg, m.keys.Up):
		nav.Move(navigator.Prev)
	case key.Matches(msg, m.keys.Next), key.Matches(msg, m.keys.Down):
		nav.Move(navigator.Next)
	case key.Matches(msg, m.keys.Last), key.Matches(msg, m.keys.Bottom):
		nav.Move(navigator.Last)
	case key.Matches(msg, m.keys.Image):
		return m.tenderImagePrompt()
	}
	return nil
}

// tenderAdd opens a blank form for a new tender.
func (m *Model) tenderAdd() tea.Cmd {
	if !m.role.CanManageTenders() {
		m.flash(toolbar.LevelError, "%s users cannot publish tenders", m.role.Title())
		return nil
	}
	s := m.tenders
	s.mode = tenderAdding
	s.form.Clear()
	s.form.Set("status", "open")
	s.image = ""
	m.focus = focusContent
	return s.form.Edit("title", "description", "budget", "deadline", "delivery_timeline")
}

// tenderEdit unlocks the status of the current tender; the service only
// supports status changes.
func (m *Model) tenderEdit() tea.Cmd {
	s := m.tenders
	if s.nav.Empty() {
		m.flash(toolbar.LevelInfo, "No tender selected")
		return nil
	}
	if !m.role.CanManageTenders() {
		m.flash(toolbar.LevelError, "%s users cannot change tender status", m.role.Title())
		return nil
	}
	s.mode = tenderEditing
	m.focus = focusContent
	m.flash(toolbar.LevelInfo, "Status: %s", strings.Join(gateway.TenderStatuses, ", "))
	return s.form.Edit("status")
}

func (m *Model) tenderSave() tea.Cmd {
	s := m.tenders
	switch s.mode {
	case tenderAdding:
		tender, err := s.draft().Tender(m.user.ID, m.now())
		if err != nil {
			m.flash(toolbar.LevelError, "%s", err)
			return nil
		}
		landLast := func(m *Model) { m.tenders.landLast = true }
		return m.submitThen("Create tender", true, landLast, func(ctx context.Context, svc gateway.Service) (string, error) {
			created, err := svc.CreateTender(ctx, tender)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Tender %s created", created.TenderID), nil
		})

	case tenderEditing:
		current, ok := s.nav.Current()
		if !ok {
			m.flash(toolbar.LevelInfo, "No tender selected")
			return nil
		}
		status := statusKey(s.form.Value("status"))
		if !gateway.ValidTenderStatus(status) {
			m.flash(toolbar.LevelError, "Unknown status %q", s.form.Value("status"))
			return nil
		}
		keep := func(m *Model) { m.tenders.keepID = current.ID }
		return m.submitThen("Update status", true, keep, func(ctx context.Context, svc gateway.Service) (string, error) {
			if err := svc.UpdateTenderStatus(ctx, current.ID, status); err != nil {
				return "", err
			}
			return fmt.Sprintf("%s is now %s", current.TenderID, titleCase(status)), nil
		})
	}
	m.flash(toolbar.LevelInfo, "Nothing to save")
	return nil
}

// tenderCancel drops unsaved edits and reloads the current record.
func (m *Model) tenderCancel() {
	s := m.tenders
	s.mode = tenderBrowse
	s.form.Stop()
	if !s.nav.LoadAt(s.nav.Index()) {
		s.form.Clear()
		s.image = ""
	}
	m.flash(toolbar.LevelInfo, "Changes discarded")
}

// tenderImagePrompt asks for the image of the tender being added. The
// service takes images only when a tender is created.
func (m *Model) tenderImagePrompt() tea.Cmd {
	if m.tenders.mode != tenderAdding {
		m.flash(toolbar.LevelInfo, "Images can only be attached to a new tender")
		return nil
	}
	m.prompt = newPrompt(promptTenderImage, "Tender image", "path to an image file")
	return nil
}

// tenderUploadImage uploads the file at path and attaches the returned url to
// the tender being added.
func (m *Model) tenderUploadImage(path string) tea.Cmd {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	var url string
	attach := func(m *Model) {
		if m.tenders.mode == tenderAdding {
			m.tenders.image = url
		}
	}
	return m.submitThen("Upload image", false, attach, func(ctx context.Context, svc gateway.Service) (string, error) {
		uploaded, err := uploadFile(ctx, svc, path)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(uploaded.URL) == "" {
			return "", errors.New("upload returned no url")
		}
		url = uploaded.URL
		return "Image attached", nil
	})
}

// tenderSearch jumps to the first tender whose title contains query.
func (m *Model) tenderSearch(query string) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return
	}
	s := m.tenders
	if s.mode != tenderBrowse {
		m.flash(toolbar.LevelInfo, "Save or cancel the current edit first")
		return
	}
	found := s.nav.Find(func(t gateway.Tender) bool {
		return strings.Contains(strings.ToLower(t.Title), query)
	})
	if !found {
		m.flash(toolbar.LevelInfo, "No tender matches %q", query)
	}
}

func (m Model) renderTenders(width, height int) string {
	styles := m.theme.Styles()
	s := m.tenders

	var heading string
	switch s.mode {
	case tenderAdding:
		heading = styles.WarningText.Bold(true).Render("New Record")
	default:
		current, ok := s.nav.Current()
		if !ok {
			heading = styles.FaintText.Render("No tenders") + "  " + styles.MutedText.Render(s.nav.Position())
			break
		}
		heading = styles.Text.Bold(true).Render(current.TenderID) + "  " +
			styles.StatusStyle(current.Status).Render(titleCase(current.Status)) + "  " +
			styles.MutedText.Render(s.nav.Position())
		if s.mode == tenderEditing {
			heading += "  " + styles.WarningText.Render("editing")
		}
	}

	formBox := styles.Box
	if s.form.editing {
		formBox = styles.BoxFocus
	}
	formWidth := width - 4
	if formWidth > 80 {
		formWidth = 80
	}
	out := heading + "\n" + formBox.Width(formWidth).Render(s.form.View(styles, formWidth-4))

	image := styles.FaintText.Render("No Image")
	if s.image != "" {
		image = styles.Text.Render(truncateMiddle(s.image, formWidth-10))
	}
	out += "\n" + styles.MutedText.Render("Image  ") + image
	if s.mode == tenderAdding {
		out += "  " + styles.FaintText.Render(m.keys.Image.Help().Key+" to attach")
	}

	// Record strip below the form.
	records := s.nav.Records()
	room := height - 13
	if room < 1 || len(records) == 0 {
		return out
	}
	start := 0
	if s.nav.Index() >= room {
		start = s.nav.Index() - room + 1
	}
	var lines []string
	for i := start; i < len(records) && i < start+room; i++ {
		t := records[i]
		line := padRight(t.TenderID, 14) + " " + truncate(t.Title, width-36) + "  " + titleCase(t.Status)
		if i == s.nav.Index() {
			lines = append(lines, styles.Selected.Render("› "+line))
		} else {
			lines = append(lines, styles.MutedText.Render("  "+line))
		}
	}
	return out + "\n" + strings.Join(lines, "\n")
}
