package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/tenderdesk/internal/gateway"
	"github.com/five82/tenderdesk/internal/toolbar"
	"github.com/five82/tenderdesk/internal/views"
)

// project is a contracted tender whose delivery can be tracked.
type project struct {
	TenderID int64
	Title    string
	Contract gateway.Contract
}

type deliveryScreen struct {
	projects []project
	cursor   int

	selected          int64 // tender whose milestones are shown, 0 for none
	milestones        []gateway.Milestone
	msCursor          int
	loadingMilestones bool
	milestoneErr      error
	onMilestones      bool // cursor is in the milestone list
}

type milestonesMsg struct {
	gen        uint64
	tenderID   int64
	milestones []gateway.Milestone
	err        error
}

// projectsFrom pairs each contract with its tender title.
func projectsFrom(data views.DeliveryData) []project {
	titles := make(map[int64]string, len(data.Tenders))
	for _, t := range data.Tenders {
		titles[t.ID] = t.Title
	}
	out := make([]project, 0, len(data.Contracts))
	for _, c := range data.Contracts {
		title := titles[c.TenderID]
		if title == "" {
			title = "tender #" + idString(c.TenderID)
		}
		out = append(out, project{TenderID: c.TenderID, Title: title, Contract: c})
	}
	return out
}

// deliveryLoaded installs the project list and reloads the open project's
// milestones.
func (m *Model) deliveryLoaded(data views.DeliveryData) tea.Cmd {
	s := m.delivery
	s.projects = projectsFrom(data)
	if s.cursor >= len(s.projects) {
		s.cursor = 0
	}
	if s.selected == 0 {
		return nil
	}
	for _, p := range s.projects {
		if p.TenderID == s.selected {
			return m.loadMilestones(p.TenderID)
		}
	}
	s.selected, s.milestones, s.onMilestones = 0, nil, false
	return nil
}

func (m *Model) loadMilestones(tenderID int64) tea.Cmd {
	s := m.delivery
	s.selected = tenderID
	s.loadingMilestones = true
	s.milestoneErr = nil
	gen, ctx, loader := m.gen, m.ctx, m.loader
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		ms, err := loader.Milestones(ctx, tenderID)
		return milestonesMsg{gen: gen, tenderID: tenderID, milestones: ms, err: err}
	})
}

func (m *Model) applyMilestones(msg milestonesMsg) {
	s := m.delivery
	if msg.gen != m.gen || msg.tenderID != s.selected {
		m.logger.Debug("dropping stale milestones", "tender_id", msg.tenderID, "gen", msg.gen)
		return
	}
	s.loadingMilestones = false
	s.milestoneErr = msg.err
	if msg.err != nil {
		s.milestones = nil
		m.logger.Warn("milestone load failed", "tender_id", msg.tenderID, "error", msg.err)
		return
	}
	s.milestones = msg.milestones
	if s.msCursor >= len(s.milestones) {
		s.msCursor = 0
	}
}

func (m *Model) deliveryKey(msg tea.KeyMsg) tea.Cmd {
	s := m.delivery
	if !s.onMilestones {
		switch {
		case key.Matches(msg, m.keys.Up):
			if s.cursor > 0 {
				s.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if s.cursor < len(s.projects)-1 {
				s.cursor++
			}
		case key.Matches(msg, m.keys.Open), key.Matches(msg, m.keys.Right):
			if s.cursor < len(s.projects) {
				s.onMilestones = true
				s.msCursor = 0
				return m.loadMilestones(s.projects[s.cursor].TenderID)
			}
		}
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Left):
		s.onMilestones = false
	case key.Matches(msg, m.keys.Up):
		if s.msCursor > 0 {
			s.msCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if s.msCursor < len(s.milestones)-1 {
			s.msCursor++
		}
	case key.Matches(msg, m.keys.Upload):
		ms, ok := s.currentMilestone()
		if !ok {
			return nil
		}
		if !m.role.CanUploadProof(ms.Status) {
			m.flash(toolbar.LevelError, "Proof upload is not available for this milestone")
			return nil
		}
		p := newPrompt(promptProofPath, "Proof for "+ms.Title, "path to a photo or document")
		p.target = ms.ID
		m.prompt = p
	case key.Matches(msg, m.keys.Pass), key.Matches(msg, m.keys.Fail):
		ms, ok := s.currentMilestone()
		if !ok {
			return nil
		}
		if !m.role.CanInspect(ms.Status) {
			m.flash(toolbar.LevelError, "Inspection needs a milestone in progress and a technical or admin role")
			return nil
		}
		result := views.InspectionPassed
		if key.Matches(msg, m.keys.Fail) {
			result = views.InspectionFailed
		}
		p := newPrompt(promptRemarks, "Inspection "+strings.ToLower(result)+": "+ms.Title, "quality remarks")
		p.target = ms.ID
		p.extra = result
		m.prompt = p
	}
	return nil
}

func (s *deliveryScreen) currentMilestone() (gateway.Milestone, bool) {
	if s.msCursor < 0 || s.msCursor >= len(s.milestones) {
		return gateway.Milestone{}, false
	}
	return s.milestones[s.msCursor], true
}

// deliveryUpload sends the file at path to /upload/ and attaches the returned
// url to the milestone.
func (m *Model) deliveryUpload(milestoneID int64, path string) tea.Cmd {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	return m.submit("Upload proof", true, func(ctx context.Context, svc gateway.Service) (string, error) {
		uploaded, err := uploadFile(ctx, svc, path)
		if err != nil {
			return "", err
		}
		update, err := views.ProofUploaded(uploaded.URL)
		if err != nil {
			return "", err
		}
		if _, err := svc.UpdateMilestone(ctx, milestoneID, update); err != nil {
			return "", err
		}
		return "Proof uploaded", nil
	})
}

// uploadFile sends the local file at path to the service's upload endpoint.
func uploadFile(ctx context.Context, svc gateway.Service, path string) (gateway.UploadResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return gateway.UploadResult{}, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer file.Close()
	return svc.Upload(ctx, filepath.Base(path), file)
}

func (m *Model) deliveryInspect(milestoneID int64, result, remarks string) tea.Cmd {
	update, err := views.Inspection(result, remarks)
	if err != nil {
		m.flash(toolbar.LevelError, "%s", err)
		return nil
	}
	return m.submit("Record inspection", true, func(ctx context.Context, svc gateway.Service) (string, error) {
		ms, err := svc.UpdateMilestone(ctx, milestoneID, update)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s marked %s", ms.Title, strings.ToLower(ms.Status)), nil
	})
}

func (m Model) renderDelivery(width int) string {
	styles := m.theme.Styles()
	s := m.delivery
	var b strings.Builder

	b.WriteString(styles.MutedText.Render("Projects") + "\n")
	if len(s.projects) == 0 {
		b.WriteString(styles.FaintText.Render("No contracted projects") + "\n")
	}
	for i, p := range s.projects {
		line := padRight(truncate(p.Title, 34), 34) + " " + p.Contract.Status
		switch {
		case i == s.cursor && !s.onMilestones && m.focus == focusContent:
			b.WriteString(styles.Selected.Render("› "+line) + "\n")
		case p.TenderID == s.selected:
			b.WriteString(styles.AccentText.Render("• "+line) + "\n")
		default:
			b.WriteString(styles.Text.Render("  "+line) + "\n")
		}
	}

	if s.selected == 0 {
		b.WriteString("\n" + styles.FaintText.Render("enter opens a project's milestones"))
		return b.String()
	}
	b.WriteString("\n" + styles.MutedText.Render("Milestones") + "\n")
	switch {
	case s.loadingMilestones:
		b.WriteString(m.spinner.View() + " " + styles.MutedText.Render("Loading milestones..."))
		return b.String()
	case s.milestoneErr != nil:
		b.WriteString(styles.DangerText.Render(describeError(s.milestoneErr)))
		return b.String()
	case len(s.milestones) == 0:
		b.WriteString(styles.FaintText.Render("No milestones"))
		return b.String()
	}
	for i, ms := range s.milestones {
		line := padRight(truncate(ms.Title, 28), 28) + " "
		badge := styles.StatusStyle(ms.Status).Render(ms.Status)
		extra := ""
		if ms.InspectionStatus != "" {
			extra += " inspection " + strings.ToLower(ms.InspectionStatus)
		}
		if ms.ProofURL != "" {
			extra += " proof " + truncateMiddle(ms.ProofURL, 24)
		}
		if i == s.msCursor && s.onMilestones && m.focus == focusContent {
			b.WriteString(styles.Selected.Render("› "+line) + badge + styles.FaintText.Render(extra) + "\n")
		} else {
			b.WriteString(styles.Text.Render("  "+line) + badge + styles.FaintText.Render(extra) + "\n")
		}
	}
	if ms, ok := s.currentMilestone(); ok && s.onMilestones {
		if ms.QualityRemarks != "" {
			b.WriteString("\n" + styles.MutedText.Render("Remarks ") + styles.Text.Render(truncate(ms.QualityRemarks, width-10)))
		}
		var hints []string
		if m.role.CanUploadProof(ms.Status) {
			hints = append(hints, "u upload proof")
		}
		if m.role.CanInspect(ms.Status) {
			hints = append(hints, "p pass", "f fail")
		}
		if len(hints) > 0 {
			b.WriteString("\n" + styles.FaintText.Render(strings.Join(hints, "  ")))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
