package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/tenderdesk/internal/gateway"
	"github.com/five82/tenderdesk/internal/prefs"
	"github.com/five82/tenderdesk/internal/roles"
	"github.com/five82/tenderdesk/internal/state"
	"github.com/five82/tenderdesk/internal/toolbar"
	"github.com/five82/tenderdesk/internal/views"
)

// focusArea is the pane receiving navigation keys.
type focusArea int

const (
	focusMenu focusArea = iota
	focusContent
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Service   gateway.Service
	Loader    *views.Loader // nil builds one over Service
	Store     *state.Store
	User      gateway.User
	Role      roles.Role
	LogPath   string
	APIURL    string
	PollTick  time.Duration
	Prefs     prefs.Prefs
	PrefsPath string
	Logger    *slog.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	svc       gateway.Service
	loader    *views.Loader
	store     *state.Store
	logger    *slog.Logger
	user      gateway.User
	role      roles.Role
	logPath   string
	apiURL    string
	prefsPath string
	prefs     prefs.Prefs
	pollTick  time.Duration
	keys      keyMap
	now       func() time.Time

	// UI state
	theme   Theme
	width   int
	height  int
	ready   bool
	menu    []views.Name
	menuIdx int
	focus   focusArea

	// Current view. gen increases on every view switch; loads and
	// submissions started under an older generation are dropped.
	current views.Name
	gen     uint64
	loading bool
	loadErr error
	spinner spinner.Model

	snapshot state.Snapshot
	feedback toolbar.Feedback

	// Overlays
	showHelp     bool
	showActivity bool
	activity     viewport.Model
	activityErr  error
	prompt       *prompt

	// Screens
	dash      *dashboardScreen
	tenders   *tenderScreen
	contracts *contractScreen
	orders    *orderScreen
	delivery  *deliveryScreen
	payments  *paymentScreen
}

// New creates the model. The first view is the persisted last view when the
// role may open it, otherwise the dashboard.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	loader := opts.Loader
	if loader == nil {
		loader = views.NewLoader(opts.Service)
	}
	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = DefaultUIInterval
	}

	start := views.Dashboard
	if n, err := views.Parse(opts.Prefs.LastView); err == nil {
		start = views.Resolve(n, opts.Role)
	}
	menu := views.Visible(opts.Role)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:       ctx,
		svc:       opts.Service,
		loader:    loader,
		store:     opts.Store,
		logger:    logger,
		user:      opts.User,
		role:      opts.Role,
		logPath:   opts.LogPath,
		apiURL:    opts.APIURL,
		prefsPath: opts.PrefsPath,
		prefs:     opts.Prefs,
		pollTick:  pollTick,
		keys:      DefaultKeyMap(),
		now:       time.Now,
		theme:     GetTheme(opts.Prefs.Theme),
		menu:      menu,
		focus:     focusMenu,
		current:   start,
		gen:       1,
		loading:   true,
		spinner:   sp,
		activity:  viewport.New(80, 20),

		dash:      &dashboardScreen{},
		tenders:   newTenderScreen(),
		contracts: newContractScreen(),
		orders:    newOrderScreen(),
		delivery:  &deliveryScreen{},
		payments:  &paymentScreen{},
	}
	m.menuIdx = m.menuIndex(start)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(m.pollTick),
		m.spinner.Tick,
		m.loadCmd(m.gen, m.current),
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd := m.handleKey(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeActivity()
		return m, nil

	case tickMsg:
		return m, m.handleTick()

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		return m, nil

	case spinner.TickMsg:
		if !m.loading && !m.delivery.loadingMilestones {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case viewLoadedMsg:
		return m, m.applyLoad(msg)

	case milestonesMsg:
		m.applyMilestones(msg)
		return m, nil

	case actionResultMsg:
		return m, m.applyResult(msg)

	case activityMsg:
		m.applyActivity(msg)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.prompt != nil {
		return m.prompt.View(m.theme, m.width, m.height)
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input. Overlays and open editors take keys
// first; view keys are not routed while the view is loading.
func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}

	if m.prompt != nil {
		p := m.prompt
		cmd, closed, submitted := p.Update(msg)
		if closed {
			m.prompt = nil
			if submitted {
				return m.submitPrompt(p)
			}
		}
		return cmd
	}

	if m.showHelp {
		m.showHelp = false
		return nil
	}

	if m.showActivity {
		return m.handleActivityKey(msg)
	}

	if action, ok := toolbar.ForKey(msg.String()); ok {
		if m.loading {
			if _, isHelp := action.(toolbar.Help); !isHelp {
				return nil
			}
		}
		return m.dispatch(action)
	}

	if m.focus == focusContent && !m.loading && m.editing() {
		return m.handleEditorKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		m.savePrefs()
		return nil
	case key.Matches(msg, m.keys.Activity):
		m.showActivity = true
		return m.refreshActivity()
	case key.Matches(msg, m.keys.Focus):
		if m.focus == focusMenu {
			m.focus = focusContent
		} else {
			m.focus = focusMenu
		}
		return nil
	}

	if m.focus == focusMenu {
		return m.handleMenuKey(msg)
	}
	if m.loading {
		return nil
	}
	return m.handleScreenKey(msg)
}

func (m *Model) handleMenuKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.menuIdx > 0 {
			m.menuIdx--
		}
	case key.Matches(msg, m.keys.Down):
		if m.menuIdx < len(m.menu)-1 {
			m.menuIdx++
		}
	case key.Matches(msg, m.keys.Top):
		m.menuIdx = 0
	case key.Matches(msg, m.keys.Bottom):
		m.menuIdx = len(m.menu) - 1
	case key.Matches(msg, m.keys.Open):
		if m.menuIdx >= 0 && m.menuIdx < len(m.menu) {
			m.focus = focusContent
			return m.switchTo(m.menu[m.menuIdx])
		}
	}
	return nil
}

// handleScreenKey routes view keys to the current screen.
func (m *Model) handleScreenKey(msg tea.KeyMsg) tea.Cmd {
	switch m.current {
	case views.Dashboard:
		return m.dashboardKey(msg)
	case views.Tenders:
		return m.tenderKey(msg)
	case views.Contracts:
		return m.contractKey(msg)
	case views.Orders:
		return m.orderKey(msg)
	case views.Delivery:
		return m.deliveryKey(msg)
	case views.Payments:
		return m.paymentKey(msg)
	}
	return nil
}

// editing reports whether the current screen has an open editor that owns
// plain keystrokes.
func (m *Model) editing() bool {
	switch m.current {
	case views.Tenders:
		return m.tenders.form.editing
	case views.Contracts:
		return m.contracts.form.editing
	case views.Orders:
		return m.orders.editing
	}
	return false
}

func (m *Model) handleEditorKey(msg tea.KeyMsg) tea.Cmd {
	switch m.current {
	case views.Tenders:
		if key.Matches(msg, m.keys.Image) {
			return m.tenderImagePrompt()
		}
		return m.tenders.form.Update(msg)
	case views.Contracts:
		return m.contracts.form.Update(msg)
	case views.Orders:
		return m.orderCellKey(msg)
	}
	return nil
}

// dispatch runs a toolbar action against the current view.
func (m *Model) dispatch(action toolbar.Action) tea.Cmd {
	m.logger.Debug("toolbar action", "action", action.Name(), "view", m.current)
	switch a := action.(type) {
	case toolbar.Add:
		return m.onAdd()
	case toolbar.Edit:
		return m.onEdit()
	case toolbar.Delete:
		return m.onDelete()
	case toolbar.Save:
		return m.onSave()
	case toolbar.Cancel:
		return m.onCancel()
	case toolbar.Search:
		return m.onSearch()
	case toolbar.Refresh:
		cmd := m.switchTo(m.current)
		m.flash(toolbar.LevelInfo, "Refreshing %s", m.current.Title())
		return cmd
	case toolbar.Help:
		m.showHelp = !m.showHelp
		return nil
	default:
		m.flash(toolbar.LevelError, "Unhandled toolbar action %q", a.Name())
		return nil
	}
}

func (m *Model) onAdd() tea.Cmd {
	switch m.current {
	case views.Tenders:
		return m.tenderAdd()
	case views.Contracts:
		return m.contractDraft()
	case views.Orders:
		m.orderAddRow()
		return nil
	case views.Payments:
		return m.paymentRecord()
	}
	m.unavailable(toolbar.Add{})
	return nil
}

func (m *Model) onEdit() tea.Cmd {
	switch m.current {
	case views.Tenders:
		return m.tenderEdit()
	case views.Orders:
		return m.orderEditCell()
	}
	m.unavailable(toolbar.Edit{})
	return nil
}

func (m *Model) onDelete() tea.Cmd {
	switch m.current {
	case views.Tenders, views.Contracts, views.Payments:
		m.flash(toolbar.LevelError, "Delete is not supported by the procurement service")
	case views.Orders:
		m.orderRemoveRow()
	default:
		m.unavailable(toolbar.Delete{})
	}
	return nil
}

func (m *Model) onSave() tea.Cmd {
	switch m.current {
	case views.Tenders:
		return m.tenderSave()
	case views.Contracts:
		return m.contractSave()
	case views.Orders:
		return m.orderSave()
	}
	m.flash(toolbar.LevelInfo, "Nothing to save")
	return nil
}

func (m *Model) onCancel() tea.Cmd {
	switch m.current {
	case views.Tenders:
		m.tenderCancel()
	case views.Contracts:
		m.contracts.form.Stop()
		m.flash(toolbar.LevelInfo, "Draft discarded")
	case views.Orders:
		m.orderCancel()
	default:
		m.unavailable(toolbar.Cancel{})
	}
	return nil
}

func (m *Model) onSearch() tea.Cmd {
	if m.current == views.Tenders {
		m.prompt = newPrompt(promptSearch, "Search tenders by title", "title contains...")
		return nil
	}
	m.unavailable(toolbar.Search{})
	return nil
}

func (m *Model) unavailable(action toolbar.Action) {
	m.flash(toolbar.LevelInfo, "%s is not available on %s", action.Label(), m.current.Title())
}

// submitPrompt applies the value of a closed prompt.
func (m *Model) submitPrompt(p *prompt) tea.Cmd {
	switch p.kind {
	case promptSearch:
		m.tenderSearch(p.Value())
	case promptProofPath:
		return m.deliveryUpload(p.target, p.Value())
	case promptTenderImage:
		return m.tenderUploadImage(p.Value())
	case promptRemarks:
		return m.deliveryInspect(p.target, p.extra, p.Value())
	case promptAmount:
		return m.paymentSubmit(p.target, p.Value())
	case promptVendor:
		m.orderSetVendor(p.Value())
	}
	return nil
}

// switchTo makes view current and starts loading it under a new generation.
func (m *Model) switchTo(view views.Name) tea.Cmd {
	view = views.Resolve(view, m.role)
	m.current = view
	m.menuIdx = m.menuIndex(view)
	m.gen++
	m.loading = true
	m.loadErr = nil
	m.delivery.loadingMilestones = false
	if m.prefs.LastView != view.String() {
		m.prefs.LastView = view.String()
		m.savePrefs()
	}
	return tea.Batch(m.spinner.Tick, m.loadCmd(m.gen, view))
}

func (m *Model) menuIndex(view views.Name) int {
	for i, n := range m.menu {
		if n == view {
			return i
		}
	}
	return 0
}

// applyLoad installs loaded data when it belongs to the current generation.
func (m *Model) applyLoad(msg viewLoadedMsg) tea.Cmd {
	if msg.gen != m.gen || msg.view != m.current {
		m.logger.Debug("dropping stale view load", "view", msg.view, "gen", msg.gen, "current_gen", m.gen)
		return nil
	}
	m.loading = false
	if msg.err != nil {
		m.loadErr = msg.err
		m.logger.Warn("view load failed", "view", msg.view, "error", msg.err)
		return nil
	}
	switch data := msg.data.(type) {
	case views.DashboardData:
		m.dash.load(views.DashboardTiles(m.role, data.Counts))
	case views.TendersData:
		m.tenders.setRecords(data.Tenders)
	case views.ContractsData:
		m.contracts.load(data)
	case views.OrdersData:
		m.orders.load(data)
	case views.DeliveryData:
		return m.deliveryLoaded(data)
	case views.PaymentsData:
		m.payments.load(data)
	default:
		m.loadErr = fmt.Errorf("unexpected data %T for %s", msg.data, msg.view)
	}
	return nil
}

// applyResult reports a finished submission and reloads the view when asked.
func (m *Model) applyResult(msg actionResultMsg) tea.Cmd {
	if msg.gen != m.gen {
		m.logger.Debug("dropping stale action result", "action", msg.action, "view", msg.view)
		return nil
	}
	if msg.err != nil {
		m.logger.Warn("action failed", "action", msg.action, "view", msg.view, "error", msg.err)
		m.flash(toolbar.LevelError, "%s failed: %s", msg.action, describeError(msg.err))
		return nil
	}
	m.logger.Info("action completed", "action", msg.action, "view", msg.view)
	m.flash(toolbar.LevelSuccess, "%s", msg.message)
	if msg.onSuccess != nil {
		msg.onSuccess(m)
	}
	if !msg.reload {
		return nil
	}
	feedback := m.feedback
	cmd := m.switchTo(m.current)
	m.feedback = feedback
	return cmd
}

// submit runs fn as a command bound to the current generation.
func (m *Model) submit(action string, reload bool, fn func(ctx context.Context, svc gateway.Service) (string, error)) tea.Cmd {
	return m.submitThen(action, reload, nil, fn)
}

// submitThen is submit with a hook applied on the update loop after fn
// succeeds and before the view reloads. It is skipped on failure and for
// stale results.
func (m *Model) submitThen(action string, reload bool, onSuccess func(*Model), fn func(ctx context.Context, svc gateway.Service) (string, error)) tea.Cmd {
	gen, view, ctx, svc := m.gen, m.current, m.ctx, m.svc
	return func() tea.Msg {
		message, err := fn(ctx, svc)
		msg := actionResultMsg{gen: gen, view: view, action: action, message: message, err: err, reload: reload}
		if err == nil {
			msg.onSuccess = onSuccess
		}
		return msg
	}
}

func (m *Model) flash(level toolbar.Level, format string, args ...any) {
	m.feedback = toolbar.NewFeedback(m.now(), level, format, args...)
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.logger.Warn("save prefs failed", "path", m.prefsPath, "error", err)
	}
}

func (m *Model) handleTick() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.showActivity {
		cmds = append(cmds, m.refreshActivity())
	}
	return tea.Batch(cmds...)
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type viewLoadedMsg struct {
	gen  uint64
	view views.Name
	data any
	err  error
}

type actionResultMsg struct {
	gen     uint64
	view    views.Name
	action  string
	message string
	err     error
	reload  bool

	onSuccess func(*Model)
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// loadCmd fetches the data of view. The result carries gen so a late answer
// for a view the user already left can be recognised.
func (m *Model) loadCmd(gen uint64, view views.Name) tea.Cmd {
	ctx, loader := m.ctx, m.loader
	return func() tea.Msg {
		var (
			data any
			err  error
		)
		switch view {
		case views.Dashboard:
			data, err = loader.Dashboard(ctx)
		case views.Tenders:
			data, err = loader.Tenders(ctx)
		case views.Contracts:
			data, err = loader.Contracts(ctx)
		case views.Orders:
			data, err = loader.Orders(ctx)
		case views.Delivery:
			data, err = loader.Delivery(ctx)
		case views.Payments:
			data, err = loader.Payments(ctx)
		default:
			err = fmt.Errorf("%w: %s", views.ErrUnknownView, view)
		}
		return viewLoadedMsg{gen: gen, view: view, data: data, err: err}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
