package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/five82/droidtrace/internal/app"
	"github.com/five82/droidtrace/internal/categorize"
	"github.com/five82/droidtrace/internal/charts"
	"github.com/five82/droidtrace/internal/evidence"
	"github.com/five82/droidtrace/internal/filter"
	"github.com/five82/droidtrace/internal/prefs"
	"github.com/five82/droidtrace/internal/state"
	"github.com/five82/droidtrace/internal/watcher"
)

// View represents the current active view.
type View int

const (
	ViewExtract View = iota
	ViewLive
	ViewCategories
	ViewFilter
	ViewCharts
)

var viewOrder = []View{ViewExtract, ViewLive, ViewCategories, ViewFilter, ViewCharts}

func (v View) String() string {
	switch v {
	case ViewLive:
		return "Live"
	case ViewCategories:
		return "Categories"
	case ViewFilter:
		return "Filter"
	case ViewCharts:
		return "Charts"
	default:
		return "Extract"
	}
}

// Options configures the UI.
type Options struct {
	Context      context.Context
	App          *app.App
	Watcher      *watcher.Watcher // nil disables change notifications
	Prefs        prefs.Prefs
	PrefsPath    string
	PollTick     time.Duration
	BacklogLines int
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	app       *app.App
	watcher   *watcher.Watcher
	prefs     prefs.Prefs
	prefsPath string
	pollTick  time.Duration
	keys      keyMap

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool

	// Data state
	snapshot    state.Snapshot
	lastUpdated time.Time

	// Last action outcome and the action still running, if any
	notice   app.Notice
	noticeAt time.Time
	busy     string
	spinner  spinner.Model

	// Per-view state
	live         liveState
	liveViewport viewport.Model
	cats         categoriesState
	catViewport  viewport.Model
	filt         filterState
	filtViewport viewport.Model
	chart        chartState
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = DefaultUIInterval
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	p := opts.Prefs
	if p.Theme == "" {
		p = prefs.Default()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:          ctx,
		app:          opts.App,
		watcher:      opts.Watcher,
		prefs:        p,
		prefsPath:    prefsPath,
		pollTick:     pollTick,
		keys:         DefaultKeyMap(),
		theme:        GetTheme(p.Theme),
		currentView:  ViewExtract,
		spinner:      sp,
		live:         newLiveState(opts.BacklogLines),
		liveViewport: viewport.New(0, 0),
		catViewport:  viewport.New(0, 0),
		filtViewport: viewport.New(0, 0),
		filt:         newFilterState(p),
	}
	m.chart = newChartState(m.chartKinds(), p.ChartKind, p.ChartRange)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(m.pollTick),
	}
	if m.app != nil {
		cmds = append(cmds,
			fetchSnapshotCmd(m.app.State),
			loadCategoriesCmd(m.app),
			m.chartCmd(),
		)
	}
	if m.watcher != nil {
		cmds = append(cmds, waitForChangeCmd(m.watcher))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.lastUpdated = time.Now()
		return m, nil

	case spinner.TickMsg:
		if m.busy == "" {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case noticeMsg:
		m.setNotice(app.Notice(msg))
		return m, nil

	case extractedMsg:
		m.setNotice(app.Notice(msg))
		if m.app == nil {
			return m, nil
		}
		return m, loadCategoriesCmd(m.app)

	case categoriesMsg:
		m.cats.apply(msg.result)
		m.updateCategoriesViewport()
		if msg.notice.Text != "" {
			m.setNotice(msg.notice)
		}
		return m, nil

	case filterMsg:
		m.filt.lines = msg.result.Lines
		m.filt.ran = true
		m.updateFilterViewport()
		m.setNotice(msg.notice)
		return m, nil

	case chartMsg:
		if msg.kind == m.chart.kind() && msg.rng == m.chart.rng {
			m.chart.series = msg.series
			m.chart.loaded = true
			m.chart.empty = msg.notice.Text
			if msg.notice.Failed() {
				m.setNotice(msg.notice)
			}
		}
		return m, nil

	case changeMsg:
		return m.handleChange(watcher.Change(msg))
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	// Text inputs swallow printable keys, so they get first refusal.
	if m.currentView == ViewLive && m.live.searchActive {
		return m.handleLiveSearchInput(msg)
	}
	if m.currentView == ViewFilter && m.filt.editingKeyword() {
		if handled, next, cmd := m.handleFilterInput(msg); handled {
			return next, cmd
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		m.savePrefs()
		m.markAllDirty()
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		return m.switchView(m.stepView(1))

	case key.Matches(msg, m.keys.ShiftTab):
		return m.switchView(m.stepView(-1))

	case key.Matches(msg, m.keys.ViewExtract):
		return m.switchView(ViewExtract)
	case key.Matches(msg, m.keys.ViewLive):
		return m.switchView(ViewLive)
	case key.Matches(msg, m.keys.ViewCategories):
		return m.switchView(ViewCategories)
	case key.Matches(msg, m.keys.ViewFilter):
		return m.switchView(ViewFilter)
	case key.Matches(msg, m.keys.ViewCharts):
		return m.switchView(ViewCharts)
	}

	switch m.currentView {
	case ViewExtract:
		return m.handleExtractKey(msg)
	case ViewLive:
		return m.handleLiveKey(msg)
	case ViewCategories:
		return m.handleCategoriesKey(msg)
	case ViewFilter:
		return m.handleFilterKey(msg)
	case ViewCharts:
		return m.handleChartsKey(msg)
	}

	return m, nil
}

// stepView returns the view delta positions away from the current one.
func (m Model) stepView(delta int) View {
	idx := 0
	for i, v := range viewOrder {
		if v == m.currentView {
			idx = i
			break
		}
	}
	n := len(viewOrder)
	return viewOrder[((idx+delta)%n+n)%n]
}

func (m Model) switchView(v View) (tea.Model, tea.Cmd) {
	m.currentView = v
	if v == ViewFilter {
		m.filt.syncFocus()
	}
	return m, nil
}

// handleTick drains the live queue and schedules the next poll.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.app != nil {
		m.drainLive()
		cmds = append(cmds, fetchSnapshotCmd(m.app.State))
	}
	return m, tea.Batch(cmds...)
}

// handleChange reloads whatever a changed dump feeds.
func (m Model) handleChange(c watcher.Change) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if m.watcher != nil {
		cmds = append(cmds, waitForChangeCmd(m.watcher))
	}
	if m.app == nil || m.busy != "" {
		return m, tea.Batch(cmds...)
	}

	categoryChanged := false
	for _, p := range c.Paths {
		if strings.HasSuffix(p, "_logs.txt") && strings.Contains(p, evidence.CategoryDir) {
			categoryChanged = true
		}
	}
	if categoryChanged {
		cmds = append(cmds, loadCategoriesCmd(m.app))
	}
	if c.Has(evidence.LogcatFile) || c.Has(evidence.CallsFile) || c.Has(evidence.SMSFile) {
		cmds = append(cmds, m.chartCmd())
	}
	log.Debug().Strs("paths", c.Paths).Msg("logs dir changed")
	return m, tea.Batch(cmds...)
}

// startBusy marks a long-running action and starts the spinner.
func (m *Model) startBusy(label string) tea.Cmd {
	m.busy = label
	return m.spinner.Tick
}

func (m *Model) setNotice(n app.Notice) {
	m.busy = ""
	m.notice = n
	m.noticeAt = time.Now()
	if n.Err != nil {
		log.Warn().Err(n.Err).Msg(lastLine(n.Text))
	}
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		log.Warn().Err(err).Str("path", m.prefsPath).Msg("save prefs")
	}
}

// markAllDirty forces every viewport to re-render, e.g. after a theme change.
func (m *Model) markAllDirty() {
	m.live.rendered = false
	m.updateLiveViewport()
	m.updateCategoriesViewport()
	m.updateFilterViewport()
}

// resize recomputes viewport dimensions for the current window.
func (m *Model) resize() {
	content := m.contentHeight()

	m.liveViewport.Width = max(m.width-2, 0)
	m.liveViewport.Height = max(content-3, 1)

	m.catViewport.Width = max(m.width-categoryListWidth-2, 0)
	m.catViewport.Height = max(content-2, 1)

	m.filtViewport.Width = max(m.width-2, 0)
	m.filtViewport.Height = max(content-filterFormHeight-2, 1)

	m.markAllDirty()
}

// contentHeight is the space left under the header and command bar and
// above the footer.
func (m Model) contentHeight() int {
	return max(m.height-3, 3)
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	b.WriteString(m.renderContent())
	b.WriteString("\n")

	b.WriteString(m.renderFooter())

	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewLive:
		return m.renderLive()
	case ViewCategories:
		return m.renderCategories()
	case ViewFilter:
		return m.renderFilter()
	case ViewCharts:
		return m.renderCharts()
	default:
		return m.renderExtract()
	}
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type noticeMsg app.Notice

type extractedMsg app.Notice

type categoriesMsg struct {
	result categorize.Result
	notice app.Notice
}

type filterMsg struct {
	result app.FilterResult
	notice app.Notice
}

type chartMsg struct {
	kind   string
	rng    filter.TimeRange
	series charts.Series
	notice app.Notice
}

type changeMsg watcher.Change

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

func loadCategoriesCmd(a *app.App) tea.Cmd {
	return func() tea.Msg {
		res, n := a.LoadCategories()
		return categoriesMsg{result: res, notice: n}
	}
}

// waitForChangeCmd blocks until the watcher reports a batch. A closed
// channel yields nil, which Bubble Tea ignores.
func waitForChangeCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		c, ok := <-w.Events
		if !ok {
			return nil
		}
		return changeMsg(c)
	}
}

// Run starts the Bubble Tea program and stops any live session on exit.
func Run(opts Options) error {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	opts.Context = ctx

	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()

	if opts.App != nil && opts.App.Session.Running() {
		if stopErr := opts.App.Session.Stop(); stopErr != nil {
			log.Warn().Err(stopErr).Msg("stop live session")
		}
	}

	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
