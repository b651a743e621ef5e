package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/droidtrace/internal/app"
	"github.com/five82/droidtrace/internal/filter"
	"github.com/five82/droidtrace/internal/patterns"
	"github.com/five82/droidtrace/internal/prefs"
)

type filterField int

const (
	fieldSource filterField = iota
	fieldRange
	fieldSeverity
	fieldSubtype
	fieldKeyword
)

var filterFieldLabels = map[filterField]string{
	fieldSource:   "Source",
	fieldRange:    "Range",
	fieldSeverity: "Severity",
	fieldSubtype:  "Subtype",
	fieldKeyword:  "Keyword",
}

// filterState holds the filter form and its latest results.
type filterState struct {
	sources    []string
	ranges     []filter.TimeRange
	severities []string
	subtypes   []string

	source   int
	rng      int
	severity int
	subtype  int
	keyword  textinput.Model
	focus    filterField

	lines []string
	ran   bool
}

func newFilterState(p prefs.Prefs) filterState {
	ti := textinput.New()
	ti.Placeholder = "any text (case-insensitive)"
	ti.CharLimit = 200
	ti.Prompt = ""

	fs := filterState{
		sources:    app.Sources(),
		ranges:     filter.TimeRanges(),
		severities: append([]string{patterns.All}, patterns.Severities.Names()...),
		subtypes:   append([]string{patterns.All}, patterns.Subtypes.Names()...),
		keyword:    ti,
	}
	fs.load(p.Source, p.Filter)
	return fs
}

// load sets the form from saved values; unknown names fall back to the first
// option.
func (fs *filterState) load(source string, c filter.Criteria) {
	fs.source = indexFold(fs.sources, source)
	fs.rng = 0
	for i, r := range fs.ranges {
		if r == c.Range {
			fs.rng = i
		}
	}
	fs.severity = indexFold(fs.severities, c.Severity)
	fs.subtype = indexFold(fs.subtypes, c.Subtype)
	fs.keyword.SetValue(c.Keyword)
}

// reset clears every criterion but keeps the source.
func (fs *filterState) reset() {
	fs.load(fs.sourceName(), filter.Criteria{})
	fs.lines = nil
	fs.ran = false
}

func (fs filterState) sourceName() string {
	return fs.sources[fs.source]
}

// criteria builds the filter criteria from the form.
func (fs filterState) criteria() filter.Criteria {
	return filter.Criteria{
		Keyword:  strings.TrimSpace(fs.keyword.Value()),
		Range:    fs.ranges[fs.rng],
		Severity: fs.severities[fs.severity],
		Subtype:  fs.subtypes[fs.subtype],
	}
}

func (fs filterState) editingKeyword() bool {
	return fs.focus == fieldKeyword
}

// moveFocus steps between form rows, clamped.
func (fs *filterState) moveFocus(delta int) {
	fs.focus = filterField(min(max(int(fs.focus)+delta, int(fieldSource)), int(fieldKeyword)))
	fs.syncFocus()
}

// syncFocus focuses the keyword input only when its row is selected.
func (fs *filterState) syncFocus() {
	if fs.focus == fieldKeyword {
		fs.keyword.Focus()
		return
	}
	fs.keyword.Blur()
}

// cycle changes the focused selector by delta, wrapping.
func (fs *filterState) cycle(delta int) {
	step := func(i, n int) int { return ((i+delta)%n + n) % n }
	switch fs.focus {
	case fieldSource:
		fs.source = step(fs.source, len(fs.sources))
	case fieldRange:
		fs.rng = step(fs.rng, len(fs.ranges))
	case fieldSeverity:
		fs.severity = step(fs.severity, len(fs.severities))
	case fieldSubtype:
		fs.subtype = step(fs.subtype, len(fs.subtypes))
	}
}

// value returns the display value of a selector row.
func (fs filterState) value(f filterField) string {
	switch f {
	case fieldSource:
		return fs.sourceName()
	case fieldRange:
		return fs.ranges[fs.rng].String()
	case fieldSeverity:
		return fs.severities[fs.severity]
	case fieldSubtype:
		return fs.subtypes[fs.subtype]
	}
	return fs.keyword.Value()
}

// handleFilterInput routes keys while the keyword input has focus. It
// reports false for keys that should fall through to the normal bindings.
func (m Model) handleFilterInput(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyUp:
		m.filt.moveFocus(-1)
		return true, m, nil
	case msg.Type == tea.KeyDown:
		return true, m, nil
	case key.Matches(msg, m.keys.Confirm):
		next, cmd := m.runFilter()
		return true, next, cmd
	case key.Matches(msg, m.keys.Escape):
		m.filt.focus = fieldSource
		m.filt.syncFocus()
		return true, m, nil
	case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.ShiftTab),
		key.Matches(msg, m.keys.SaveFiltered), key.Matches(msg, m.keys.ResetFilter):
		return false, m, nil
	}

	var cmd tea.Cmd
	m.filt.keyword, cmd = m.filt.keyword.Update(msg)
	return true, m, cmd
}

// handleFilterKey processes keyboard input for the filter view.
func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		return m.runFilter()

	case key.Matches(msg, m.keys.SaveFiltered):
		return m.saveFiltered()

	case key.Matches(msg, m.keys.ResetFilter):
		m.filt.reset()
		m.filt.syncFocus()
		m.updateFilterViewport()
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.filt.moveFocus(-1)
	case key.Matches(msg, m.keys.Down):
		m.filt.moveFocus(1)
	case key.Matches(msg, m.keys.Left):
		m.filt.cycle(-1)
	case key.Matches(msg, m.keys.Right):
		m.filt.cycle(1)

	case key.Matches(msg, m.keys.Top):
		m.filtViewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.filtViewport.GotoBottom()
	case key.Matches(msg, m.keys.HalfPageDown):
		m.filtViewport.HalfPageDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		m.filtViewport.HalfPageUp()
	case key.Matches(msg, m.keys.PageDown):
		m.filtViewport.PageDown()
	case key.Matches(msg, m.keys.PageUp):
		m.filtViewport.PageUp()
	}
	return m, nil
}

// runFilter remembers the form in prefs and filters in the background.
func (m Model) runFilter() (tea.Model, tea.Cmd) {
	if m.app == nil || m.busy != "" {
		return m, nil
	}
	src, c := m.filt.sourceName(), m.filt.criteria()
	m.prefs.Source = src
	m.prefs.Filter = c
	m.savePrefs()

	spin := m.startBusy(fmt.Sprintf("Filtering %s logs (%s)...", src, c.Describe()))
	return m, tea.Batch(spin, filterCmd(m.app, src, c))
}

// saveFiltered copies the filtered dump into the exports directory.
func (m Model) saveFiltered() (tea.Model, tea.Cmd) {
	if m.app == nil || m.busy != "" {
		return m, nil
	}
	name := fmt.Sprintf("filtered_%s_%s.txt", m.filt.sourceName(), m.app.Now().Format("20060102_150405"))
	dst := filepath.Join(m.app.Evidence.ExportsDir(), name)
	a := m.app
	return m, func() tea.Msg {
		return noticeMsg(a.SaveFiltered(dst))
	}
}

func filterCmd(a *app.App, source string, c filter.Criteria) tea.Cmd {
	return func() tea.Msg {
		res, n := a.Filter(source, c)
		return filterMsg{result: res, notice: n}
	}
}

// updateFilterViewport loads the filtered lines.
func (m *Model) updateFilterViewport() {
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles()
	width := m.filtViewport.Width

	m.filtViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))

	if len(m.filt.lines) == 0 {
		msg := "Press enter to apply the filters."
		if m.filt.ran {
			msg = "No logs match the selected filters."
		}
		m.filtViewport.SetContent(bg.FillLine(bg.Render(msg, styles.MutedText), width))
		m.filtViewport.GotoTop()
		return
	}

	var b strings.Builder
	for i, line := range m.filt.lines {
		b.WriteString(bg.FillLine(bg.Render(fmt.Sprintf("%5d │ ", i+1), styles.FaintText)+m.colorizeLine(line, bg), width))
		if i < len(m.filt.lines)-1 {
			b.WriteString("\n")
		}
	}
	m.filtViewport.SetContent(b.String())
	m.filtViewport.GotoTop()
}

// renderFilter renders the form above the results.
func (m Model) renderFilter() string {
	height := m.contentHeight()
	form := m.renderBox("Filter", m.renderFilterForm(), m.width, filterFormHeight, m.filt.editingKeyword())

	title := "Results"
	if m.filt.ran {
		title = fmt.Sprintf("Results: %d matching entries", len(m.filt.lines))
	}
	results := m.renderBox(title, m.filtViewport.View(), m.width, height-filterFormHeight, !m.filt.editingKeyword())
	return form + "\n" + results
}

// renderFilterForm renders one row per criterion.
func (m Model) renderFilterForm() string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)

	rows := make([]string, 0, 5)
	for f := fieldSource; f <= fieldKeyword; f++ {
		focused := m.filt.focus == f
		label := padRight(filterFieldLabels[f], 10)
		labelStyle := styles.MutedText
		if focused {
			labelStyle = styles.AccentText.Bold(true)
		}

		var value string
		switch {
		case f == fieldKeyword:
			value = m.filt.keyword.View()
		case focused:
			value = styles.Selected.Render(" ‹ " + m.filt.value(f) + " › ")
		default:
			value = bg.Render(m.filt.value(f), styles.Text)
		}
		rows = append(rows, bg.Render(label, labelStyle)+value)
	}
	return strings.Join(rows, "\n")
}
