package ui

import (
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/droidtrace/internal/app"
	"github.com/five82/droidtrace/internal/charts"
	"github.com/five82/droidtrace/internal/filter"
)

// chartState holds the selected chart and its latest series.
type chartState struct {
	kinds  []string
	idx    int
	rng    filter.TimeRange
	series charts.Series
	loaded bool
	empty  string // notice text when the series has no data
}

func newChartState(kinds []string, kind string, rng filter.TimeRange) chartState {
	return chartState{kinds: kinds, idx: indexFold(kinds, kind), rng: rng}
}

func (cs chartState) kind() string {
	if len(cs.kinds) == 0 {
		return ""
	}
	return cs.kinds[cs.idx]
}

func (m Model) chartKinds() []string {
	if m.app != nil {
		return m.app.Charts.Kinds()
	}
	return (&charts.Builder{}).Kinds()
}

// chartCmd builds the selected series in the background.
func (m Model) chartCmd() tea.Cmd {
	if m.app == nil {
		return nil
	}
	a, kind, rng := m.app, m.chart.kind(), m.chart.rng
	return func() tea.Msg {
		s, n := a.Chart(kind, rng)
		return chartMsg{kind: kind, rng: rng, series: s, notice: n}
	}
}

func exportChartCmd(a *app.App, kind string, rng filter.TimeRange, f charts.Format) tea.Cmd {
	return func() tea.Msg {
		return noticeMsg(a.ExportChart(kind, rng, f))
	}
}

// handleChartsKey processes keyboard input for the charts view.
func (m Model) handleChartsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.chart.kinds)
	if n == 0 {
		return m, nil
	}

	changed := false
	switch {
	case key.Matches(msg, m.keys.Down):
		m.chart.idx = (m.chart.idx + 1) % n
		changed = true
	case key.Matches(msg, m.keys.Up):
		m.chart.idx = (m.chart.idx - 1 + n) % n
		changed = true
	case key.Matches(msg, m.keys.Right):
		m.chart.rng = stepRange(m.chart.rng, 1)
		changed = true
	case key.Matches(msg, m.keys.Left):
		m.chart.rng = stepRange(m.chart.rng, -1)
		changed = true

	case key.Matches(msg, m.keys.ExportCSV):
		return m.exportChart(charts.CSV)
	case key.Matches(msg, m.keys.ExportXLSX):
		return m.exportChart(charts.XLSX)
	case key.Matches(msg, m.keys.ExportPNG):
		return m.exportChart(charts.PNG)
	}

	if !changed {
		return m, nil
	}
	m.chart.loaded = false
	m.prefs.ChartKind = m.chart.kind()
	m.prefs.ChartRange = m.chart.rng
	m.savePrefs()
	return m, m.chartCmd()
}

func (m Model) exportChart(f charts.Format) (tea.Model, tea.Cmd) {
	if m.app == nil || m.busy != "" {
		return m, nil
	}
	spin := m.startBusy("Exporting " + m.chart.kind() + " as " + strings.ToUpper(string(f)) + "...")
	return m, tea.Batch(spin, exportChartCmd(m.app, m.chart.kind(), m.chart.rng, f))
}

// stepRange moves through the time ranges, wrapping.
func stepRange(r filter.TimeRange, delta int) filter.TimeRange {
	ranges := filter.TimeRanges()
	idx := 0
	for i, x := range ranges {
		if x == r {
			idx = i
		}
	}
	n := len(ranges)
	return ranges[((idx+delta)%n+n)%n]
}

// renderCharts renders the kind list beside the selected chart.
func (m Model) renderCharts() string {
	height := m.contentHeight()
	listW := min(chartListWidth, m.width/3)

	list := m.renderBox("Charts", m.renderChartList(listW-2), listW, height, false)

	title := m.chart.kind() + " · " + m.chart.rng.String()
	if m.chart.series.Title != "" {
		title = m.chart.series.Title
	}
	body := m.renderChartBody(m.width-listW-2)
	chart := m.renderBox(title, body, m.width-listW, height, true)

	return lipgloss.JoinHorizontal(lipgloss.Top, list, chart)
}

func (m Model) renderChartList(width int) string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)

	rows := make([]string, 0, len(m.chart.kinds))
	for i, k := range m.chart.kinds {
		label := " " + truncate(k, width-1)
		if i == m.chart.idx {
			rows = append(rows, styles.Selected.Render(padRight(label, width)))
			continue
		}
		rows = append(rows, bg.Render(label, styles.Text))
	}
	return strings.Join(rows, "\n")
}

// renderChartBody draws the series as horizontal bars.
func (m Model) renderChartBody(width int) string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)

	switch {
	case !m.chart.loaded:
		return bg.Render("Loading...", styles.MutedText)
	case m.chart.series.Empty():
		msg := m.chart.empty
		if msg == "" {
			msg = "No data for this chart."
		}
		return bg.Render(msg, styles.MutedText)
	}

	s := m.chart.series
	barStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Accent))

	var b strings.Builder
	if s.XLabel != "" || s.YLabel != "" {
		b.WriteString(bg.Render(s.XLabel+" vs "+s.YLabel, styles.FaintText))
		b.WriteString("\n\n")
	}
	for i, row := range barRows(s, width) {
		b.WriteString(bg.Render(row.label, styles.MutedText) + bg.Space())
		b.WriteString(bg.Render(row.bar, barStyle))
		b.WriteString(bg.Space() + bg.Render(row.value, styles.Text))
		if i < len(s.Points)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// barRow is one rendered bar, unstyled.
type barRow struct {
	label string
	bar   string
	value string
}

// barRows scales the series to width cells. Labels are padded to a common
// width; any non-zero value gets at least one cell.
func barRows(s charts.Series, width int) []barRow {
	labelW, valueW := 0, 0
	maxVal := 0.0
	values := make([]string, len(s.Points))
	for i, p := range s.Points {
		labelW = max(labelW, lipgloss.Width(p.Label))
		values[i] = strconv.FormatFloat(p.Value, 'f', -1, 64)
		valueW = max(valueW, len(values[i]))
		maxVal = math.Max(maxVal, p.Value)
	}
	labelW = min(labelW, 18)
	barW := max(width-labelW-valueW-2, 1)

	rows := make([]barRow, len(s.Points))
	for i, p := range s.Points {
		cells := 0
		if maxVal > 0 && p.Value > 0 {
			cells = max(int(math.Round(p.Value/maxVal*float64(barW))), 1)
		}
		rows[i] = barRow{
			label: padRight(truncate(p.Label, labelW), labelW),
			bar:   padRight(strings.Repeat("█", cells), barW),
			value: values[i],
		}
	}
	return rows
}
