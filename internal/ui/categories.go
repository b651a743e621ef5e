package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/droidtrace/internal/categorize"
	"github.com/five82/droidtrace/internal/patterns"
)

// categoriesState holds the bucket browser state.
type categoriesState struct {
	result   categorize.Result
	selected int
	loaded   bool
}

// apply swaps in a new result, keeping the selection on the same bucket.
func (cs *categoriesState) apply(res categorize.Result) {
	current := cs.selectedName()
	cs.result = res
	cs.loaded = true
	cs.selected = 0
	for i, name := range res.Order {
		if name == current {
			cs.selected = i
			break
		}
	}
}

func (cs categoriesState) selectedName() string {
	if cs.selected < 0 || cs.selected >= len(cs.result.Order) {
		return ""
	}
	return cs.result.Order[cs.selected]
}

// move shifts the selection by delta, clamped to the bucket list.
func (cs *categoriesState) move(delta int) bool {
	n := len(cs.result.Order)
	if n == 0 {
		return false
	}
	next := min(max(cs.selected+delta, 0), n-1)
	if next == cs.selected {
		return false
	}
	cs.selected = next
	return true
}

// handleCategoriesKey processes keyboard input for the categories view.
func (m Model) handleCategoriesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Categorize):
		if m.app == nil || m.busy != "" {
			return m, nil
		}
		spin := m.startBusy("Categorizing logcat...")
		return m, tea.Batch(spin, categorizeCmd(m.app))

	case key.Matches(msg, m.keys.Down):
		if m.cats.move(1) {
			m.updateCategoriesViewport()
		}
	case key.Matches(msg, m.keys.Up):
		if m.cats.move(-1) {
			m.updateCategoriesViewport()
		}
	case key.Matches(msg, m.keys.Top):
		m.catViewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.catViewport.GotoBottom()
	case key.Matches(msg, m.keys.HalfPageDown):
		m.catViewport.HalfPageDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		m.catViewport.HalfPageUp()
	case key.Matches(msg, m.keys.PageDown):
		m.catViewport.PageDown()
	case key.Matches(msg, m.keys.PageUp):
		m.catViewport.PageUp()
	}
	return m, nil
}

// updateCategoriesViewport loads the selected bucket's lines.
func (m *Model) updateCategoriesViewport() {
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles()
	width := m.catViewport.Width

	m.catViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))

	name := m.cats.selectedName()
	lines := m.cats.result.Buckets[name]
	if len(lines) == 0 {
		msg := "No lines in this category"
		if !m.cats.loaded || name == "" {
			msg = "No categorized logs yet. Extract or press c to categorize."
		}
		m.catViewport.SetContent(bg.FillLine(bg.Render(msg, styles.MutedText), width))
		m.catViewport.GotoTop()
		return
	}

	var b strings.Builder
	for i, line := range lines {
		b.WriteString(bg.FillLine(bg.Render(fmt.Sprintf("%5d │ ", i+1), styles.FaintText)+m.colorizeLine(line, bg), width))
		if i < len(lines)-1 {
			b.WriteString("\n")
		}
	}
	m.catViewport.SetContent(b.String())
	m.catViewport.GotoTop()
}

// renderCategories renders the bucket list beside the selected bucket.
func (m Model) renderCategories() string {
	height := m.contentHeight()
	listW := min(categoryListWidth, m.width/2)

	list := m.renderBox("Log Types", m.renderCategoryList(listW-2), listW, height, false)

	title := "Lines"
	if name := m.cats.selectedName(); name != "" {
		title = fmt.Sprintf("%s (%d)", name, m.cats.result.Count(name))
		if rule, ok := patterns.LogTypes.Lookup(name); ok && rule.Description != "" && m.width >= LayoutCompactWidth {
			title += " - " + rule.Description
		}
	}
	lines := m.renderBox(title, m.catViewport.View(), m.width-listW, height, true)

	return lipgloss.JoinHorizontal(lipgloss.Top, list, lines)
}

// renderCategoryList renders one row per bucket, colored by log type.
func (m Model) renderCategoryList(width int) string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)
	res := m.cats.result

	if len(res.Order) == 0 {
		return bg.Render("No categories", styles.MutedText)
	}

	rows := make([]string, 0, len(res.Order)+2)
	for i, name := range res.Order {
		count := fmt.Sprint(res.Count(name))
		label := padRight(truncate(name, width-len(count)-3), width-len(count)-1) + count
		if i == m.cats.selected {
			rows = append(rows, styles.Selected.Render(padRight(" "+label, width)))
			continue
		}
		color := m.theme.Text
		if rule, ok := patterns.LogTypes.Lookup(name); ok {
			color = m.theme.ColorFor(rule.Color)
		}
		rows = append(rows, bg.Render(" "+label, lipgloss.NewStyle().Foreground(lipgloss.Color(color))))
	}

	rows = append(rows, "", bg.Pair(" Total", fmt.Sprint(res.Matched()), styles.MutedText, styles.Text))
	if res.Unmatched > 0 {
		rows = append(rows, bg.Pair(" Other", fmt.Sprint(res.Unmatched), styles.MutedText, styles.FaintText))
	}
	return strings.Join(rows, "\n")
}
