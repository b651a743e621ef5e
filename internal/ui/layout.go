package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100
)

// Fixed panel sizes.
const (
	// categoryListWidth is the width of the bucket list in the categories view.
	categoryListWidth = 30

	// chartListWidth is the width of the kind list in the charts view.
	chartListWidth = 28

	// filterFormHeight is the height of the filter form box, borders included.
	filterFormHeight = 7
)

// Timing constants.
const (
	// DefaultUIInterval is the default UI refresh interval. It also sets how
	// often the live queue is drained.
	DefaultUIInterval = 100 * time.Millisecond

	// noticeTTL is how long an action outcome stays in the footer.
	noticeTTL = 15 * time.Second
)

// renderBox draws content inside a rounded border with title set into the
// top edge. width and height include the border.
func (m Model) renderBox(title, content string, width, height int, focused bool) string {
	borderColor := m.theme.Border
	if focused {
		borderColor = m.theme.BorderFocus
	}
	innerW := max(width-2, 0)
	innerH := max(height-2, 0)

	top := lipgloss.NewStyle().
		Foreground(lipgloss.Color(borderColor)).
		Render(boxTop(title, width))

	body := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderTop(false).
		BorderForeground(lipgloss.Color(borderColor)).
		Background(lipgloss.Color(m.theme.FocusBg)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(innerW).
		Height(innerH).
		Render(clipLines(lipgloss.NewStyle().Width(innerW).Render(content), innerH))

	return top + "\n" + body
}

// boxTop builds the top border with an inline title: ╭─ Title ─────╮.
func boxTop(title string, width int) string {
	if width < 2 {
		return strings.Repeat("─", max(width, 0))
	}
	inner := width - 2
	title = strings.TrimSpace(title)
	if title == "" || inner < 5 {
		return "╭" + strings.Repeat("─", inner) + "╮"
	}
	label := " " + truncate(title, inner-3) + " "
	fill := inner - 1 - lipgloss.Width(label)
	return "╭─" + label + strings.Repeat("─", max(fill, 0)) + "╮"
}
