package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type helpSection struct {
	title string
	items []helpItem
}

type helpItem struct {
	key  string
	desc string
}

var helpSections = []helpSection{
	{
		title: "Navigation",
		items: []helpItem{
			{"1-5", "Extract/Live/Categories/Filter/Charts"},
			{"tab", "Cycle views"},
			{"j/k", "Move up/down"},
			{"g/G", "Go to top/bottom"},
			{"ctrl+d/u", "Half page down/up"},
		},
	},
	{
		title: "Extract",
		items: []helpItem{
			{"x", "Extract logs from device"},
			{"c", "Categorize logcat"},
			{"r", "Export PDF report"},
		},
	},
	{
		title: "Live",
		items: []helpItem{
			{"s", "Start/stop monitoring"},
			{"Space", "Toggle follow mode"},
			{"/", "Search feed"},
			{"n/N", "Next/prev match"},
			{"C", "Clear feed"},
		},
	},
	{
		title: "Filter",
		items: []helpItem{
			{"up/down", "Select field"},
			{"left/right", "Change value"},
			{"enter", "Apply filters"},
			{"ctrl+s", "Save results to exports"},
			{"ctrl+r", "Reset filters"},
		},
	},
	{
		title: "Charts",
		items: []helpItem{
			{"j/k", "Select chart"},
			{"h/l", "Change time range"},
			{"e/X/p", "Export CSV/XLSX/PNG"},
		},
	},
	{
		title: "General",
		items: []helpItem{
			{"T", "Cycle theme"},
			{"?", "Toggle help"},
			{"q/ctrl+c", "Quit"},
		},
	},
}

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	var b strings.Builder

	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 44)))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Warning)).
		Width(12)

	for i, section := range helpSections {
		b.WriteString(styles.AccentText.Bold(true).Render(section.title))
		b.WriteString("\n")

		for _, item := range section.items {
			b.WriteString(keyStyle.Render(item.key))
			b.WriteString(styles.Text.Render(item.desc))
			b.WriteString("\n")
		}

		if i < len(helpSections)-1 {
			b.WriteString("\n")
		}
	}

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(52)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}
