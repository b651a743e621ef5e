package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the status bar: logo, view tabs, device and live state.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	parts := []string{
		bg.Render("droidtrace", styles.Logo),
		m.renderTabs(styles, bg, compact),
		m.renderDeviceStatus(styles, bg, compact),
		m.renderMonitorStatus(styles, bg),
	}

	if !m.snapshot.ExtractedAt.IsZero() && !compact {
		parts = append(parts, bg.Pair("Extracted:", m.snapshot.ExtractedAt.Format("15:04:05"), styles.MutedText, styles.Text))
	}

	if ts := m.formatTimestamp(); ts != "" {
		parts = append(parts, bg.Render(ts, styles.MutedText))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		Render(bg.Join(parts, "  "))
}

// renderTabs renders the numbered view tabs with the current one selected.
func (m Model) renderTabs(styles Styles, bg BgStyle, compact bool) string {
	tabs := make([]string, 0, len(viewOrder))
	for i, v := range viewOrder {
		label := v.String()
		if compact {
			label = label[:1]
		}
		text := fmt.Sprintf("%d %s", i+1, label)
		if v == m.currentView {
			tabs = append(tabs, styles.Selected.Render(" "+text+" "))
			continue
		}
		tabs = append(tabs, bg.Render(text, styles.MutedText))
	}
	return strings.Join(tabs, bg.Spaces(1))
}

// renderDeviceStatus describes the adb connection from the latest poll.
func (m Model) renderDeviceStatus(styles Styles, bg BgStyle, compact bool) string {
	snap := m.snapshot

	if snap.IsOffline() {
		return bg.Render("ADB "+classifyADBError(snap.LastError), styles.DangerText.Bold(true)) +
			bg.Space() + bg.Render("Retrying...", styles.WarningText)
	}
	if snap.LastError != nil && !snap.HasDevices {
		maxErr := ternaryInt(compact, 30, 60)
		return bg.Render("ADB", styles.WarningText.Bold(true)) + bg.Space() +
			bg.Render(truncate(snap.LastError.Error(), maxErr), styles.WarningText)
	}
	if !snap.HasDevices {
		return bg.Render("Checking devices...", styles.WarningText)
	}

	if d, ok := snap.ReadyDevice(); ok {
		name := d.Model
		if name == "" || compact {
			name = d.Serial
		}
		text := "● " + truncate(name, 24)
		if extra := len(snap.Devices) - 1; extra > 0 {
			text += fmt.Sprintf(" +%d", extra)
		}
		return bg.Render(text, styles.SuccessText)
	}
	if len(snap.Devices) > 0 {
		d := snap.Devices[0]
		return bg.Render("● "+truncate(d.Serial, 20), styles.WarningText) + bg.Space() +
			bg.Render(strings.ToUpper(d.State), styles.WarningText.Bold(true))
	}
	return bg.Render("● NO DEVICE", styles.DangerText)
}

// renderMonitorStatus shows whether the live monitor is running.
func (m Model) renderMonitorStatus(styles Styles, bg BgStyle) string {
	if m.app == nil || !m.app.Session.Running() {
		return bg.Pair("Live:", "off", styles.MutedText, styles.FaintText)
	}
	return bg.Pair("Live:", fmt.Sprintf("● %d lines", m.live.backlog.Len()), styles.MutedText, styles.SuccessText)
}

// formatTimestamp formats the last update time with relative indicator.
func (m Model) formatTimestamp() string {
	if m.lastUpdated.IsZero() {
		return ""
	}
	return formatRelative(m.lastUpdated, time.Now())
}

func formatRelative(t, now time.Time) string {
	since := now.Sub(t)
	out := t.Format("15:04:05")

	switch {
	case since < time.Minute:
		out += " (now)"
	case since < time.Hour:
		out += fmt.Sprintf(" (%dm ago)", int(since.Minutes()))
	case since < 24*time.Hour:
		out += fmt.Sprintf(" (%dh ago)", int(since.Hours()))
	}
	return out
}

// classifyADBError returns a short description of a device poll failure.
func classifyADBError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "executable file not found"), strings.Contains(msg, "no such file"):
		return "NOT FOUND"
	case strings.Contains(msg, "deadline"), strings.Contains(msg, "timeout"):
		return "TIMEOUT"
	case strings.Contains(msg, "daemon not running"), strings.Contains(msg, "cannot connect"):
		return "OFFLINE"
	default:
		return "ERROR"
	}
}

// renderCommandBar renders the command hints for the current view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewLive:
		monitor := "Start"
		if m.app != nil && m.app.Session.Running() {
			monitor = "Stop"
		}
		commands = []cmd{
			{"s", monitor},
			{"Space", ternary(m.live.follow, "Pause", "Follow")},
			{"/", "Search"},
			{"n/N", "Next/Prev"},
			{"C", "Clear"},
		}
	case ViewCategories:
		commands = []cmd{
			{"j/k", "Category"},
			{"ctrl+d/u", "Scroll"},
			{"c", "Re-categorize"},
		}
	case ViewFilter:
		commands = []cmd{
			{"up/down", "Field"},
			{"left/right", "Change"},
			{"enter", "Apply"},
			{"ctrl+s", "Save"},
			{"ctrl+r", "Reset"},
		}
	case ViewCharts:
		commands = []cmd{
			{"j/k", "Chart"},
			{"h/l", "Range"},
			{"e", "CSV"},
			{"X", "XLSX"},
			{"p", "PNG"},
		}
	default:
		commands = []cmd{
			{"x", "Extract"},
			{"c", "Categorize"},
			{"r", "Report"},
		}
	}
	commands = append(commands, cmd{"tab", "View"}, cmd{"?", "More"})

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+2)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	if m.currentView == ViewLive && m.live.searchQuery != "" {
		segments = append(segments, bg.Render("/"+truncate(m.live.searchQuery, 18), styles.AccentText))
	}

	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}

// renderFooter shows the running action or the latest outcome.
func (m Model) renderFooter() string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := NewBgStyle(m.theme.Background)

	var content string
	switch {
	case m.busy != "":
		content = bg.Render(m.spinner.View(), styles.AccentText) + bg.Space() + bg.Render(m.busy, styles.Text)
	case m.notice.Text != "" && time.Since(m.noticeAt) < noticeTTL:
		style := styles.Text
		if m.notice.Failed() {
			style = styles.DangerText
		}
		content = bg.Render(truncate(lastLine(m.notice.Text), m.width-1), style)
	default:
		content = bg.Pair("logs", truncateMiddle(m.logsDir(), 60), styles.FaintText, styles.MutedText)
	}
	return bg.FillLine(content, m.width)
}

func (m Model) logsDir() string {
	if m.app == nil {
		return ""
	}
	return m.app.Evidence.Dir()
}

func ternaryInt(cond bool, a, b int) int {
	if cond {
		return a
	}
	return b
}
