package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/droidtrace/internal/app"
)

var errNoDevice = errors.New("no device connected; enable USB debugging and reconnect")

// handleExtractKey processes keyboard input for the extract view.
func (m Model) handleExtractKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.app == nil || m.busy != "" {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Extract):
		if m.snapshot.HasDevices {
			if _, ok := m.snapshot.ReadyDevice(); !ok {
				m.setNotice(app.Notice{Text: "❌ Extraction failed: " + errNoDevice.Error(), Err: errNoDevice})
				return m, nil
			}
		}
		spin := m.startBusy("Extracting logs from device...")
		return m, tea.Batch(spin, extractCmd(m.ctx, m.app))

	case key.Matches(msg, m.keys.Categorize):
		spin := m.startBusy("Categorizing logcat...")
		return m, tea.Batch(spin, categorizeCmd(m.app))

	case key.Matches(msg, m.keys.Report):
		spin := m.startBusy("Generating forensic report...")
		return m, tea.Batch(spin, reportCmd(m.app))
	}
	return m, nil
}

func extractCmd(ctx context.Context, a *app.App) tea.Cmd {
	return func() tea.Msg {
		return extractedMsg(a.Extract(ctx))
	}
}

func categorizeCmd(a *app.App) tea.Cmd {
	return func() tea.Msg {
		res, n := a.Categorize()
		return categoriesMsg{result: res, notice: n}
	}
}

func reportCmd(a *app.App) tea.Cmd {
	return func() tea.Msg {
		return noticeMsg(a.ExportReport())
	}
}

// renderExtract renders the case overview: devices, last extraction,
// category totals and the last action outcome.
func (m Model) renderExtract() string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)
	snap := m.snapshot
	indent := bg.Spaces(2)

	var b strings.Builder
	heading := func(s string) {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(bg.Render(s, styles.AccentText.Bold(true)))
		b.WriteString("\n")
	}

	heading("Devices")
	switch {
	case !snap.HasDevices && snap.LastError == nil:
		b.WriteString(indent + bg.Render("Checking for devices...", styles.MutedText) + "\n")
	case snap.LastError != nil:
		b.WriteString(indent + bg.Render("adb: "+snap.LastError.Error(), styles.DangerText) + "\n")
	case len(snap.Devices) == 0:
		b.WriteString(indent + bg.Render("No device connected", styles.WarningText) + "\n")
	}
	for _, d := range snap.Devices {
		style := styles.SuccessText
		if !d.Ready() {
			style = styles.WarningText
		}
		line := bg.Render("● "+d.Serial, style) + bg.Spaces(2) + bg.Render(d.State, styles.MutedText)
		if d.Model != "" {
			line += bg.Spaces(2) + bg.Render(d.Model, styles.Text)
		}
		b.WriteString(indent + line + "\n")
	}
	b.WriteString(indent + bg.Pair("Logs directory:", m.logsDir(), styles.MutedText, styles.Text) + "\n")

	heading("Last Extraction")
	if !snap.HasExtraction {
		b.WriteString(indent + bg.Render("Nothing extracted yet. Press x to pull logcat, call and SMS logs.", styles.MutedText) + "\n")
	} else {
		b.WriteString(indent + bg.Render(snap.ExtractedAt.Format("2006-01-02 15:04:05"), styles.MutedText) + "\n")
		for _, o := range snap.Extraction.Outcomes() {
			name := padRight(o.Name, 10)
			switch {
			case o.Err != nil:
				b.WriteString(indent + bg.Render("❌ "+name, styles.DangerText) + bg.Space() +
					bg.Render(truncate(o.Err.Error(), max(m.width-24, 20)), styles.DangerText) + "\n")
			case o.Placeholder:
				b.WriteString(indent + bg.Render("⚠️ "+name, styles.WarningText) + bg.Space() +
					bg.Render("no data returned", styles.MutedText) + "\n")
			default:
				b.WriteString(indent + bg.Render("✅ "+name, styles.SuccessText) + bg.Space() +
					bg.Render(formatBytes(o.Bytes), styles.Text) + bg.Spaces(2) +
					bg.Render(truncateMiddle(o.Path, max(m.width-40, 20)), styles.FaintText) + "\n")
			}
		}
	}

	heading("Categories")
	if len(snap.CategoryOrder) == 0 {
		b.WriteString(indent + bg.Render("Not categorized yet. Press c to bucket the logcat dump.", styles.MutedText) + "\n")
	} else {
		var parts []string
		for _, name := range snap.CategoryOrder {
			parts = append(parts, fmt.Sprintf("%s %d", name, snap.Categories[name]))
		}
		b.WriteString(indent + bg.Render(strings.Join(parts, " · "), styles.Text) + "\n")
		if snap.Uncategorized > 0 {
			b.WriteString(indent + bg.Pair("Uncategorized:", fmt.Sprint(snap.Uncategorized), styles.MutedText, styles.Text) + "\n")
		}
	}

	if snap.HasFilter {
		heading("Filter")
		b.WriteString(indent + bg.Render(fmt.Sprintf("%s on %s: %d matches", snap.Filter.Describe(), snap.FilterSource, snap.FilterMatches), styles.Text) + "\n")
	}

	if m.notice.Text != "" {
		heading("Last Action")
		style := styles.Text
		if m.notice.Failed() {
			style = styles.DangerText
		}
		for _, line := range strings.Split(m.notice.Text, "\n") {
			b.WriteString(indent + bg.Render(line, style) + "\n")
		}
	}

	return m.renderBox("Case Overview", strings.TrimRight(b.String(), "\n"), m.width, m.contentHeight(), true)
}

// formatBytes renders a byte count for humans.
func formatBytes(n int) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := unit, 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
