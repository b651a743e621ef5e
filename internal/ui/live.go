package ui

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/five82/droidtrace/internal/app"
	"github.com/five82/droidtrace/internal/live"
	"github.com/five82/droidtrace/internal/logline"
)

// liveState holds the live feed display state.
type liveState struct {
	backlog *live.Backlog
	counts  map[string]int // live categorization tallies
	follow  bool

	// Search
	searchActive   bool
	searchQuery    string
	searchRegex    *regexp.Regexp
	searchInput    textinput.Model
	searchMatches  []int // Line indices that match
	searchMatchIdx int

	// Content caching: skip re-render when neither lines nor search changed
	searchVersion   uint64
	renderedLines   uint64
	renderedSearch  uint64
	rendered        bool
	matchedForLines uint64
}

func newLiveState(limit int) liveState {
	ti := textinput.New()
	ti.Placeholder = "Search live feed..."
	ti.CharLimit = 100

	return liveState{
		backlog:     live.NewBacklog(limit),
		counts:      make(map[string]int),
		follow:      true,
		searchInput: ti,
	}
}

// apply folds one queue message into the display state. Error and status
// messages come back as a notice for the footer.
func (ls *liveState) apply(msg live.Message) (app.Notice, bool) {
	switch msg.Kind {
	case live.Update:
		ls.backlog.Append(msg.Text)
	case live.Categorize:
		ls.counts[msg.Bucket]++
	case live.Error:
		return app.Notice{Text: "❌ " + msg.Text, Err: errors.New(msg.Text)}, true
	case live.Status:
		return app.Notice{Text: msg.Text}, true
	}
	return app.Notice{}, false
}

// drainLive dispatches everything the relay queued since the last tick.
func (m *Model) drainLive() {
	if m.app == nil {
		return
	}
	n := m.app.Session.Poll(func(msg live.Message) {
		if notice, ok := m.live.apply(msg); ok {
			m.setNotice(notice)
		}
	})
	if n > 0 {
		m.updateLiveViewport()
	}
}

// updateLiveViewport re-renders the feed when its content changed.
func (m *Model) updateLiveViewport() {
	ls := &m.live
	version := ls.backlog.Version()

	if ls.searchRegex != nil && ls.matchedForLines != version {
		ls.findSearchMatches()
	}

	if !ls.rendered || ls.renderedLines != version || ls.renderedSearch != ls.searchVersion {
		m.liveViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))
		m.liveViewport.SetContent(m.renderLiveContent())
		ls.renderedLines = version
		ls.renderedSearch = ls.searchVersion
		ls.rendered = true
	}

	if ls.follow {
		m.liveViewport.GotoBottom()
	}
}

// renderLive renders the live view: feed box plus a status line.
func (m Model) renderLive() string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := NewBgStyle(m.theme.Background)
	height := m.contentHeight()

	title := "Live Logcat"
	if m.app != nil && m.app.Session.Running() {
		title += " (monitoring)"
	}
	box := m.renderBox(title, m.liveViewport.View(), m.width, height-1, true)
	return box + "\n" + bg.FillLine(m.renderLiveStatus(styles, bg), m.width)
}

// renderLiveStatus shows search progress, or the feed summary.
func (m Model) renderLiveStatus(styles Styles, bg BgStyle) string {
	ls := m.live
	if ls.searchActive {
		return bg.Render("/", styles.AccentText) + ls.searchInput.View()
	}
	if ls.searchRegex != nil && len(ls.searchMatches) > 0 {
		return bg.Render("/"+ls.searchQuery, styles.AccentText) +
			bg.Render(" - ", styles.FaintText) +
			bg.Render(fmt.Sprintf("%d/%d", ls.searchMatchIdx+1, len(ls.searchMatches)), styles.WarningText) +
			bg.Render(" - Press ", styles.FaintText) +
			bg.Render("n", styles.AccentText) +
			bg.Render(" for next, ", styles.FaintText) +
			bg.Render("N", styles.AccentText) +
			bg.Render(" for previous, ", styles.FaintText) +
			bg.Render("Esc", styles.AccentText) +
			bg.Render(" to clear", styles.FaintText)
	}
	if ls.searchRegex != nil {
		return bg.Render("Pattern not found: "+ls.searchQuery, styles.DangerText)
	}
	return m.renderLiveFooter(styles, bg)
}

// renderLiveFooter summarizes the feed: size, follow mode, live tallies.
func (m Model) renderLiveFooter(styles Styles, bg BgStyle) string {
	ls := m.live
	status := fmt.Sprintf("%d/%d lines auto-tail %s", ls.backlog.Len(), ls.backlog.Limit(), ternary(ls.follow, "on", "off"))
	parts := []string{bg.Render(status, styles.FaintText)}

	if dropped := ls.backlog.Dropped(); dropped > 0 {
		parts = append(parts, bg.Render(fmt.Sprintf("%d trimmed", dropped), styles.MutedText))
	}
	if tallies := formatTallies(ls.counts, 4); tallies != "" {
		parts = append(parts, bg.Render(tallies, styles.InfoText))
	}
	if m.app != nil && m.app.Session.Running() {
		parts = append(parts, bg.Render("session "+shortID(m.app.Session.ID), styles.AccentText))
	}

	sep := bg.Space() + bg.Render("•", styles.FaintText) + bg.Space()
	return strings.Join(parts, sep)
}

// formatTallies lists the busiest buckets first, at most limit of them.
func formatTallies(counts map[string]int, limit int) string {
	type tally struct {
		name  string
		count int
	}
	all := make([]tally, 0, len(counts))
	for name, n := range counts {
		if n > 0 {
			all = append(all, tally{name, n})
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].count != all[j].count {
			return all[i].count > all[j].count
		}
		return all[i].name < all[j].name
	})
	if len(all) > limit {
		all = all[:limit]
	}
	parts := make([]string, len(all))
	for i, t := range all {
		parts[i] = fmt.Sprintf("%s %d", t.name, t.count)
	}
	return strings.Join(parts, " · ")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// renderLiveContent renders the numbered, colorized feed.
func (m *Model) renderLiveContent() string {
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles()
	width := m.liveViewport.Width
	lines := m.live.backlog.Lines()

	if len(lines) == 0 {
		hint := "Press s to start live monitoring"
		if m.app != nil && m.app.Session.Running() {
			hint = "Waiting for logcat output..."
		}
		return bg.FillLine(bg.Render(hint, styles.MutedText), width)
	}

	matchSet := make(map[int]bool, len(m.live.searchMatches))
	for _, idx := range m.live.searchMatches {
		matchSet[idx] = true
	}
	activeMatchLine := -1
	if len(m.live.searchMatches) > 0 && m.live.searchMatchIdx < len(m.live.searchMatches) {
		activeMatchLine = m.live.searchMatches[m.live.searchMatchIdx]
	}

	var b strings.Builder
	for i, line := range lines {
		num := fmt.Sprintf("%4d │ ", i+1)

		var lineContent string
		switch {
		case i == activeMatchLine:
			hl := lipgloss.NewStyle().
				Background(lipgloss.Color(m.theme.Warning)).
				Foreground(lipgloss.Color(m.theme.Background))
			lineContent = hl.Render(num + line)
		case matchSet[i]:
			lineContent = bg.Render(num, styles.AccentText) + bg.Render(line, styles.AccentText)
		default:
			lineContent = bg.Render(num, styles.FaintText) + m.colorizeLine(line, bg)
		}

		b.WriteString(bg.FillLine(lineContent, width))
		if i < len(lines)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// colorizeLine colors a line by its logcat priority.
func (m *Model) colorizeLine(line string, bg BgStyle) string {
	if strings.TrimSpace(line) == "" {
		return line
	}
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.LevelColor(logline.Priority(line))))
	return bg.Render(line, style)
}

// handleLiveKey processes keyboard input for the live view.
func (m Model) handleLiveKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleMonitor):
		if m.app == nil {
			return m, nil
		}
		// Start and stop report their own outcome through the queue.
		if err := m.app.Session.Toggle(m.ctx); err != nil {
			log.Debug().Err(err).Msg("toggle live monitoring")
		}
		m.updateLiveViewport()
		return m, nil

	case key.Matches(msg, m.keys.ToggleFollow):
		m.live.follow = !m.live.follow
		m.updateLiveViewport()
		return m, nil

	case key.Matches(msg, m.keys.ClearLive):
		m.live.backlog.Reset()
		clear(m.live.counts)
		m.live.clearSearch()
		m.updateLiveViewport()
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.live.searchActive = true
		m.live.searchInput.SetValue("")
		return m, m.live.searchInput.Focus()

	case key.Matches(msg, m.keys.NextMatch):
		m.live.stepMatch(1)
		m.scrollToSearchMatch()
		m.updateLiveViewport()
		return m, nil

	case key.Matches(msg, m.keys.PrevMatch):
		m.live.stepMatch(-1)
		m.scrollToSearchMatch()
		m.updateLiveViewport()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		if m.live.searchRegex != nil {
			m.live.clearSearch()
			m.updateLiveViewport()
		}
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.liveViewport.GotoTop()
		m.live.follow = false
	case key.Matches(msg, m.keys.Bottom):
		m.liveViewport.GotoBottom()
		m.live.follow = true
	case key.Matches(msg, m.keys.Down):
		m.liveViewport.ScrollDown(1)
		m.live.follow = false
	case key.Matches(msg, m.keys.Up):
		m.liveViewport.ScrollUp(1)
		m.live.follow = false
	case key.Matches(msg, m.keys.HalfPageDown):
		m.liveViewport.HalfPageDown()
		m.live.follow = false
	case key.Matches(msg, m.keys.HalfPageUp):
		m.liveViewport.HalfPageUp()
		m.live.follow = false
	case key.Matches(msg, m.keys.PageDown):
		m.liveViewport.PageDown()
		m.live.follow = false
	case key.Matches(msg, m.keys.PageUp):
		m.liveViewport.PageUp()
		m.live.follow = false
	}

	return m, nil
}

// handleLiveSearchInput handles keyboard input while typing a search.
func (m Model) handleLiveSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		query := m.live.searchInput.Value()
		m.live.searchActive = false
		m.live.searchInput.Blur()
		if query == "" {
			return m, nil
		}
		if err := m.live.setSearch(query); err != nil {
			m.setNotice(app.Notice{Text: "❌ Invalid search: " + err.Error(), Err: err})
			return m, nil
		}
		m.scrollToSearchMatch()
		m.updateLiveViewport()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.live.searchActive = false
		m.live.searchInput.Blur()
		m.live.searchInput.SetValue("")
		return m, nil
	}

	var cmd tea.Cmd
	m.live.searchInput, cmd = m.live.searchInput.Update(msg)
	return m, cmd
}

// setSearch compiles a case-insensitive query and finds its matches.
func (ls *liveState) setSearch(query string) error {
	re, err := regexp.Compile("(?i)" + query)
	if err != nil {
		return err
	}
	ls.searchRegex = re
	ls.searchQuery = query
	ls.searchMatchIdx = 0
	ls.findSearchMatches()
	return nil
}

// clearSearch clears the search state.
func (ls *liveState) clearSearch() {
	ls.searchRegex = nil
	ls.searchQuery = ""
	ls.searchMatches = nil
	ls.searchMatchIdx = 0
	ls.searchVersion++
}

// findSearchMatches finds all buffered lines matching the current search.
func (ls *liveState) findSearchMatches() {
	ls.searchMatches = nil
	ls.matchedForLines = ls.backlog.Version()
	ls.searchVersion++
	if ls.searchRegex == nil {
		return
	}
	for i, line := range ls.backlog.Lines() {
		if ls.searchRegex.MatchString(line) {
			ls.searchMatches = append(ls.searchMatches, i)
		}
	}
	if ls.searchMatchIdx >= len(ls.searchMatches) {
		ls.searchMatchIdx = 0
	}
}

// stepMatch moves the active match by delta, wrapping around.
func (ls *liveState) stepMatch(delta int) {
	n := len(ls.searchMatches)
	if n == 0 {
		return
	}
	ls.searchMatchIdx = ((ls.searchMatchIdx+delta)%n + n) % n
	ls.searchVersion++
}

// scrollToSearchMatch centers the viewport on the active match.
func (m *Model) scrollToSearchMatch() {
	ls := &m.live
	if len(ls.searchMatches) == 0 || ls.searchMatchIdx >= len(ls.searchMatches) {
		return
	}
	target := ls.searchMatches[ls.searchMatchIdx]
	ls.follow = false
	m.liveViewport.SetYOffset(max(target-m.liveViewport.Height/2, 0))
}
