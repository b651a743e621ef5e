package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Tab        key.Binding
	ShiftTab   key.Binding
	Escape     key.Binding

	// View switching
	ViewExtract    key.Binding
	ViewLive       key.Binding
	ViewCategories key.Binding
	ViewFilter     key.Binding
	ViewCharts     key.Binding

	// Extract actions
	Extract    key.Binding
	Categorize key.Binding
	Report     key.Binding

	// Navigation
	Up           key.Binding
	Down         key.Binding
	Left         key.Binding
	Right        key.Binding
	Top          key.Binding
	Bottom       key.Binding
	PageUp       key.Binding
	PageDown     key.Binding
	HalfPageUp   key.Binding
	HalfPageDown key.Binding

	// Live actions
	ToggleMonitor key.Binding
	ToggleFollow  key.Binding
	ClearLive     key.Binding
	Search        key.Binding
	NextMatch     key.Binding
	PrevMatch     key.Binding

	// Filter actions
	SaveFiltered key.Binding
	ResetFilter  key.Binding

	// Chart actions
	ExportCSV  key.Binding
	ExportXLSX key.Binding
	ExportPNG  key.Binding

	// Search/input
	Confirm key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		// Global
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next view"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Previous view"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Cancel"),
		),

		// View switching
		ViewExtract: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Extract"),
		),
		ViewLive: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Live"),
		),
		ViewCategories: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "Categories"),
		),
		ViewFilter: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "Filter"),
		),
		ViewCharts: key.NewBinding(
			key.WithKeys("5"),
			key.WithHelp("5", "Charts"),
		),

		// Extract actions
		Extract: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Extract logs"),
		),
		Categorize: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Categorize logcat"),
		),
		Report: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Export PDF report"),
		),

		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/left", "Previous"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/right", "Next"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "Page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdown", "Page down"),
		),
		HalfPageUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "Half page up"),
		),
		HalfPageDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "Half page down"),
		),

		// Live actions
		ToggleMonitor: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Start/stop monitoring"),
		),
		ToggleFollow: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("Space", "Toggle follow mode"),
		),
		ClearLive: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "Clear live feed"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search"),
		),
		NextMatch: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "Next match"),
		),
		PrevMatch: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "Previous match"),
		),

		// Filter actions
		SaveFiltered: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "Save filtered logs"),
		),
		ResetFilter: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "Reset filters"),
		),

		// Chart actions
		ExportCSV: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "Export CSV"),
		),
		ExportXLSX: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "Export XLSX"),
		),
		ExportPNG: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "Export PNG"),
		),

		// Search/input
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ViewExtract, k.ViewLive, k.ViewCategories, k.ViewFilter, k.ViewCharts},
		{k.Up, k.Down, k.Left, k.Right, k.Top, k.Bottom},
		{k.HalfPageDown, k.HalfPageUp},
		{k.Extract, k.Categorize, k.Report},
		{k.ToggleMonitor, k.ToggleFollow, k.ClearLive, k.Search, k.NextMatch, k.PrevMatch},
		{k.Confirm, k.SaveFiltered, k.ResetFilter},
		{k.ExportCSV, k.ExportXLSX, k.ExportPNG},
		{k.CycleTheme, k.Help, k.Quit},
	}
}
