package ui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/droidtrace/internal/prefs"
)

func newTestModel(t *testing.T) (Model, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prefs.toml")
	m := New(Options{PrefsPath: path})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model), path
}

func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "shift+tab":
			msg = tea.KeyMsg{Type: tea.KeyShiftTab}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

func TestViewSwitching(t *testing.T) {
	m, _ := newTestModel(t)

	steps := []struct {
		key  string
		want View
	}{
		{"2", ViewLive},
		{"tab", ViewCategories},
		{"shift+tab", ViewLive},
		{"5", ViewCharts},
		{"tab", ViewExtract},
		{"shift+tab", ViewCharts},
		{"4", ViewFilter},
	}
	for _, s := range steps {
		m, _ = press(t, m, s.key)
		if m.currentView != s.want {
			t.Fatalf("after %q currentView = %v, want %v", s.key, m.currentView, s.want)
		}
	}
}

func TestQuitKey(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := press(t, m, "q")
	if cmd == nil {
		t.Fatalf("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("q did not quit")
	}
}

func TestHelpOverlay(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = press(t, m, "?")
	if !m.showHelp {
		t.Fatalf("? did not open help")
	}
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatalf("help view missing title")
	}
	m, _ = press(t, m, "x")
	if m.showHelp {
		t.Fatalf("any key should close help")
	}
}

func TestThemeCycleSavesPrefs(t *testing.T) {
	m, path := newTestModel(t)
	m, _ = press(t, m, "T")
	if m.theme.Name != "Gruvbox" {
		t.Fatalf("theme = %q, want Gruvbox", m.theme.Name)
	}
	if got := prefs.Load(path).Theme; got != "Gruvbox" {
		t.Fatalf("saved theme = %q, want Gruvbox", got)
	}
}

func TestFilterKeywordCapturesKeys(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = press(t, m, "4", "down", "down", "down", "down")
	if !m.filt.editingKeyword() {
		t.Fatalf("focus = %v, want keyword", m.filt.focus)
	}

	m, _ = press(t, m, "q", "2")
	if m.currentView != ViewFilter {
		t.Fatalf("typing switched view to %v", m.currentView)
	}
	if got := m.filt.keyword.Value(); got != "q2" {
		t.Fatalf("keyword = %q, want q2", got)
	}

	m, _ = press(t, m, "esc")
	if m.filt.editingKeyword() {
		t.Fatalf("esc should leave the keyword field")
	}
}

func TestViewRendersChrome(t *testing.T) {
	m, _ := newTestModel(t)
	out := m.View()
	for _, want := range []string{"droidtrace", "Case Overview", "Extract"} {
		if !strings.Contains(out, want) {
			t.Fatalf("View() missing %q", want)
		}
	}
	if got := strings.Count(out, "\n") + 1; got > 40 {
		t.Fatalf("View() has %d lines, want at most the window height", got)
	}
}

func TestRenderBoxHeight(t *testing.T) {
	m, _ := newTestModel(t)
	out := m.renderBox("T", "a\nb\nc\nd", 20, 4, true)
	if got := strings.Count(out, "\n") + 1; got != 4 {
		t.Fatalf("renderBox lines = %d, want 4", got)
	}
}

func TestLoadingBeforeWindowSize(t *testing.T) {
	m := New(Options{PrefsPath: filepath.Join(t.TempDir(), "prefs.toml")})
	if got := m.View(); got != "Loading..." {
		t.Fatalf("View() = %q, want Loading...", got)
	}
}
