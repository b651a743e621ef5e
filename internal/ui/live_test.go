package ui

import (
	"path/filepath"
	"testing"

	"github.com/five82/droidtrace/internal/live"
)

func TestLiveApplyDispatchesByKind(t *testing.T) {
	ls := newLiveState(10)

	if _, ok := ls.apply(live.Message{Kind: live.Update, Text: "06-14 12:00:00.000 I/Zygote( 1): hello"}); ok {
		t.Fatalf("apply(Update) returned a notice")
	}
	if got := ls.backlog.Len(); got != 1 {
		t.Fatalf("backlog.Len() = %d, want 1", got)
	}

	ls.apply(live.Message{Kind: live.Categorize, Bucket: "Network", Text: "wifi"})
	ls.apply(live.Message{Kind: live.Categorize, Bucket: "Network", Text: "wifi"})
	if got := ls.counts["Network"]; got != 2 {
		t.Fatalf("counts[Network] = %d, want 2", got)
	}
	if got := ls.backlog.Len(); got != 1 {
		t.Fatalf("categorize messages must not reach the backlog, Len() = %d", got)
	}

	n, ok := ls.apply(live.Message{Kind: live.Error, Text: "error processing line: boom"})
	if !ok || !n.Failed() {
		t.Fatalf("apply(Error) = %+v, %v; want failed notice", n, ok)
	}

	n, ok = ls.apply(live.Message{Kind: live.Status, Text: "Live monitoring started"})
	if !ok || n.Failed() || n.Text != "Live monitoring started" {
		t.Fatalf("apply(Status) = %+v, %v", n, ok)
	}
}

func TestLiveBacklogBoundedByOption(t *testing.T) {
	ls := newLiveState(3)
	for _, line := range []string{"a", "b", "c", "d", "e"} {
		ls.apply(live.Message{Kind: live.Update, Text: line})
	}
	got := ls.backlog.Lines()
	if len(got) != 3 || got[0] != "c" || got[2] != "e" {
		t.Fatalf("backlog = %v, want [c d e]", got)
	}
}

func TestLiveSearch(t *testing.T) {
	ls := newLiveState(0)
	ls.backlog.Append("I/WifiService: connected", "E/AndroidRuntime: FATAL", "D/wifi: scan")

	if err := ls.setSearch("wifi"); err != nil {
		t.Fatalf("setSearch: %v", err)
	}
	if len(ls.searchMatches) != 2 || ls.searchMatches[0] != 0 || ls.searchMatches[1] != 2 {
		t.Fatalf("searchMatches = %v, want [0 2]", ls.searchMatches)
	}

	ls.stepMatch(1)
	if ls.searchMatchIdx != 1 {
		t.Fatalf("after next, idx = %d, want 1", ls.searchMatchIdx)
	}
	ls.stepMatch(1)
	if ls.searchMatchIdx != 0 {
		t.Fatalf("next should wrap, idx = %d, want 0", ls.searchMatchIdx)
	}
	ls.stepMatch(-1)
	if ls.searchMatchIdx != 1 {
		t.Fatalf("prev should wrap, idx = %d, want 1", ls.searchMatchIdx)
	}

	ls.clearSearch()
	if ls.searchRegex != nil || ls.searchMatches != nil {
		t.Fatalf("clearSearch left state behind")
	}

	if err := ls.setSearch("("); err == nil {
		t.Fatalf("setSearch with invalid regex returned nil error")
	}
}

func TestLiveSearchFollowsNewLines(t *testing.T) {
	m := New(Options{PrefsPath: filepath.Join(t.TempDir(), "prefs.toml")})
	m.live.backlog.Append("wifi up", "bt on")
	if err := m.live.setSearch("wifi"); err != nil {
		t.Fatalf("setSearch: %v", err)
	}

	m.live.backlog.Append("wifi down")
	m.updateLiveViewport()

	if got := len(m.live.searchMatches); got != 2 {
		t.Fatalf("matches after append = %d, want 2", got)
	}
}

func TestFormatTallies(t *testing.T) {
	counts := map[string]int{"Crash": 3, "Network": 10, "GC": 0, "Device": 3}
	if got := formatTallies(counts, 2); got != "Network 10 · Crash 3" {
		t.Fatalf("formatTallies = %q", got)
	}
	if got := formatTallies(nil, 4); got != "" {
		t.Fatalf("formatTallies(nil) = %q, want empty", got)
	}
}
