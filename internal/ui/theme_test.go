package ui

import "testing"

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	if len(names) != 3 || names[0] != "Nightfox" || names[2] != "Slate" {
		t.Fatalf("ThemeNames() = %v, want [Nightfox Gruvbox Slate]", names)
	}
}

func TestNextTheme(t *testing.T) {
	tests := map[string]string{
		"Nightfox": "Gruvbox",
		"Gruvbox":  "Slate",
		"Slate":    "Nightfox",
		"Unknown":  "Nightfox",
	}
	for in, want := range tests {
		if got := NextTheme(in); got != want {
			t.Fatalf("NextTheme(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGetThemeFallsBack(t *testing.T) {
	if got := GetTheme("Gruvbox").Name; got != "Gruvbox" {
		t.Fatalf("GetTheme(Gruvbox).Name = %q", got)
	}
	if got := GetTheme("Dracula").Name; got != "Nightfox" {
		t.Fatalf("GetTheme(Dracula).Name = %q, want Nightfox (fallback)", got)
	}
}

func TestColorLookups(t *testing.T) {
	th := GetTheme("Slate")
	if got := th.ColorFor("RED"); got != th.Danger {
		t.Fatalf("ColorFor(RED) = %q, want %q", got, th.Danger)
	}
	if got := th.ColorFor("magenta"); got != th.Violet {
		t.Fatalf("ColorFor(magenta) = %q, want %q", got, th.Violet)
	}
	if got := th.ColorFor("chartreuse"); got != th.Text {
		t.Fatalf("ColorFor(unknown) = %q, want text color", got)
	}
	if got := th.LevelColor('E'); got != th.Danger {
		t.Fatalf("LevelColor(E) = %q, want %q", got, th.Danger)
	}
	if got := th.LevelColor('W'); got != th.Warning {
		t.Fatalf("LevelColor(W) = %q, want %q", got, th.Warning)
	}
}
