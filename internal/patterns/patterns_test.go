package patterns

import (
	"errors"
	"testing"
)

func TestLogTypesFirstMatchWins(t *testing.T) {
	tests := []struct {
		line string
		want string
		ok   bool
	}{
		{"I/ActivityManager: Start proc com.example", "Application", true},
		{"E/AndroidRuntime: FATAL EXCEPTION: main", "Crash", true},
		{"D/dalvikvm: GC_CONCURRENT freed 2048K", "GC", true},
		{"I/WifiManager: connected", "Network", true},
		{"D/BatteryManager: level=80", "Device", true},
		// Matches Application and Service; Application is registered first.
		{"I/ActivityManager: Start Service com.example/.Sync", "Application", true},
		{"hello world", "", false},
	}
	for _, tt := range tests {
		rule, ok := LogTypes.First(tt.line)
		if ok != tt.ok || rule.Name != tt.want {
			t.Fatalf("First(%q) = %q,%v, want %q,%v", tt.line, rule.Name, ok, tt.want, tt.ok)
		}
	}
}

func TestRegistryOrderAndLookup(t *testing.T) {
	names := LogTypes.Names()
	want := []string{"Application", "System", "Crash", "GC", "Network", "Broadcast", "Service", "Device"}
	if len(names) != len(want) {
		t.Fatalf("Names() len = %d, want %d", len(names), len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("Names()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
	if _, ok := Severities.Lookup("error"); !ok {
		t.Fatalf("Lookup(error) should ignore case")
	}
	if len(Subtypes.Names()) != 32 {
		t.Fatalf("Subtypes has %d rules, want 32", len(Subtypes.Names()))
	}
}

func TestUnknownMatcherNeverMatches(t *testing.T) {
	m := Severities.Matcher("Critical")
	if m.Match("E/Critical FATAL ERROR") {
		t.Fatalf("unknown matcher matched")
	}
}

func TestMatchIsCaseInsensitive(t *testing.T) {
	if !Subtypes.Matcher("WiFi").Match("WLAN0 up") {
		t.Fatalf("WiFi subtype should match WLAN0 case-insensitively")
	}
}

func TestValidate(t *testing.T) {
	if err := Severities.Validate("All"); err != nil {
		t.Fatalf("Validate(All) = %v", err)
	}
	if err := Severities.Validate(""); err != nil {
		t.Fatalf("Validate(\"\") = %v", err)
	}
	if err := Subtypes.Validate("art gc"); err != nil {
		t.Fatalf("Validate(art gc) = %v", err)
	}
	err := Severities.Validate("Critical")
	if !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("Validate(Critical) = %v, want ErrUnknownCategory", err)
	}
}

func TestNewPanicsOnDuplicate(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on duplicate name")
		}
	}()
	New("dup", []Def{{Name: "A", Pattern: "a"}, {Name: "a", Pattern: "b"}})
}
