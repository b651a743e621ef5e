// Package prefs remembers TUI choices between sessions in
// ~/.config/droidtrace/prefs.toml.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"

	"github.com/five82/droidtrace/internal/config"
	"github.com/five82/droidtrace/internal/filter"
)

// Prefs holds the UI choices remembered between sessions.
type Prefs struct {
	Theme string `toml:"theme"`
	// Source is the dump the filter view reads: logcat, calls or sms.
	Source     string           `toml:"source"`
	Filter     filter.Criteria  `toml:"filter"`
	ChartKind  string           `toml:"chart_kind"`
	ChartRange filter.TimeRange `toml:"chart_range"`
}

const (
	defaultPrefsPath = "~/.config/droidtrace/prefs.toml"
	defaultTheme     = "Nightfox"
	defaultSource    = "logcat"
	defaultChartKind = "Call Logs"
)

// Default returns the preferences used on first run.
func Default() Prefs {
	return Prefs{Theme: defaultTheme, Source: defaultSource, ChartKind: defaultChartKind}
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from path. A missing, unreadable or malformed file
// yields defaults; preferences never block startup.
func Load(path string) Prefs {
	resolved, err := resolvePath(path)
	if err != nil {
		return Default()
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return Default()
	}

	p := Default()
	if err := toml.Unmarshal(data, &p); err != nil {
		log.Debug().Err(err).Str("path", resolved).Msg("ignoring unreadable prefs")
		return Default()
	}
	p.Theme = orDefault(p.Theme, defaultTheme)
	p.Source = orDefault(p.Source, defaultSource)
	p.ChartKind = orDefault(p.ChartKind, defaultChartKind)
	return p
}

// Save writes p to path, creating directories as needed. The file is
// replaced in one rename so a crash never leaves it half written.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".prefs-*.toml")
	if err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Rename(tmp.Name(), resolved); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultPrefsPath
	}
	return config.ExpandPath(path)
}

func orDefault(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}
