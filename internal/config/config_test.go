package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ADBPath != defaultADBPath {
		t.Fatalf("ADBPath = %q, want %q", cfg.ADBPath, defaultADBPath)
	}
	wantLogsDir, err := ExpandPath(defaultLogsDir)
	if err != nil {
		t.Fatalf("ExpandPath(defaultLogsDir) returned error: %v", err)
	}
	if cfg.LogsDir != wantLogsDir {
		t.Fatalf("LogsDir = %q, want %q", cfg.LogsDir, wantLogsDir)
	}
	if cfg.LogcatWindow != 24*time.Hour {
		t.Fatalf("LogcatWindow = %s, want 24h", cfg.LogcatWindow)
	}
	if cfg.Live.QueueCapacity != defaultQueueCapacity || cfg.Live.BacklogLines != defaultBacklogLines {
		t.Fatalf("Live = %+v, want default capacity and backlog", cfg.Live)
	}
	if !strings.HasPrefix(cfg.Log.File, home) {
		t.Fatalf("Log.File = %q, want it under HOME %q", cfg.Log.File, home)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
logs_dir = "  ~/cases/0042/logs  "
adb_path = " /opt/platform-tools/adb "
serial = " emulator-5554 "
logcat_window = "6h"
device_poll = "2s"

[live]
poll_interval = "50ms"
queue_capacity = 128
backlog_lines = 200
read_pause = "0s"

[report]
case_number = " CASE-0042 "
examiner = " J. Doe "

[log]
level = "DEBUG"
file = "~/droidtrace.log"
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LogsDir != filepath.Join(home, "cases/0042/logs") {
		t.Fatalf("LogsDir = %q, want it under HOME %q", cfg.LogsDir, home)
	}
	if cfg.ADBPath != "/opt/platform-tools/adb" || cfg.Serial != "emulator-5554" {
		t.Fatalf("ADBPath/Serial = %q/%q", cfg.ADBPath, cfg.Serial)
	}
	if cfg.LogcatWindow != 6*time.Hour || cfg.DevicePoll != 2*time.Second {
		t.Fatalf("LogcatWindow/DevicePoll = %s/%s", cfg.LogcatWindow, cfg.DevicePoll)
	}
	if cfg.Live.PollInterval != 50*time.Millisecond || cfg.Live.QueueCapacity != 128 || cfg.Live.BacklogLines != 200 {
		t.Fatalf("Live = %+v", cfg.Live)
	}
	if cfg.Live.ReadPause >= 0 {
		t.Fatalf("Live.ReadPause = %s, want negative (no pause)", cfg.Live.ReadPause)
	}
	if cfg.Report.CaseNumber != "CASE-0042" || cfg.Report.Examiner != "J. Doe" {
		t.Fatalf("Report = %+v", cfg.Report)
	}
	if cfg.Log.Level != "debug" || cfg.Log.File != filepath.Join(home, "droidtrace.log") {
		t.Fatalf("Log = %+v", cfg.Log)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
logs_dir = "   "
adb_path = ""
logcat_window = ""
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ADBPath != defaultADBPath {
		t.Fatalf("ADBPath = %q, want %q", cfg.ADBPath, defaultADBPath)
	}
	wantLogsDir, err := ExpandPath(defaultLogsDir)
	if err != nil {
		t.Fatalf("ExpandPath(defaultLogsDir) returned error: %v", err)
	}
	if cfg.LogsDir != wantLogsDir {
		t.Fatalf("LogsDir = %q, want %q", cfg.LogsDir, wantLogsDir)
	}
	if cfg.LogcatWindow != defaultLogcatWindow {
		t.Fatalf("LogcatWindow = %s, want %s", cfg.LogcatWindow, defaultLogcatWindow)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`logs_dir = [`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestLoad_InvalidDurationFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`device_poll = "soon"`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "device_poll") {
		t.Fatalf("Load error = %v, want it to name device_poll", err)
	}
}

func TestSet(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr bool
		check   func(Config) bool
	}{
		{"serial", "R58M123", false, func(c Config) bool { return c.Serial == "R58M123" }},
		{"logcat_window", "1h", false, func(c Config) bool { return c.LogcatWindow == time.Hour }},
		{"logcat_window", "-1h", true, nil},
		{"live.queue_capacity", "0", true, nil},
		{"live.queue_capacity", "64", false, func(c Config) bool { return c.Live.QueueCapacity == 64 }},
		{"live.backlog_lines", "many", true, nil},
		{"log.level", "WARN", false, func(c Config) bool { return c.Log.Level == "warn" }},
		{"adb_path", "", false, func(c Config) bool { return c.ADBPath == defaultADBPath }},
		{"colour", "red", true, nil},
	}
	for _, tt := range tests {
		cfg := Default()
		err := cfg.Set(tt.key, tt.value)
		if (err != nil) != tt.wantErr {
			t.Fatalf("Set(%q, %q) error = %v, wantErr %v", tt.key, tt.value, err, tt.wantErr)
		}
		if tt.check != nil && !tt.check(cfg) {
			t.Fatalf("Set(%q, %q) produced %+v", tt.key, tt.value, cfg)
		}
	}
}

func TestKeysAreAllSettable(t *testing.T) {
	for _, key := range Keys() {
		cfg := Default()
		if err := cfg.Set(key, ""); err != nil {
			t.Fatalf("Set(%q, \"\") error = %v", key, err)
		}
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandPath("~/a/b")
	if err != nil {
		t.Fatalf("ExpandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("ExpandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := ExpandPath("   "); err == nil {
		t.Fatalf("ExpandPath returned nil error, want error")
	}
}
