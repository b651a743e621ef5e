// Package config loads droidtrace's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/droidtrace/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// Command-line flags and DROIDTRACE_* environment variables are applied on
// top of the loaded file through Config.Set, keyed by the same dotted names
// the file uses (see Keys).
//
// # Default Values
//
//   - Config file: ~/.config/droidtrace/config.toml
//   - Evidence directory: ./logs
//   - adb binary: adb (resolved on PATH)
//   - Logcat extraction window: 24h
//   - Device poll interval: 5s
//   - Live feed: 100ms UI poll, 4096 queued lines, 1000 displayed lines, 10ms read pause
//   - Diagnostic log: ~/.local/state/droidtrace/droidtrace.log at level info
//
// # TOML Format
//
//	logs_dir = "~/cases/0042/logs"
//	adb_path = "/opt/platform-tools/adb"
//	serial = "emulator-5554"
//	logcat_window = "24h"
//	device_poll = "5s"
//
//	[live]
//	poll_interval = "100ms"
//	queue_capacity = 4096
//	backlog_lines = 1000
//	read_pause = "10ms"   # "0s" disables the pause
//
//	[report]
//	case_number = "CASE-0042"
//	examiner = "J. Doe"
//
//	[log]
//	level = "info"
//	file = "~/.local/state/droidtrace/droidtrace.log"
//
// Every field is optional. Tilde expansion is performed for logs_dir and
// log.file.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors and malformed durations or counts
//
// Missing config files are NOT an error.
package config
