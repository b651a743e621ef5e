package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures droidtrace's runtime settings.
type Config struct {
	LogsDir      string
	ADBPath      string
	Serial       string
	LogcatWindow time.Duration
	DevicePoll   time.Duration
	Live         LiveConfig
	Report       ReportConfig
	Log          LogConfig
}

// LiveConfig tunes the live feed relay and its display.
type LiveConfig struct {
	PollInterval  time.Duration
	QueueCapacity int
	BacklogLines  int
	ReadPause     time.Duration
}

// ReportConfig seeds the forensic report header.
type ReportConfig struct {
	CaseNumber string
	Examiner   string
}

// LogConfig controls droidtrace's own diagnostic log.
type LogConfig struct {
	Level string
	File  string
}

const (
	defaultConfigPath    = "~/.config/droidtrace/config.toml"
	defaultLogsDir       = "logs"
	defaultADBPath       = "adb"
	defaultLogcatWindow  = 24 * time.Hour
	defaultDevicePoll    = 5 * time.Second
	defaultPollInterval  = 100 * time.Millisecond
	defaultQueueCapacity = 4096
	defaultBacklogLines  = 1000
	defaultReadPause     = 10 * time.Millisecond
	defaultLogLevel      = "info"
	defaultLogFile       = "~/.local/state/droidtrace/droidtrace.log"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		LogsDir:      mustExpand(defaultLogsDir),
		ADBPath:      defaultADBPath,
		LogcatWindow: defaultLogcatWindow,
		DevicePoll:   defaultDevicePoll,
		Live: LiveConfig{
			PollInterval:  defaultPollInterval,
			QueueCapacity: defaultQueueCapacity,
			BacklogLines:  defaultBacklogLines,
			ReadPause:     defaultReadPause,
		},
		Log: LogConfig{
			Level: defaultLogLevel,
			File:  mustExpand(defaultLogFile),
		},
	}
}

type rawConfig struct {
	LogsDir      string `toml:"logs_dir"`
	ADBPath      string `toml:"adb_path"`
	Serial       string `toml:"serial"`
	LogcatWindow string `toml:"logcat_window"`
	DevicePoll   string `toml:"device_poll"`
	Live         struct {
		PollInterval  string `toml:"poll_interval"`
		QueueCapacity int    `toml:"queue_capacity"`
		BacklogLines  int    `toml:"backlog_lines"`
		ReadPause     string `toml:"read_pause"`
	} `toml:"live"`
	Report struct {
		CaseNumber string `toml:"case_number"`
		Examiner   string `toml:"examiner"`
	} `toml:"report"`
	Log struct {
		Level string `toml:"level"`
		File  string `toml:"file"`
	} `toml:"log"`
}

// Load locates and parses the config file, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	fields := map[string]string{
		"logs_dir":           raw.LogsDir,
		"adb_path":           raw.ADBPath,
		"serial":             raw.Serial,
		"logcat_window":      raw.LogcatWindow,
		"device_poll":        raw.DevicePoll,
		"live.poll_interval": raw.Live.PollInterval,
		"live.read_pause":    raw.Live.ReadPause,
		"report.case_number": raw.Report.CaseNumber,
		"report.examiner":    raw.Report.Examiner,
		"log.level":          raw.Log.Level,
		"log.file":           raw.Log.File,
	}
	if raw.Live.QueueCapacity != 0 {
		fields["live.queue_capacity"] = strconv.Itoa(raw.Live.QueueCapacity)
	}
	if raw.Live.BacklogLines != 0 {
		fields["live.backlog_lines"] = strconv.Itoa(raw.Live.BacklogLines)
	}
	for _, key := range Keys() {
		value, ok := fields[key]
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		if err := cfg.Set(key, value); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}
	return cfg, nil
}

// Keys lists the dotted setting names accepted by Set, in file order.
func Keys() []string {
	return []string{
		"logs_dir",
		"adb_path",
		"serial",
		"logcat_window",
		"device_poll",
		"live.poll_interval",
		"live.queue_capacity",
		"live.backlog_lines",
		"live.read_pause",
		"report.case_number",
		"report.examiner",
		"log.level",
		"log.file",
	}
}

// Set applies a single override by dotted key. Blank values restore the
// default for that key.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	def := Default()
	switch key {
	case "logs_dir":
		if value == "" {
			c.LogsDir = def.LogsDir
			return nil
		}
		c.LogsDir = mustExpand(value)
	case "adb_path":
		c.ADBPath = orDefault(value, def.ADBPath)
	case "serial":
		c.Serial = value
	case "logcat_window":
		return setDuration(&c.LogcatWindow, key, value, def.LogcatWindow)
	case "device_poll":
		return setDuration(&c.DevicePoll, key, value, def.DevicePoll)
	case "live.poll_interval":
		return setDuration(&c.Live.PollInterval, key, value, def.Live.PollInterval)
	case "live.read_pause":
		if value == "" {
			c.Live.ReadPause = def.Live.ReadPause
			return nil
		}
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		// Zero is meaningful here: read without pausing.
		if d == 0 {
			d = -1
		}
		c.Live.ReadPause = d
	case "live.queue_capacity":
		return setPositive(&c.Live.QueueCapacity, key, value, def.Live.QueueCapacity)
	case "live.backlog_lines":
		return setPositive(&c.Live.BacklogLines, key, value, def.Live.BacklogLines)
	case "report.case_number":
		c.Report.CaseNumber = value
	case "report.examiner":
		c.Report.Examiner = value
	case "log.level":
		c.Log.Level = strings.ToLower(orDefault(value, def.Log.Level))
	case "log.file":
		if value == "" {
			c.Log.File = def.Log.File
			return nil
		}
		c.Log.File = mustExpand(value)
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}

func setDuration(dst *time.Duration, key, value string, def time.Duration) error {
	if value == "" {
		*dst = def
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return fmt.Errorf("%s: must be positive, got %s", key, value)
	}
	*dst = d
	return nil
}

func setPositive(dst *int, key, value string, def int) error {
	if value == "" {
		*dst = def
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if n <= 0 {
		return fmt.Errorf("%s: must be positive, got %d", key, n)
	}
	*dst = n
	return nil
}

func orDefault(value, def string) string {
	if value == "" {
		return def
	}
	return value
}

// DefaultPath returns the config path used when none is given.
func DefaultPath() string {
	return mustExpand(defaultConfigPath)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return ExpandPath(defaultConfigPath)
	}
	return ExpandPath(path)
}

func mustExpand(path string) string {
	expanded, err := ExpandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading "~" and returns an absolute path.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
