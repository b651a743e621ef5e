package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/five82/droidtrace/internal/patterns"
)

// TimeRange bounds how old a timestamped line may be.
type TimeRange int

const (
	AllTime TimeRange = iota
	PastHour
	PastDay
	PastWeek
)

var rangeLabels = map[TimeRange]string{
	AllTime:  "All Time",
	PastHour: "Past 1 Hour",
	PastDay:  "Past 24 Hours",
	PastWeek: "Past 7 Days",
}

// TimeRanges lists every range in display order.
func TimeRanges() []TimeRange {
	return []TimeRange{PastHour, PastDay, PastWeek, AllTime}
}

func (r TimeRange) String() string {
	if label, ok := rangeLabels[r]; ok {
		return label
	}
	return fmt.Sprintf("TimeRange(%d)", int(r))
}

// Window returns the maximum age allowed; zero means unbounded.
func (r TimeRange) Window() time.Duration {
	switch r {
	case PastHour:
		return time.Hour
	case PastDay:
		return 24 * time.Hour
	case PastWeek:
		return 7 * 24 * time.Hour
	default:
		return 0
	}
}

// ParseTimeRange accepts display labels and short forms (1h, 24h, 7d, all).
func ParseTimeRange(s string) (TimeRange, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all", "all time":
		return AllTime, nil
	case "1h", "hour", "past 1 hour":
		return PastHour, nil
	case "24h", "1d", "day", "past 24 hours":
		return PastDay, nil
	case "7d", "week", "past 7 days":
		return PastWeek, nil
	}
	return AllTime, fmt.Errorf("unknown time range %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (r TimeRange) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *TimeRange) UnmarshalText(b []byte) error {
	parsed, err := ParseTimeRange(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Criteria is a conjunction of optional constraints. Zero values impose no
// constraint; Severity and Subtype also accept patterns.All.
type Criteria struct {
	Keyword  string    `toml:"keyword"`
	Range    TimeRange `toml:"range"`
	Severity string    `toml:"severity"`
	Subtype  string    `toml:"subtype"`
}

// IsEmpty reports whether the criteria pass every line.
func (c Criteria) IsEmpty() bool {
	return strings.TrimSpace(c.Keyword) == "" &&
		c.Range == AllTime &&
		patterns.IsAll(c.Severity) &&
		patterns.IsAll(c.Subtype)
}

// Describe renders a short human summary, e.g. for the status line.
func (c Criteria) Describe() string {
	var parts []string
	if kw := strings.TrimSpace(c.Keyword); kw != "" {
		parts = append(parts, fmt.Sprintf("keyword=%q", kw))
	}
	if c.Range != AllTime {
		parts = append(parts, c.Range.String())
	}
	if !patterns.IsAll(c.Severity) {
		parts = append(parts, "severity="+c.Severity)
	}
	if !patterns.IsAll(c.Subtype) {
		parts = append(parts, "subtype="+c.Subtype)
	}
	if len(parts) == 0 {
		return "no filters"
	}
	return strings.Join(parts, ", ")
}
