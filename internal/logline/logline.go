// Package logline parses raw log lines and extracts their timestamps.
package logline

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	isoPattern    = regexp.MustCompile(`\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}`)
	epochPattern  = regexp.MustCompile(`date=(\d+)`)
	logcatPattern = regexp.MustCompile(`(\d{2}-\d{2} \d{2}:\d{2}:\d{2})`)
	priorityRe    = regexp.MustCompile(`(?:^|\s)([VDIWEFA])/`)
)

const layout = "2006-01-02 15:04:05"

// Line is a single raw log line plus its parsed timestamp, if any.
type Line struct {
	Raw     string
	Time    time.Time
	HasTime bool
}

// Parse extracts a timestamp from raw. The first format present in the line
// decides the strategy; if that strategy fails to parse, the line has no
// timestamp. Logcat timestamps carry no year: the current year is assumed and
// stepped back one year when that would land in the future.
func Parse(raw string, now time.Time) Line {
	l := Line{Raw: raw}
	l.Time, l.HasTime = Timestamp(raw, now)
	return l
}

// Timestamp returns the timestamp for raw, see Parse.
func Timestamp(raw string, now time.Time) (time.Time, bool) {
	loc := now.Location()

	if m := isoPattern.FindString(raw); m != "" {
		ts, err := time.ParseInLocation(layout, m, loc)
		if err != nil {
			return time.Time{}, false
		}
		return ts, true
	}

	if m := epochPattern.FindStringSubmatch(raw); m != nil {
		ms, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return time.Time{}, false
		}
		return time.UnixMilli(ms).In(loc), true
	}

	if m := logcatPattern.FindStringSubmatch(raw); m != nil {
		ts, err := time.ParseInLocation(layout, strconv.Itoa(now.Year())+"-"+m[1], loc)
		if err != nil {
			return time.Time{}, false
		}
		if ts.After(now) {
			prev := ts.AddDate(-1, 0, 0)
			if prev.Day() != ts.Day() {
				// Feb 29 has no counterpart in the previous year.
				return time.Time{}, false
			}
			ts = prev
		}
		return ts, true
	}

	return time.Time{}, false
}

// Decode converts b to a string, replacing invalid UTF-8 with U+FFFD.
func Decode(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}

// TrimEOL removes a trailing "\n" or "\r\n".
func TrimEOL(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}

// Priority returns the logcat priority letter (V, D, I, W, E, F or A) of a
// "-v time" line, or 0 when there is none.
func Priority(raw string) byte {
	m := priorityRe.FindStringSubmatch(raw)
	if m == nil {
		return 0
	}
	return m[1][0]
}
