package charts

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/five82/droidtrace/internal/evidence"
	"github.com/five82/droidtrace/internal/filter"
	"github.com/five82/droidtrace/internal/logline"
	"github.com/five82/droidtrace/internal/patterns"
	"github.com/five82/droidtrace/internal/report"
)

// Built-in chart kinds. Every log type name is also a kind.
const (
	CallLogs        = "Call Logs"
	SMSLogs         = "SMS Logs"
	TopSMSSenders   = "Top SMS Senders"
	FrequentCallers = "Frequent Callers"
	LogcatActivity  = "Logcat Activity"
)

// ErrUnknownKind is returned for chart kinds that are not offered.
var ErrUnknownKind = errors.New("unknown chart kind")

// ErrNoData is returned when a series has nothing to draw.
var ErrNoData = errors.New("no data to chart")

// Point is one bar.
type Point struct {
	Label string
	Value float64
}

// Series is chart data independent of rendering.
type Series struct {
	Title  string
	XLabel string
	YLabel string
	Points []Point
}

// Empty reports whether every point is zero.
func (s Series) Empty() bool {
	for _, p := range s.Points {
		if p.Value != 0 {
			return false
		}
	}
	return true
}

// Builder computes series from the evidence store.
type Builder struct {
	Store  *evidence.Store
	Engine *filter.Engine
	Types  *patterns.Registry
	Now    func() time.Time
}

// Kinds lists the chart kinds in menu order.
func (b *Builder) Kinds() []string {
	kinds := []string{CallLogs, SMSLogs, TopSMSSenders, FrequentCallers, LogcatActivity}
	return append(kinds, b.types().Names()...)
}

func (b *Builder) types() *patterns.Registry {
	if b.Types == nil {
		return patterns.LogTypes
	}
	return b.Types
}

func (b *Builder) now() time.Time {
	if b.Now == nil {
		return time.Now()
	}
	return b.Now()
}

// lines reads path and keeps the lines inside r. Placeholder dumps read as
// empty.
func (b *Builder) lines(path string, r filter.TimeRange) ([]string, error) {
	lines, err := evidence.ReadLines(path)
	if err != nil {
		return nil, err
	}
	if report.IsPlaceholder(lines) {
		return nil, nil
	}
	return b.Engine.Lines(lines, filter.Criteria{Range: r}), nil
}

// Build computes the series for kind over r.
func (b *Builder) Build(kind string, r filter.TimeRange) (Series, error) {
	title := fmt.Sprintf("%s (%s)", kind, r)
	switch kind {
	case CallLogs:
		lines, err := b.lines(b.Store.Calls(), r)
		if err != nil {
			return Series{}, err
		}
		s := report.SummarizeCalls(lines)
		return Series{Title: title, XLabel: "Call type", YLabel: "Calls", Points: []Point{
			{"Incoming", float64(s.Incoming)},
			{"Outgoing", float64(s.Outgoing)},
			{"Missed", float64(s.Missed)},
		}}, nil

	case SMSLogs:
		lines, err := b.lines(b.Store.SMS(), r)
		if err != nil {
			return Series{}, err
		}
		s := report.SummarizeSMS(lines)
		return Series{Title: title, XLabel: "Direction", YLabel: "Messages", Points: []Point{
			{"Incoming", float64(s.Incoming)},
			{"Outgoing", float64(s.Outgoing)},
		}}, nil

	case TopSMSSenders:
		lines, err := b.lines(b.Store.SMS(), r)
		if err != nil {
			return Series{}, err
		}
		return Series{Title: title, XLabel: "Sender", YLabel: "Messages",
			Points: countsToPoints(report.TopN(report.SMSSenders(lines), 10))}, nil

	case FrequentCallers:
		lines, err := b.lines(b.Store.Calls(), r)
		if err != nil {
			return Series{}, err
		}
		return Series{Title: title, XLabel: "Number", YLabel: "Calls",
			Points: countsToPoints(report.TopN(report.CallNumbers(lines), 10))}, nil

	case LogcatActivity:
		lines, err := b.lines(b.Store.Logcat(), r)
		if err != nil {
			return Series{}, err
		}
		return Series{Title: title, XLabel: "Hour", YLabel: "Entries", Points: b.perHour(lines)}, nil
	}

	if rule, ok := b.types().Lookup(kind); ok {
		lines, err := b.lines(b.Store.CategoryFile(rule.Name), r)
		if err != nil {
			return Series{}, err
		}
		return Series{Title: fmt.Sprintf("%s Activity (%s)", rule.Name, r), XLabel: "Hour", YLabel: "Entries",
			Points: b.perHour(lines)}, nil
	}
	return Series{}, fmt.Errorf("%w: %q (valid: %s)", ErrUnknownKind, kind, strings.Join(b.Kinds(), ", "))
}

func countsToPoints(counts []report.Count) []Point {
	points := make([]Point, len(counts))
	for i, c := range counts {
		points[i] = Point{Label: c.Value, Value: float64(c.Count)}
	}
	return points
}

// perHour buckets timestamped lines by hour, oldest first. Lines without a
// timestamp are not counted.
func (b *Builder) perHour(lines []string) []Point {
	now := b.now()
	counts := make(map[time.Time]int)
	for _, line := range lines {
		ts, ok := logline.Timestamp(line, now)
		if !ok {
			continue
		}
		counts[ts.Truncate(time.Hour)]++
	}
	hours := make([]time.Time, 0, len(counts))
	for h := range counts {
		hours = append(hours, h)
	}
	sort.Slice(hours, func(i, j int) bool { return hours[i].Before(hours[j]) })

	points := make([]Point, len(hours))
	for i, h := range hours {
		points[i] = Point{Label: h.Format("01-02 15:00"), Value: float64(counts[h])}
	}
	return points
}
