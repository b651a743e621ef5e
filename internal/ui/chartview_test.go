package ui

import (
	"strings"
	"testing"

	"github.com/five82/droidtrace/internal/charts"
	"github.com/five82/droidtrace/internal/filter"
)

func TestBarRows(t *testing.T) {
	s := charts.Series{Points: []charts.Point{
		{Label: "A", Value: 10},
		{Label: "B", Value: 5},
		{Label: "C", Value: 0},
	}}

	rows := barRows(s, 30)
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}
	// 30 - label(1) - value(2) - 2 spaces = 25 cells
	if got := strings.Count(rows[0].bar, "█"); got != 25 {
		t.Fatalf("max bar = %d cells, want 25", got)
	}
	if got := strings.Count(rows[1].bar, "█"); got != 13 {
		t.Fatalf("half bar = %d cells, want 13", got)
	}
	if got := strings.Count(rows[2].bar, "█"); got != 0 {
		t.Fatalf("zero bar = %d cells, want 0", got)
	}
	if rows[0].value != "10" || rows[2].value != "0" {
		t.Fatalf("values = %q, %q", rows[0].value, rows[2].value)
	}
}

func TestBarRowsTinyValueGetsOneCell(t *testing.T) {
	s := charts.Series{Points: []charts.Point{
		{Label: "big", Value: 1000},
		{Label: "tiny", Value: 1},
	}}
	rows := barRows(s, 20)
	if got := strings.Count(rows[1].bar, "█"); got != 1 {
		t.Fatalf("tiny bar = %d cells, want 1", got)
	}
	if rows[0].label != "big " {
		t.Fatalf("label = %q, want padded to longest", rows[0].label)
	}
}

func TestStepRange(t *testing.T) {
	if got := stepRange(filter.AllTime, 1); got != filter.PastHour {
		t.Fatalf("stepRange(AllTime, 1) = %v, want %v", got, filter.PastHour)
	}
	if got := stepRange(filter.PastHour, -1); got != filter.AllTime {
		t.Fatalf("stepRange(PastHour, -1) = %v, want %v", got, filter.AllTime)
	}
	if got := stepRange(filter.PastDay, 1); got != filter.PastWeek {
		t.Fatalf("stepRange(PastDay, 1) = %v, want %v", got, filter.PastWeek)
	}
}

func TestNewChartStateSelectsKind(t *testing.T) {
	kinds := (&charts.Builder{}).Kinds()
	cs := newChartState(kinds, "sms logs", filter.PastDay)
	if got := cs.kind(); got != charts.SMSLogs {
		t.Fatalf("kind() = %q, want %q", got, charts.SMSLogs)
	}
	if got := newChartState(kinds, "Pie", filter.AllTime).kind(); got != charts.CallLogs {
		t.Fatalf("unknown kind = %q, want first (%q)", got, charts.CallLogs)
	}
}
