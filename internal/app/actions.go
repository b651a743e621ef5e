package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/five82/droidtrace/internal/categorize"
	"github.com/five82/droidtrace/internal/charts"
	"github.com/five82/droidtrace/internal/evidence"
	"github.com/five82/droidtrace/internal/filter"
)

// Filter sources, as accepted by SourcePath.
const (
	SourceLogcat = "logcat"
	SourceCalls  = "calls"
	SourceSMS    = "sms"
)

// Sources lists the dumps the filter can read.
func Sources() []string {
	return []string{SourceLogcat, SourceCalls, SourceSMS}
}

// Notice is the operator-facing outcome of an action. Actions never return
// bare errors to the UI; Err is kept for callers that need an exit status.
type Notice struct {
	Text string
	Err  error
}

// Failed reports whether the action did not complete.
func (n Notice) Failed() bool { return n.Err != nil }

func failure(prefix string, err error) Notice {
	return Notice{Text: fmt.Sprintf("❌ %s: %v", prefix, err), Err: err}
}

// SourcePath maps a source name to its dump.
func (a *App) SourcePath(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case SourceLogcat, "":
		return a.Evidence.Logcat(), nil
	case SourceCalls, "call", "call_logs":
		return a.Evidence.Calls(), nil
	case SourceSMS, "sms_logs":
		return a.Evidence.SMS(), nil
	}
	return "", fmt.Errorf("unknown source %q (valid: %s)", name, strings.Join(Sources(), ", "))
}

// Extract pulls every dump from the device and re-categorizes the new logcat.
func (a *App) Extract(ctx context.Context) Notice {
	log.Info().Str("dir", a.Evidence.Dir()).Msg("extraction started")
	res := a.Extractor.ExtractAll(ctx)
	a.State.SetExtraction(res, a.now())

	var lines []string
	for _, o := range res.Outcomes() {
		switch {
		case o.Err != nil:
			lines = append(lines, fmt.Sprintf("❌ %s: %v", o.Name, o.Err))
		case o.Placeholder:
			lines = append(lines, fmt.Sprintf("⚠️ %s: no data, warning written to %s", o.Name, o.Path))
		default:
			lines = append(lines, fmt.Sprintf("✅ %s: %d bytes saved to %s", o.Name, o.Bytes, o.Path))
		}
	}

	err := res.Err()
	if res.Logcat.Err == nil {
		if _, n := a.Categorize(); n.Failed() {
			lines = append(lines, n.Text)
			err = errors.Join(err, n.Err)
		}
	}
	if err != nil {
		lines = append(lines, "❌ Extraction finished with errors.")
	} else {
		lines = append(lines, "✅ Logs extracted successfully!")
	}
	return Notice{Text: strings.Join(lines, "\n"), Err: err}
}

// Categorize buckets the logcat dump and rewrites the per-category files.
func (a *App) Categorize() (categorize.Result, Notice) {
	res, err := a.Categorizer.Categorize(a.Evidence.Logcat())
	if err != nil {
		return res, failure("Categorization failed", err)
	}
	if err := a.Categorizer.WriteBuckets(res); err != nil {
		return res, failure("Saving categories failed", err)
	}
	a.State.SetCategories(res.Order, res.Counts(), res.Unmatched)
	return res, Notice{Text: fmt.Sprintf("✅ Categorized %d of %d lines into %d log types.", res.Matched(), res.Total, len(res.Order))}
}

// LoadCategories reads the per-category files written by an earlier run.
func (a *App) LoadCategories() (categorize.Result, Notice) {
	res, err := a.Categorizer.Load()
	if err != nil {
		return res, failure("Loading categories failed", err)
	}
	a.State.SetCategories(res.Order, res.Counts(), 0)
	return res, Notice{}
}

// FilterResult is the content of the filtered dump after a run.
type FilterResult struct {
	Source string
	Lines  []string
}

// ValidateCriteria rejects unknown severity and subtype names.
func (a *App) ValidateCriteria(c filter.Criteria) error {
	return errors.Join(a.Engine.Severities.Validate(c.Severity), a.Engine.Subtypes.Validate(c.Subtype))
}

// Filter applies c to source, writes the filtered dump and returns its lines.
func (a *App) Filter(source string, c filter.Criteria) (FilterResult, Notice) {
	path, err := a.SourcePath(source)
	if err != nil {
		return FilterResult{}, failure("Filter failed", err)
	}
	if err := a.ValidateCriteria(c); err != nil {
		return FilterResult{}, failure("Filter failed", err)
	}
	n, err := a.Engine.Filter(path, a.Evidence.Filtered(), c)
	if err != nil {
		return FilterResult{}, failure("Filter failed", err)
	}
	lines, err := evidence.Tail(a.Evidence.Filtered(), 0)
	if err != nil {
		return FilterResult{}, failure("Error loading filtered logs", err)
	}
	a.State.SetFilter(source, c, n)

	res := FilterResult{Source: source, Lines: lines}
	if n == 0 {
		return res, Notice{Text: "No logs match the selected filters."}
	}
	return res, Notice{Text: fmt.Sprintf("✅ Found %d matching log entries.", n)}
}

// SaveFiltered copies the filtered dump to dst.
func (a *App) SaveFiltered(dst string) Notice {
	if strings.TrimSpace(dst) == "" {
		return failure("Save failed", errors.New("no destination given"))
	}
	if !evidence.Exists(a.Evidence.Filtered()) {
		return failure("Save failed", errors.New("no filtered logs yet; run a filter first"))
	}
	if err := a.Evidence.Save(a.Evidence.Filtered(), dst); err != nil {
		return failure("Save failed", err)
	}
	return Notice{Text: fmt.Sprintf("✅ Filtered logs saved to %s", dst)}
}

// ExportReport writes the PDF forensic report.
func (a *App) ExportReport() Notice {
	path, err := a.Reports.Export()
	if err != nil {
		return failure("Report generation failed", err)
	}
	return Notice{Text: fmt.Sprintf("✅ Forensic report exported to %s", path)}
}

// Chart computes the series for kind over r.
func (a *App) Chart(kind string, r filter.TimeRange) (charts.Series, Notice) {
	s, err := a.Charts.Build(kind, r)
	if err != nil {
		return charts.Series{}, failure("Chart failed", err)
	}
	if s.Empty() {
		return s, Notice{Text: fmt.Sprintf("No data for %s.", s.Title)}
	}
	return s, Notice{}
}

// ExportChart builds and exports kind over r in format f.
func (a *App) ExportChart(kind string, r filter.TimeRange, f charts.Format) Notice {
	s, err := a.Charts.Build(kind, r)
	if err != nil {
		return failure("Chart export failed", err)
	}
	path, err := charts.Export(a.Evidence, s, f, a.now())
	if err != nil {
		return failure("Chart export failed", err)
	}
	return Notice{Text: fmt.Sprintf("✅ Chart exported to %s", path)}
}
