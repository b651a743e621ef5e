package filter

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/five82/droidtrace/internal/evidence"
	"github.com/five82/droidtrace/internal/logline"
	"github.com/five82/droidtrace/internal/patterns"
)

// Engine applies Criteria to log files.
type Engine struct {
	Severities *patterns.Registry
	Subtypes   *patterns.Registry
	Store      *evidence.Store
	Now        func() time.Time
}

// NewEngine returns an engine over the built-in registries.
func NewEngine(store *evidence.Store) *Engine {
	return &Engine{
		Severities: patterns.Severities,
		Subtypes:   patterns.Subtypes,
		Store:      store,
		Now:        time.Now,
	}
}

func (e *Engine) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

// Predicate compiles c into a per-line test evaluated against now.
func (e *Engine) Predicate(c Criteria, now time.Time) func(line string) bool {
	keyword := strings.ToLower(c.Keyword)
	checkKeyword := strings.TrimSpace(c.Keyword) != ""
	window := c.Range.Window()

	var severity, subtype *patterns.Rule
	if !patterns.IsAll(c.Severity) {
		r := e.Severities.Matcher(c.Severity)
		severity = &r
	}
	if !patterns.IsAll(c.Subtype) {
		r := e.Subtypes.Matcher(c.Subtype)
		subtype = &r
	}

	return func(line string) bool {
		if window > 0 {
			if ts, ok := logline.Timestamp(line, now); ok && now.Sub(ts) > window {
				return false
			}
		}
		if checkKeyword && !strings.Contains(strings.ToLower(line), keyword) {
			return false
		}
		if severity != nil && !severity.Match(line) {
			return false
		}
		if subtype != nil && !subtype.Match(line) {
			return false
		}
		return true
	}
}

// Match reports whether a single line passes c.
func (e *Engine) Match(line string, c Criteria) bool {
	return e.Predicate(c, e.now())(line)
}

// Filter copies the lines of source that pass c into dest, overwriting it,
// and returns the number of lines written. A missing source is created empty.
// Lines keep their original terminators.
func (e *Engine) Filter(source, dest string, c Criteria) (int, error) {
	if err := e.Store.EnsureFile(source); err != nil {
		return 0, fmt.Errorf("prepare source: %w", err)
	}

	match := e.Predicate(c, e.now())
	count := 0
	err := e.Store.WriteFile(dest, func(w io.Writer) error {
		return evidence.EachLine(source, func(line string) error {
			if !match(line) {
				return nil
			}
			if _, err := io.WriteString(w, line); err != nil {
				return fmt.Errorf("write %s: %w", dest, err)
			}
			count++
			return nil
		})
	})
	if err != nil {
		log.Error().Err(err).Str("source", source).Str("dest", dest).Msg("filter failed")
		return 0, err
	}

	log.Info().
		Str("source", source).
		Str("dest", dest).
		Str("criteria", c.Describe()).
		Int("matched", count).
		Msg("filter complete")
	return count, nil
}

// Lines filters in-memory lines, e.g. the live backlog.
func (e *Engine) Lines(lines []string, c Criteria) []string {
	match := e.Predicate(c, e.now())
	var out []string
	for _, line := range lines {
		if match(line) {
			out = append(out, line)
		}
	}
	return out
}
