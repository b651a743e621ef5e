// Package categorize buckets log lines by the first matching log-type rule.
package categorize

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/five82/droidtrace/internal/evidence"
	"github.com/five82/droidtrace/internal/logline"
	"github.com/five82/droidtrace/internal/patterns"
)

// Result holds every bucket, including empty ones, in registry order.
type Result struct {
	Order     []string
	Buckets   map[string][]string
	Unmatched int
	Total     int
}

// Count returns the number of lines in bucket name.
func (r Result) Count(name string) int {
	return len(r.Buckets[name])
}

// Matched returns the number of lines placed in any bucket.
func (r Result) Matched() int {
	return r.Total - r.Unmatched
}

// Counts returns bucket sizes keyed by name.
func (r Result) Counts() map[string]int {
	out := make(map[string]int, len(r.Order))
	for _, name := range r.Order {
		out[name] = len(r.Buckets[name])
	}
	return out
}

// Categorizer assigns lines to log-type buckets.
type Categorizer struct {
	Types *patterns.Registry
	Store *evidence.Store
}

// New returns a categorizer over the built-in log types.
func New(store *evidence.Store) *Categorizer {
	return &Categorizer{Types: patterns.LogTypes, Store: store}
}

func (c *Categorizer) empty() Result {
	r := Result{
		Order:   c.Types.Names(),
		Buckets: make(map[string][]string),
	}
	for _, name := range r.Order {
		r.Buckets[name] = nil
	}
	return r
}

// Line returns the bucket for line, if any.
func (c *Categorizer) Line(line string) (string, bool) {
	rule, ok := c.Types.First(line)
	if !ok {
		return "", false
	}
	return rule.Name, true
}

// Lines categorizes in-memory lines. Terminators are stripped.
func (c *Categorizer) Lines(lines []string) Result {
	r := c.empty()
	for _, raw := range lines {
		c.add(&r, raw)
	}
	return r
}

func (c *Categorizer) add(r *Result, raw string) {
	line := logline.TrimEOL(raw)
	r.Total++
	name, ok := c.Line(line)
	if !ok {
		r.Unmatched++
		return
	}
	r.Buckets[name] = append(r.Buckets[name], line)
}

// Categorize reads source and buckets every line. A missing source yields an
// empty result.
func (c *Categorizer) Categorize(source string) (Result, error) {
	r := c.empty()
	err := evidence.EachLine(source, func(raw string) error {
		c.add(&r, raw)
		return nil
	})
	if err != nil {
		return c.empty(), fmt.Errorf("categorize %s: %w", source, err)
	}
	log.Debug().
		Str("source", source).
		Int("total", r.Total).
		Int("unmatched", r.Unmatched).
		Msg("categorized")
	return r, nil
}

// WriteBuckets writes each bucket to its per-category dump, overwriting
// previous content. Empty buckets produce empty files.
func (c *Categorizer) WriteBuckets(r Result) error {
	var errs []error
	for _, name := range r.Order {
		lines := r.Buckets[name]
		withEOL := make([]string, len(lines))
		for i, line := range lines {
			withEOL[i] = line + "\n"
		}
		if err := c.Store.WriteLines(c.Store.CategoryFile(name), withEOL); err != nil {
			errs = append(errs, fmt.Errorf("write %s bucket: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// Load reads previously written per-category dumps.
func (c *Categorizer) Load() (Result, error) {
	r := c.empty()
	for _, name := range r.Order {
		lines, err := evidence.Tail(c.Store.CategoryFile(name), 0)
		if err != nil {
			return c.empty(), err
		}
		r.Buckets[name] = lines
		r.Total += len(lines)
	}
	return r, nil
}
