package adb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/five82/droidtrace/internal/evidence"
	"github.com/five82/droidtrace/internal/logline"
)

// DefaultLogcatWindow is how far back the logcat dump reaches.
const DefaultLogcatWindow = 24 * time.Hour

// Outcome describes one dump.
type Outcome struct {
	Name        string
	Path        string
	Bytes       int
	Placeholder bool // a warning was written in place of data
	Err         error
}

// ExtractResult covers one extraction run.
type ExtractResult struct {
	Logcat Outcome
	Calls  Outcome
	SMS    Outcome
}

// Outcomes returns the dumps in extraction order.
func (r ExtractResult) Outcomes() []Outcome {
	return []Outcome{r.Logcat, r.Calls, r.SMS}
}

// Err joins every dump failure.
func (r ExtractResult) Err() error {
	var errs []error
	for _, o := range r.Outcomes() {
		if o.Err != nil {
			errs = append(errs, o.Err)
		}
	}
	return errors.Join(errs...)
}

// Extractor pulls the three dumps from a device into the evidence store.
type Extractor struct {
	Client *Client
	Store  *evidence.Store
	Window time.Duration
	Now    func() time.Time
}

// ExtractAll dumps logcat, call log and SMS. Provider failures are written as
// placeholder warnings; a logcat failure is reported in the result and the
// other dumps still run.
func (e *Extractor) ExtractAll(ctx context.Context) ExtractResult {
	var res ExtractResult
	res.Logcat = e.extractLogcat(ctx)
	res.Calls = e.extractProvider(ctx, "call logs", CallLogURI, e.Store.Calls())
	res.SMS = e.extractProvider(ctx, "SMS logs", SMSURI, e.Store.SMS())
	return res
}

func (e *Extractor) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e *Extractor) extractLogcat(ctx context.Context) Outcome {
	o := Outcome{Name: "logcat", Path: e.Store.Logcat()}
	window := e.Window
	if window <= 0 {
		window = DefaultLogcatWindow
	}
	out, err := e.Client.DumpLogcat(ctx, e.now().Add(-window))
	if err != nil {
		o.Err = err
		log.Error().Err(err).Msg("logcat extraction failed")
		return o
	}
	text := logline.Decode(out)
	if err := e.write(o.Path, text); err != nil {
		o.Err = err
		return o
	}
	o.Bytes = len(text)
	log.Info().Str("path", o.Path).Int("bytes", o.Bytes).Msg("logcat extracted")
	return o
}

func (e *Extractor) extractProvider(ctx context.Context, name, uri, path string) Outcome {
	o := Outcome{Name: name, Path: path}
	out, err := e.Client.QueryContent(ctx, uri)
	text := logline.Decode(out)
	switch {
	case err != nil:
		text = fmt.Sprintf("⚠️ Failed to extract %s: %v", name, err)
		o.Placeholder = true
		log.Warn().Err(err).Str("uri", uri).Msg("content query failed")
	case strings.TrimSpace(text) == "":
		text = fmt.Sprintf("⚠️ No %s found.", name)
		o.Placeholder = true
	}
	if werr := e.write(path, text); werr != nil {
		o.Err = werr
		return o
	}
	o.Bytes = len(text)
	return o
}

func (e *Extractor) write(path, text string) error {
	return e.Store.WriteFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, text)
		return err
	})
}
