package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/five82/droidtrace/internal/evidence"
)

// Exporter writes timestamped PDF reports into the exports directory.
type Exporter struct {
	Analyzer   *Analyzer
	Store      *evidence.Store
	CaseNumber string
	Examiner   string
}

// caseNumber returns the configured case number or a generated one.
func (e *Exporter) caseNumber() string {
	if c := strings.TrimSpace(e.CaseNumber); c != "" {
		return c
	}
	return strings.ToUpper(uuid.NewString()[:8])
}

func (e *Exporter) examiner() string {
	if x := strings.TrimSpace(e.Examiner); x != "" {
		return x
	}
	return "Unspecified examiner"
}

// Export analyzes the evidence and writes
// exports/forensic_report_YYYYMMDD_HHMMSS.pdf, returning its path.
func (e *Exporter) Export() (string, error) {
	r := e.Analyzer.Analyze(e.caseNumber(), e.examiner())
	path := filepath.Join(e.Store.ExportsDir(), fmt.Sprintf("forensic_report_%s.pdf", r.Generated.Format("20060102_150405")))

	err := e.Store.WriteFile(path, func(w io.Writer) error {
		return RenderPDF(r, w)
	})
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("report export failed")
		return "", fmt.Errorf("export report: %w", err)
	}
	log.Info().Str("path", path).Str("case", r.CaseNumber).Msg("report exported")
	return path, nil
}
