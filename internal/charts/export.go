package charts

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/xuri/excelize/v2"

	"github.com/five82/droidtrace/internal/evidence"
)

// Format is an export file type.
type Format string

const (
	CSV  Format = "csv"
	XLSX Format = "xlsx"
	PNG  Format = "png"
)

// ParseFormat accepts csv, xlsx or png.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case CSV, XLSX, PNG:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q (valid: csv, xlsx, png)", s)
}

// WriteCSV writes a header row and one row per point.
func WriteCSV(w io.Writer, s Series) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{labelOr(s.XLabel, "Label"), labelOr(s.YLabel, "Value")}); err != nil {
		return err
	}
	for _, p := range s.Points {
		if err := cw.Write([]string{p.Label, strconv.FormatFloat(p.Value, 'f', -1, 64)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the series as a single styled worksheet.
func WriteXLSX(w io.Writer, s Series) error {
	file := excelize.NewFile()
	defer file.Close()

	sheet := "Chart"
	index, err := file.NewSheet(sheet)
	if err != nil {
		return err
	}
	file.SetActiveSheet(index)
	if err := file.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	headerStyle, err := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 2},
		},
	})
	if err != nil {
		return err
	}

	file.SetCellValue(sheet, "A1", s.Title)
	file.SetCellValue(sheet, "A2", labelOr(s.XLabel, "Label"))
	file.SetCellValue(sheet, "B2", labelOr(s.YLabel, "Value"))
	file.SetCellStyle(sheet, "A2", "B2", headerStyle)
	file.SetColWidth(sheet, "A", "A", 28)
	file.SetColWidth(sheet, "B", "B", 14)

	for i, p := range s.Points {
		row := i + 3
		file.SetCellValue(sheet, fmt.Sprintf("A%d", row), p.Label)
		file.SetCellValue(sheet, fmt.Sprintf("B%d", row), p.Value)
	}
	if len(s.Points) > 0 {
		file.AutoFilter(sheet, fmt.Sprintf("A2:B%d", len(s.Points)+2), nil)
	}
	return file.Write(w)
}

// WritePNG renders the series as a bar chart.
func WritePNG(w io.Writer, s Series) error {
	if len(s.Points) == 0 || s.Empty() {
		return ErrNoData
	}
	bars := make([]chart.Value, len(s.Points))
	top := 0.0
	for i, p := range s.Points {
		bars[i] = chart.Value{Label: p.Label, Value: p.Value}
		if p.Value > top {
			top = p.Value
		}
	}
	graph := chart.BarChart{
		Title:      s.Title,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		Width:      1024,
		Height:     512,
		BarWidth:   40,
		YAxis:      chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: top * 1.1}},
		Bars:       bars,
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

func labelOr(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

// Export writes s in format f to exports/<slug>_YYYYMMDD_HHMMSS.<ext> and
// returns the path.
func Export(store *evidence.Store, s Series, f Format, now time.Time) (string, error) {
	slug := strings.Trim(strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '_'
		}
	}, s.Title), "_")
	for strings.Contains(slug, "__") {
		slug = strings.ReplaceAll(slug, "__", "_")
	}
	if slug == "" {
		slug = "chart"
	}
	path := filepath.Join(store.ExportsDir(), fmt.Sprintf("%s_%s.%s", slug, now.Format("20060102_150405"), f))

	write := map[Format]func(io.Writer, Series) error{CSV: WriteCSV, XLSX: WriteXLSX, PNG: WritePNG}[f]
	if write == nil {
		return "", fmt.Errorf("unknown export format %q", f)
	}
	if err := store.WriteFile(path, func(w io.Writer) error { return write(w, s) }); err != nil {
		return "", fmt.Errorf("export chart: %w", err)
	}
	return path, nil
}
