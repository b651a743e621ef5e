package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/five82/droidtrace/internal/app"
	"github.com/five82/droidtrace/internal/charts"
	"github.com/five82/droidtrace/internal/filter"
	"github.com/five82/droidtrace/internal/patterns"
)

func newExtractCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "extract",
		Short: "Pull logcat, call and SMS dumps from the device",
		Long: `Pull the recent logcat buffer plus the call log and SMS content providers
into the logs directory, then categorize the new logcat dump.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := rt.newApp()
			if err != nil {
				return err
			}
			return rt.report(a.Extract(cmd.Context()))
		},
	}
}

func newCategorizeCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "categorize",
		Short: "Sort the logcat dump into per-log-type files",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			a, err := rt.newApp()
			if err != nil {
				return err
			}
			res, n := a.Categorize()
			if err := rt.report(n); err != nil {
				return err
			}
			rows := make([][]string, 0, len(res.Order)+1)
			for _, name := range res.Order {
				rows = append(rows, []string{name, strconv.Itoa(res.Count(name))})
			}
			rows = append(rows, []string{"Unmatched", strconv.Itoa(res.Unmatched)})
			fmt.Fprintln(rt.stdout, renderTable([]string{"LOG TYPE", "LINES"}, rows))
			return nil
		},
	}
}

type filterFlags struct {
	source   string
	keyword  string
	rng      string
	severity string
	subtype  string
	save     string
	count    bool
}

func newFilterCommand(rt *runtime) *cobra.Command {
	var f filterFlags
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Filter a dump by time range, severity, subtype and keyword",
		Long: `Filter one dump and print the matching lines. The result also replaces the
filtered dump in the logs directory.

Examples:
  droidtrace filter --severity Error --range 24h
  droidtrace filter --source calls --keyword 5551234
  droidtrace filter --subtype Bluetooth --save bt.txt`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			c, err := f.criteria()
			if err != nil {
				return err
			}
			a, err := rt.newApp()
			if err != nil {
				return err
			}
			if err := a.ValidateCriteria(c); err != nil {
				return err
			}

			res, n := a.Filter(f.source, c)
			if n.Failed() {
				return rt.report(n)
			}
			if !f.count {
				for _, line := range res.Lines {
					fmt.Fprintln(rt.stdout, line)
				}
			} else {
				fmt.Fprintln(rt.stdout, len(res.Lines))
			}
			// Keep stdout to matching lines so the output pipes cleanly.
			fmt.Fprintln(rt.stderr, n.Text)

			if f.save != "" {
				return rt.report(a.SaveFiltered(f.save))
			}
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.source, "source", app.SourceLogcat, "dump to filter: "+strings.Join(app.Sources(), ", "))
	fl.StringVarP(&f.keyword, "keyword", "k", "", "case-insensitive substring to match")
	fl.StringVarP(&f.rng, "range", "r", "all", "time range: 1h, 24h, 7d or all")
	fl.StringVar(&f.severity, "severity", patterns.All, "severity: "+strings.Join(patterns.Severities.Names(), ", "))
	fl.StringVar(&f.subtype, "subtype", patterns.All, "subtype: "+strings.Join(patterns.Subtypes.Names(), ", "))
	fl.StringVarP(&f.save, "save", "o", "", "also copy the filtered dump to this path")
	fl.BoolVar(&f.count, "count", false, "print only the number of matching lines")
	return cmd
}

func (f filterFlags) criteria() (filter.Criteria, error) {
	rng, err := filter.ParseTimeRange(f.rng)
	if err != nil {
		return filter.Criteria{}, err
	}
	return filter.Criteria{
		Keyword:  f.keyword,
		Range:    rng,
		Severity: f.severity,
		Subtype:  f.subtype,
	}, nil
}

func newReportCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export the PDF forensic report",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			a, err := rt.newApp()
			if err != nil {
				return err
			}
			return rt.report(a.ExportReport())
		},
	}
	cmd.Flags().String("case", "", "case number printed in the report header")
	cmd.Flags().String("examiner", "", "examiner name printed in the report header")
	rt.bindFlags(cmd, map[string]string{
		"report.case_number": "case",
		"report.examiner":    "examiner",
	})
	return cmd
}

func newChartCommand(rt *runtime) *cobra.Command {
	var (
		rng    string
		format string
		list   bool
	)
	cmd := &cobra.Command{
		Use:   "chart [kind]",
		Short: "Print or export a chart",
		Long: `Print a chart series as a table, or export it with --format.
Without a kind, the available kinds are listed.

Examples:
  droidtrace chart "Call Logs" --range 7d
  droidtrace chart "Top SMS Senders" --format xlsx`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			r, err := filter.ParseTimeRange(rng)
			if err != nil {
				return err
			}
			a, err := rt.newApp()
			if err != nil {
				return err
			}
			kinds := a.Charts.Kinds()
			if list || len(args) == 0 {
				for _, k := range kinds {
					fmt.Fprintln(rt.stdout, k)
				}
				return nil
			}
			kind, err := resolveKind(kinds, args[0])
			if err != nil {
				return err
			}

			if format != "" {
				f, err := charts.ParseFormat(format)
				if err != nil {
					return err
				}
				return rt.report(a.ExportChart(kind, r, f))
			}

			s, n := a.Chart(kind, r)
			if n.Failed() || s.Empty() {
				return rt.report(n)
			}
			fmt.Fprintln(rt.stdout, s.Title)
			fmt.Fprintln(rt.stdout, renderTable(seriesHeaders(s), seriesRows(s)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&rng, "range", "r", "all", "time range: 1h, 24h, 7d or all")
	cmd.Flags().StringVarP(&format, "format", "f", "", "export format: csv, xlsx or png")
	cmd.Flags().BoolVar(&list, "list", false, "list chart kinds")
	return cmd
}

// resolveKind matches name against kinds, ignoring case.
func resolveKind(kinds []string, name string) (string, error) {
	for _, k := range kinds {
		if strings.EqualFold(k, strings.TrimSpace(name)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w %q (valid: %s)", charts.ErrUnknownKind, name, strings.Join(kinds, ", "))
}

func seriesHeaders(s charts.Series) []string {
	x, y := s.XLabel, s.YLabel
	if x == "" {
		x = "Label"
	}
	if y == "" {
		y = "Value"
	}
	return []string{strings.ToUpper(x), strings.ToUpper(y)}
}

func seriesRows(s charts.Series) [][]string {
	rows := make([][]string, len(s.Points))
	for i, p := range s.Points {
		rows[i] = []string{p.Label, strconv.FormatFloat(p.Value, 'f', -1, 64)}
	}
	return rows
}

func newDevicesCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List attached devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := rt.newApp()
			if err != nil {
				return err
			}
			devices, err := a.Client.Devices(cmd.Context())
			if err != nil {
				return err
			}
			if len(devices) == 0 {
				fmt.Fprintln(rt.stdout, "No devices attached.")
				return nil
			}
			rows := make([][]string, len(devices))
			for i, d := range devices {
				rows[i] = []string{d.Serial, d.State, d.Model, d.Product}
			}
			fmt.Fprintln(rt.stdout, renderTable([]string{"SERIAL", "STATE", "MODEL", "PRODUCT"}, rows))
			return nil
		},
	}
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// renderTable draws rows under headers with a plain border.
func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		String()
}
