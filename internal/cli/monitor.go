package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/five82/droidtrace/internal/live"
	"github.com/five82/droidtrace/internal/logline"
)

func newMonitorCommand(rt *runtime) *cobra.Command {
	var (
		jsonOut bool
		tally   bool
	)
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Stream the live logcat feed to stdout",
		Long: `Stream logcat from the device as it is written. Lines are colored by
priority. Press Ctrl-C to stop.

Examples:
  droidtrace monitor
  droidtrace monitor --tally
  droidtrace monitor --json | jq .text`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := rt.newApp()
			if err != nil {
				return err
			}
			p := &feedPrinter{out: rt.stdout, errOut: rt.stderr, json: jsonOut, counts: map[string]int{}}
			err = runMonitor(cmd.Context(), a.Session, a.Config.Live.PollInterval, p)
			if tally {
				p.printTally()
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "write one JSON object per message")
	cmd.Flags().BoolVar(&tally, "tally", false, "print per-log-type counts on exit")
	return cmd
}

// runMonitor relays s to p until ctx is cancelled or the feed ends.
func runMonitor(ctx context.Context, s *live.Session, interval time.Duration, p *feedPrinter) error {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	// The relay outlives ctx so Stop can terminate it and post its status.
	if err := s.Start(context.WithoutCancel(ctx)); err != nil {
		s.Poll(p.print)
		return err
	}
	done := s.Relay.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			err := s.Stop()
			s.Poll(p.print)
			if errors.Is(err, live.ErrNotRunning) {
				return nil
			}
			return err
		case <-done:
			s.Poll(p.print)
			fmt.Fprintln(p.errOut, "Live feed ended.")
			return nil
		case <-ticker.C:
			s.Poll(p.print)
		}
	}
}

var (
	styleVerbose = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Faint(true)
	styleDebug   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	styleInfo    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	styleWarn    = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	styleFatal   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("196")).
			Bold(true)
	styleStatus = lipgloss.NewStyle().Foreground(lipgloss.Color("141"))
)

// feedPrinter writes live messages. Feed lines go to out; status and
// errors go to errOut.
type feedPrinter struct {
	out    io.Writer
	errOut io.Writer
	json   bool
	counts map[string]int
}

type jsonMessage struct {
	Kind   string    `json:"kind"`
	Bucket string    `json:"bucket,omitempty"`
	Text   string    `json:"text"`
	At     time.Time `json:"at,omitzero"`
}

func (p *feedPrinter) print(m live.Message) {
	if m.Kind == live.Categorize {
		p.counts[m.Bucket]++
	}
	if p.json {
		b, err := json.Marshal(jsonMessage{Kind: m.Kind.String(), Bucket: m.Bucket, Text: m.Text, At: m.At})
		if err == nil {
			fmt.Fprintln(p.out, string(b))
		}
		return
	}

	switch m.Kind {
	case live.Update:
		fmt.Fprintln(p.out, styleForPriority(logline.Priority(m.Text)).Render(m.Text))
	case live.Status:
		fmt.Fprintln(p.errOut, styleStatus.Render(m.Text))
	case live.Error:
		fmt.Fprintln(p.errOut, styleError.Render("❌ "+m.Text))
	}
}

func (p *feedPrinter) printTally() {
	names := make([]string, 0, len(p.counts))
	for name := range p.counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if p.counts[names[i]] != p.counts[names[j]] {
			return p.counts[names[i]] > p.counts[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) == 0 {
		fmt.Fprintln(p.errOut, "No categorized lines.")
		return
	}
	rows := make([][]string, len(names))
	for i, name := range names {
		rows[i] = []string{name, fmt.Sprint(p.counts[name])}
	}
	fmt.Fprintln(p.errOut, renderTable([]string{"LOG TYPE", "LINES"}, rows))
}

func styleForPriority(level byte) lipgloss.Style {
	switch level {
	case 'F', 'A':
		return styleFatal
	case 'E':
		return styleError
	case 'W':
		return styleWarn
	case 'I':
		return styleInfo
	case 'D':
		return styleDebug
	case 'V':
		return styleVerbose
	default:
		return lipgloss.NewStyle()
	}
}
