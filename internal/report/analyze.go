package report

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/five82/droidtrace/internal/evidence"
	"github.com/five82/droidtrace/internal/logline"
	"github.com/five82/droidtrace/internal/patterns"
)

const (
	unknown      = "Unknown"
	topN         = 5
	excerptLimit = 100
)

var (
	modelPattern   = regexp.MustCompile(`model=([^,\s]+)`)
	androidPattern = regexp.MustCompile(`Android\s+(\d+(?:\.\d+)?)`)
	kernelPattern  = regexp.MustCompile(`Linux\s+version\s+([^\s]+)`)

	callIncoming = regexp.MustCompile(`(?i)type[:=]\s*1\b|INCOMING`)
	callOutgoing = regexp.MustCompile(`(?i)type[:=]\s*2\b|OUTGOING`)
	callMissed   = regexp.MustCompile(`(?i)type[:=]\s*3\b|MISSED`)
	callNumber   = regexp.MustCompile(`number=(\+?\d+)`)
	callParty    = regexp.MustCompile(`(?:from:|to:)\s*(\+?\d+)`)

	smsIncoming = regexp.MustCompile(`(?i)type[:=]\s*1\b|INCOMING|from:`)
	smsOutgoing = regexp.MustCompile(`(?i)type[:=]\s*2\b|OUTGOING|to:`)
	smsFrom     = regexp.MustCompile(`from:\s*(\+?\d+)`)
	smsAddress  = regexp.MustCompile(`address=(\+?\d+)`)
)

// Count is one row of a frequency table.
type Count struct {
	Value string
	Count int
}

// TopN returns the n most frequent values, ties broken by first occurrence.
func TopN(values []string, n int) []Count {
	index := make(map[string]int)
	var counts []Count
	for _, v := range values {
		if i, ok := index[v]; ok {
			counts[i].Count++
			continue
		}
		index[v] = len(counts)
		counts = append(counts, Count{Value: v, Count: 1})
	}
	// Stable insertion sort keeps first-seen order among equal counts.
	for i := 1; i < len(counts); i++ {
		for j := i; j > 0 && counts[j].Count > counts[j-1].Count; j-- {
			counts[j], counts[j-1] = counts[j-1], counts[j]
		}
	}
	if n > 0 && len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// DeviceInfo is scraped from the raw logcat.
type DeviceInfo struct {
	Model          string
	AndroidVersion string
	Kernel         string
}

// CallStats summarizes the call-log dump.
type CallStats struct {
	Total    int
	Incoming int
	Outgoing int
	Missed   int
	Top      []Count
	Note     string // set when the dump holds an extraction warning
}

// SMSStats summarizes the SMS dump.
type SMSStats struct {
	Total    int
	Incoming int
	Outgoing int
	Top      []Count
	Note     string
}

// Section is one category of logcat excerpts.
type Section struct {
	Name  string
	Total int
	Today []string
	Err   error
}

// FileHash records the digest of an evidence file.
type FileHash struct {
	Path   string
	SHA256 string
	Size   int64
}

// Report is the assembled analysis, independent of output format.
type Report struct {
	CaseNumber string
	Examiner   string
	Generated  time.Time

	Device    DeviceInfo
	DeviceErr error
	Calls     CallStats
	CallsErr  error
	SMS       SMSStats
	SMSErr    error

	// Categories holds non-empty per-category sections. When it is empty,
	// Raw carries the raw logcat excerpt instead.
	Categories []Section
	Raw        *Section
	RawMissing bool

	Hashes []FileHash
}

// Analyzer reads the evidence store and builds a Report.
type Analyzer struct {
	Store *evidence.Store
	Types *patterns.Registry
	Now   func() time.Time
}

func (a *Analyzer) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

// Analyze builds every section. Section failures are recorded on the report
// rather than returned.
func (a *Analyzer) Analyze(caseNumber, examiner string) Report {
	now := a.now()
	r := Report{CaseNumber: caseNumber, Examiner: examiner, Generated: now}

	r.Device, r.DeviceErr = a.device()
	r.Calls, r.CallsErr = a.calls()
	r.SMS, r.SMSErr = a.sms()
	a.logcat(&r, now)
	r.Hashes = a.hashes()
	return r
}

func (a *Analyzer) device() (DeviceInfo, error) {
	info := DeviceInfo{Model: unknown, AndroidVersion: unknown, Kernel: unknown}
	lines, err := evidence.ReadLines(a.Store.Logcat())
	if err != nil {
		return info, err
	}
	text := strings.Join(lines, "")
	if m := modelPattern.FindStringSubmatch(text); m != nil {
		info.Model = m[1]
	}
	for _, m := range androidPattern.FindAllStringSubmatch(text, -1) {
		v, err := strconv.ParseFloat(m[1], 64)
		if err == nil && v < 15 {
			info.AndroidVersion = m[1]
			break
		}
	}
	if m := kernelPattern.FindStringSubmatch(text); m != nil {
		info.Kernel = m[1]
	}
	return info, nil
}

// placeholder reports whether a dump holds only an extraction warning.
func placeholder(lines []string) (string, bool) {
	if len(lines) != 1 {
		return "", false
	}
	line := strings.TrimSpace(lines[0])
	return line, strings.HasPrefix(line, "⚠️")
}

func (a *Analyzer) calls() (CallStats, error) {
	lines, err := evidence.ReadLines(a.Store.Calls())
	if err != nil {
		return CallStats{}, err
	}
	if note, ok := placeholder(lines); ok {
		return CallStats{Note: note}, nil
	}
	return SummarizeCalls(lines), nil
}

func (a *Analyzer) sms() (SMSStats, error) {
	lines, err := evidence.ReadLines(a.Store.SMS())
	if err != nil {
		return SMSStats{}, err
	}
	if note, ok := placeholder(lines); ok {
		return SMSStats{Note: note}, nil
	}
	return SummarizeSMS(lines), nil
}

// CallNumbers returns the counterpart number of each call row, in order.
func CallNumbers(lines []string) []string {
	var numbers []string
	for _, line := range lines {
		if m := callNumber.FindStringSubmatch(line); m != nil {
			numbers = append(numbers, m[1])
		} else if m := callParty.FindStringSubmatch(line); m != nil {
			numbers = append(numbers, m[1])
		}
	}
	return numbers
}

// SummarizeCalls counts call directions and the most frequent numbers.
func SummarizeCalls(lines []string) CallStats {
	s := CallStats{Total: len(lines)}
	for _, line := range lines {
		if callIncoming.MatchString(line) {
			s.Incoming++
		}
		if callOutgoing.MatchString(line) {
			s.Outgoing++
		}
		if callMissed.MatchString(line) {
			s.Missed++
		}
	}
	s.Top = TopN(CallNumbers(lines), topN)
	return s
}

// SMSSenders returns the sender of each incoming message row, in order.
func SMSSenders(lines []string) []string {
	var senders []string
	for _, line := range lines {
		if m := smsFrom.FindStringSubmatch(line); m != nil {
			senders = append(senders, m[1])
		} else if smsIncoming.MatchString(line) {
			if m := smsAddress.FindStringSubmatch(line); m != nil {
				senders = append(senders, m[1])
			}
		}
	}
	return senders
}

// SummarizeSMS counts message directions and the most frequent senders.
func SummarizeSMS(lines []string) SMSStats {
	s := SMSStats{Total: len(lines)}
	for _, line := range lines {
		if smsIncoming.MatchString(line) {
			s.Incoming++
		}
		if smsOutgoing.MatchString(line) {
			s.Outgoing++
		}
	}
	s.Top = TopN(SMSSenders(lines), topN)
	return s
}

// IsPlaceholder reports whether lines are an extraction warning rather than data.
func IsPlaceholder(lines []string) bool {
	_, ok := placeholder(lines)
	return ok
}

func (a *Analyzer) logcat(r *Report, now time.Time) {
	types := a.Types
	if types == nil {
		types = patterns.LogTypes
	}
	for _, name := range types.Names() {
		lines, err := evidence.Tail(a.Store.CategoryFile(name), 0)
		if err != nil {
			r.Categories = append(r.Categories, Section{Name: name, Err: err})
			continue
		}
		if len(lines) == 0 {
			continue
		}
		r.Categories = append(r.Categories, Section{Name: name, Total: len(lines), Today: Today(lines, now)})
	}
	if len(r.Categories) > 0 {
		return
	}

	if !evidence.Exists(a.Store.Logcat()) {
		r.RawMissing = true
		return
	}
	lines, err := evidence.Tail(a.Store.Logcat(), 0)
	r.Raw = &Section{Name: "Raw Logcat Data", Err: err, Total: len(lines), Today: Today(lines, now)}
}

// Today keeps lines that start with today's MM-DD, truncated for display.
func Today(lines []string, now time.Time) []string {
	prefix := now.Format("01-02")
	var out []string
	for _, line := range lines {
		line = strings.TrimSpace(logline.TrimEOL(line))
		if strings.HasPrefix(line, prefix) {
			out = append(out, Truncate(line, excerptLimit))
		}
	}
	return out
}

// Truncate shortens s to limit runes, ending in "..." when cut.
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}

func (a *Analyzer) hashes() []FileHash {
	var out []FileHash
	for _, path := range []string{a.Store.Logcat(), a.Store.Calls(), a.Store.SMS()} {
		h, err := hashFile(path)
		if err != nil {
			continue
		}
		out = append(out, h)
	}
	return out
}

func hashFile(path string) (FileHash, error) {
	f, err := os.Open(path)
	if err != nil {
		return FileHash{}, err
	}
	defer f.Close()
	sum := sha256.New()
	n, err := io.Copy(sum, f)
	if err != nil {
		return FileHash{}, fmt.Errorf("hash %s: %w", path, err)
	}
	return FileHash{Path: path, SHA256: hex.EncodeToString(sum.Sum(nil)), Size: n}, nil
}
