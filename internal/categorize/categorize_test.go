package categorize

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/five82/droidtrace/internal/evidence"
)

func TestCategorizeFirstMatchWins(t *testing.T) {
	store := evidence.NewStore(t.TempDir())
	content := "I/ActivityManager: Start proc\n" +
		"E/AndroidRuntime: FATAL EXCEPTION\n" +
		"D/dalvikvm: GC_CONCURRENT freed\n" +
		"I/ActivityManager: bindService com.example\n" +
		"hello\n"
	if err := os.MkdirAll(store.Dir(), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(store.Logcat(), []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	c := New(store)
	r, err := c.Categorize(store.Logcat())
	if err != nil {
		t.Fatalf("Categorize() error = %v", err)
	}

	wantApp := []string{"I/ActivityManager: Start proc", "I/ActivityManager: bindService com.example"}
	if !reflect.DeepEqual(r.Buckets["Application"], wantApp) {
		t.Fatalf("Application = %q, want %q", r.Buckets["Application"], wantApp)
	}
	if got := r.Count("Crash"); got != 1 {
		t.Fatalf("Crash count = %d, want 1", got)
	}
	if got := r.Count("GC"); got != 1 {
		t.Fatalf("GC count = %d, want 1", got)
	}
	if got := r.Count("Service"); got != 0 {
		t.Fatalf("Service count = %d, want 0", got)
	}
	if r.Unmatched != 1 || r.Total != 5 || r.Matched() != 4 {
		t.Fatalf("Unmatched/Total/Matched = %d/%d/%d", r.Unmatched, r.Total, r.Matched())
	}
	if len(r.Order) != 8 || r.Order[0] != "Application" || r.Order[7] != "Device" {
		t.Fatalf("Order = %v", r.Order)
	}
}

func TestCategorizeMissingFile(t *testing.T) {
	c := New(evidence.NewStore(t.TempDir()))
	r, err := c.Categorize(filepath.Join(t.TempDir(), "missing.txt"))
	if err != nil {
		t.Fatalf("Categorize() error = %v", err)
	}
	if r.Total != 0 || len(r.Buckets) != 8 {
		t.Fatalf("Categorize(missing) = %+v", r)
	}
	for name, lines := range r.Buckets {
		if len(lines) != 0 {
			t.Fatalf("bucket %s not empty", name)
		}
	}
}

func TestCategorizeIsIdempotent(t *testing.T) {
	c := New(evidence.NewStore(t.TempDir()))
	lines := []string{"socket connect\n", "onReceive intent\n", "camera opened\n"}
	a := c.Lines(lines)
	b := c.Lines(lines)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("Lines() not deterministic")
	}
	if a.Count("Network") != 1 || a.Count("Broadcast") != 1 || a.Count("Device") != 1 {
		t.Fatalf("Counts() = %v", a.Counts())
	}
}

func TestWriteBucketsAndLoad(t *testing.T) {
	store := evidence.NewStore(t.TempDir())
	c := New(store)
	r := c.Lines([]string{"E/AndroidRuntime: FATAL EXCEPTION\n", "wifi up\n"})

	if err := c.WriteBuckets(r); err != nil {
		t.Fatalf("WriteBuckets() error = %v", err)
	}
	data, err := os.ReadFile(store.CategoryFile("Crash"))
	if err != nil {
		t.Fatalf("read crash bucket: %v", err)
	}
	if string(data) != "E/AndroidRuntime: FATAL EXCEPTION\n" {
		t.Fatalf("crash bucket = %q", data)
	}
	if !evidence.Exists(store.CategoryFile("Service")) {
		t.Fatalf("empty bucket file not written")
	}

	loaded, err := c.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Count("Crash") != 1 || loaded.Count("Network") != 1 || loaded.Total != 2 {
		t.Fatalf("Load() counts = %v", loaded.Counts())
	}
}
