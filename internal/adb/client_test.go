package adb

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/five82/droidtrace/internal/evidence"
	"github.com/five82/droidtrace/internal/live"
)

type call struct {
	name string
	args []string
}

type fakeRunner struct {
	calls   []call
	outputs map[string][]byte
	errs    map[string]error
}

func key(args []string) string { return strings.Join(args, " ") }

func (f *fakeRunner) Output(_ context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, call{name, args})
	k := key(args)
	return f.outputs[k], f.errs[k]
}

func (f *fakeRunner) Stream(_ context.Context, name string, args ...string) (live.Process, error) {
	f.calls = append(f.calls, call{name, args})
	if err := f.errs[key(args)]; err != nil {
		return nil, err
	}
	return nil, nil
}

func TestParseDevices(t *testing.T) {
	out := []byte("* daemon started successfully\n" +
		"List of devices attached\n" +
		"emulator-5554          device product:sdk_gphone64 model:Pixel_7 device:emu64 transport_id:1\n" +
		"R58M123ABC             unauthorized usb:1-1 transport_id:2\n" +
		"\n")
	devices := ParseDevices(out)
	if len(devices) != 2 {
		t.Fatalf("ParseDevices() = %d devices, want 2", len(devices))
	}
	if devices[0].Serial != "emulator-5554" || devices[0].Model != "Pixel_7" || devices[0].Product != "sdk_gphone64" || !devices[0].Ready() {
		t.Fatalf("devices[0] = %+v", devices[0])
	}
	if devices[1].Ready() || devices[1].State != "unauthorized" {
		t.Fatalf("devices[1] = %+v", devices[1])
	}
}

func TestClientArgsWithSerial(t *testing.T) {
	r := &fakeRunner{}
	c := &Client{Path: "/opt/adb", Serial: "abc", Runner: r}
	since := time.Date(2025, 6, 14, 9, 5, 3, 0, time.Local)
	if _, err := c.DumpLogcat(context.Background(), since); err != nil {
		t.Fatalf("DumpLogcat() error = %v", err)
	}
	if _, err := c.Launch(context.Background()); err != nil {
		t.Fatalf("Launch() error = %v", err)
	}
	if len(r.calls) != 2 {
		t.Fatalf("calls = %d", len(r.calls))
	}
	if r.calls[0].name != "/opt/adb" {
		t.Fatalf("binary = %q", r.calls[0].name)
	}
	want := "-s abc logcat -d -v time -T 06-14 09:05:03.000"
	if got := key(r.calls[0].args); got != want {
		t.Fatalf("dump args = %q, want %q", got, want)
	}
	if got := key(r.calls[1].args); got != "-s abc logcat -v time" {
		t.Fatalf("launch args = %q", got)
	}
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient("  ", "")
	if c.Path != "adb" {
		t.Fatalf("Path = %q, want adb", c.Path)
	}
	if got := c.args("devices"); len(got) != 1 {
		t.Fatalf("args without serial = %v", got)
	}
}

func TestExtractAll(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.Local)
	r := &fakeRunner{
		outputs: map[string][]byte{
			"logcat -d -v time -T 06-14 12:00:00.000":             []byte("06-15 11:00:00.000 I/Tag: hi\n"),
			"shell content query --uri content://call_log/calls": []byte("  \n"),
		},
		errs: map[string]error{
			"shell content query --uri content://sms": errors.New("exit status 1: device unauthorized"),
		},
	}
	store := evidence.NewStore(t.TempDir())
	e := &Extractor{Client: &Client{Path: "adb", Runner: r}, Store: store, Now: func() time.Time { return now }}

	res := e.ExtractAll(context.Background())
	if err := res.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}

	assertFile(t, store.Logcat(), "06-15 11:00:00.000 I/Tag: hi\n")
	assertFile(t, store.Calls(), "⚠️ No call logs found.")
	data := readFile(t, store.SMS())
	if !strings.HasPrefix(data, "⚠️ Failed to extract SMS logs: ") || !strings.Contains(data, "unauthorized") {
		t.Fatalf("sms dump = %q", data)
	}
	if !res.Calls.Placeholder || !res.SMS.Placeholder || res.Logcat.Placeholder {
		t.Fatalf("placeholders = %+v", res)
	}
}

func TestExtractAllLogcatFailure(t *testing.T) {
	r := &fakeRunner{
		outputs: map[string][]byte{
			"shell content query --uri content://call_log/calls": []byte("Row: 0 number=5551234, type=1\n"),
			"shell content query --uri content://sms":            []byte("Row: 0 address=5551234, type=1\n"),
		},
		errs: map[string]error{
			"logcat -d -v time -T 06-14 12:00:00.000": errors.New("no devices/emulators found"),
		},
	}
	store := evidence.NewStore(t.TempDir())
	fixed := time.Date(2025, 6, 15, 12, 0, 0, 0, time.Local)
	e := &Extractor{Client: &Client{Path: "adb", Runner: r}, Store: store, Now: func() time.Time { return fixed }}

	res := e.ExtractAll(context.Background())
	if res.Err() == nil || res.Logcat.Err == nil {
		t.Fatalf("expected logcat error, got %+v", res)
	}
	if evidence.Exists(store.Logcat()) {
		t.Fatalf("logcat dump written despite failure")
	}
	assertFile(t, store.Calls(), "Row: 0 number=5551234, type=1\n")
	assertFile(t, store.SMS(), "Row: 0 address=5551234, type=1\n")
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func assertFile(t *testing.T, path, want string) {
	t.Helper()
	if got := readFile(t, path); got != want {
		t.Fatalf("%s = %q, want %q", path, got, want)
	}
}
