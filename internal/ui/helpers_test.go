package ui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		limit int
		want  string
	}{
		{"short", 10, "short"},
		{"hello world", 8, "hello..."},
		{"abcdef", 3, "abc"},
		{"  padded  ", 0, "padded"},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.limit); got != tc.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tc.in, tc.limit, got, tc.want)
		}
	}
}

func TestTruncateMiddle(t *testing.T) {
	if got := truncateMiddle("  ", 10); got != "" {
		t.Fatalf("truncateMiddle blank = %q, want empty", got)
	}
	if got := truncateMiddle("abcdefghij", 7); got != "ab…ghij" {
		t.Fatalf("truncateMiddle = %q, want ab…ghij", got)
	}
	got := truncateMiddle("/home/examiner/cases/logs/android_logcat.txt", 20)
	if n := utf8.RuneCountInString(got); n != 20 {
		t.Fatalf("truncateMiddle length = %d, want 20 (%q)", n, got)
	}
	if !strings.HasSuffix(got, "logcat.txt") {
		t.Fatalf("truncateMiddle = %q, want file name kept", got)
	}
}

func TestBoxTop(t *testing.T) {
	got := boxTop("Live", 20)
	if !strings.HasPrefix(got, "╭─ Live ─") || !strings.HasSuffix(got, "╮") {
		t.Fatalf("boxTop = %q", got)
	}
	if n := utf8.RuneCountInString(got); n != 20 {
		t.Fatalf("boxTop width = %d, want 20", n)
	}
	if got := boxTop("Live", 4); got != "╭──╮" {
		t.Fatalf("boxTop narrow = %q, want ╭──╮", got)
	}
	long := boxTop(strings.Repeat("x", 50), 16)
	if n := utf8.RuneCountInString(long); n != 16 {
		t.Fatalf("boxTop long title width = %d, want 16 (%q)", n, long)
	}
}

func TestClipLines(t *testing.T) {
	if got := clipLines("a\nb\nc", 2); got != "a\nb" {
		t.Fatalf("clipLines = %q, want a\\nb", got)
	}
	if got := clipLines("a", 3); got != "a" {
		t.Fatalf("clipLines = %q, want a", got)
	}
	if got := clipLines("a", 0); got != "" {
		t.Fatalf("clipLines zero = %q, want empty", got)
	}
}

func TestLastLine(t *testing.T) {
	if got := lastLine("✅ logcat: ok\n❌ SMS logs: boom\n❌ Extraction finished with errors.\n"); got != "❌ Extraction finished with errors." {
		t.Fatalf("lastLine = %q", got)
	}
}

func TestFormatBytes(t *testing.T) {
	cases := map[int]string{
		512:             "512 B",
		2048:            "2.0 KiB",
		5 * 1024 * 1024: "5.0 MiB",
	}
	for in, want := range cases {
		if got := formatBytes(in); got != want {
			t.Fatalf("formatBytes(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatRelative(t *testing.T) {
	base := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		after time.Duration
		want  string
	}{
		{30 * time.Second, "12:00:00 (now)"},
		{5 * time.Minute, "12:00:00 (5m ago)"},
		{3 * time.Hour, "12:00:00 (3h ago)"},
		{48 * time.Hour, "12:00:00"},
	}
	for _, tc := range cases {
		if got := formatRelative(base, base.Add(tc.after)); got != tc.want {
			t.Fatalf("formatRelative(+%s) = %q, want %q", tc.after, got, tc.want)
		}
	}
}

func TestClassifyADBError(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{errors.New(`exec: "adb": executable file not found in $PATH`), "NOT FOUND"},
		{context.DeadlineExceeded, "TIMEOUT"},
		{errors.New("cannot connect to daemon"), "OFFLINE"},
		{errors.New("something else"), "ERROR"},
	}
	for _, tc := range cases {
		if got := classifyADBError(tc.err); got != tc.want {
			t.Fatalf("classifyADBError(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
