package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/five82/droidtrace/internal/adb"
	"github.com/five82/droidtrace/internal/filter"
)

func TestStore_UpdateDevicesAndSnapshotClone(t *testing.T) {
	var s Store

	devices := []adb.Device{{Serial: "emulator-5554", State: "device"}, {Serial: "R58M", State: "unauthorized"}}

	before := time.Now()
	s.UpdateDevices(devices, nil)

	snap := s.Snapshot()
	if !snap.HasDevices || len(snap.Devices) != 2 {
		t.Fatalf("snapshot devices = %#v, want 2 devices", snap.Devices)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil", snap.LastError)
	}

	snap.Devices[0].Serial = "mutated"
	snap2 := s.Snapshot()
	if snap2.Devices[0].Serial != "emulator-5554" {
		t.Fatalf("Snapshot should clone devices; got %q", snap2.Devices[0].Serial)
	}

	d, ok := snap2.ReadyDevice()
	if !ok || d.Serial != "emulator-5554" {
		t.Fatalf("ReadyDevice() = %+v, %v", d, ok)
	}
}

func TestStore_UpdateErrorKeepsPreviousData(t *testing.T) {
	var s Store

	s.UpdateDevices([]adb.Device{{Serial: "a", State: "device"}}, nil)
	prev := s.Snapshot()

	origErr := errors.New("adb: not found")
	s.UpdateDevices(nil, origErr)

	snap := s.Snapshot()
	if len(snap.Devices) != 1 || snap.Devices[0].Serial != prev.Devices[0].Serial {
		t.Fatalf("devices changed on error: got %#v want %#v", snap.Devices, prev.Devices)
	}
	if snap.LastError == nil || snap.LastError.Error() != "adb: not found" {
		t.Fatalf("LastError = %v, want adb: not found", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	if snap := s.Snapshot(); snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("initial snapshot = %+v, want online", snap)
	}

	s.UpdateDevices(nil, errors.New("fail 1"))
	if snap := s.Snapshot(); snap.ConsecutiveFailures != 1 || snap.IsOffline() {
		t.Fatalf("after 1 failure: failures=%d offline=%v", snap.ConsecutiveFailures, snap.IsOffline())
	}

	s.UpdateDevices(nil, errors.New("fail 2"))
	if snap := s.Snapshot(); snap.ConsecutiveFailures != 2 || !snap.IsOffline() {
		t.Fatalf("after 2 failures: failures=%d offline=%v", snap.ConsecutiveFailures, snap.IsOffline())
	}

	s.UpdateDevices(nil, nil)
	if snap := s.Snapshot(); snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("after success: failures=%d offline=%v", snap.ConsecutiveFailures, snap.IsOffline())
	}
}

func TestStore_CategoriesAndFilter(t *testing.T) {
	var s Store

	counts := map[string]int{"Crash": 2, "Network": 5}
	s.SetCategories([]string{"Crash", "Network"}, counts, 7)
	counts["Crash"] = 99

	c := filter.Criteria{Keyword: "wifi", Range: filter.PastHour}
	s.SetFilter("logcat", c, 12)

	snap := s.Snapshot()
	if snap.Categories["Crash"] != 2 || snap.Uncategorized != 7 {
		t.Fatalf("categories = %v uncategorized=%d", snap.Categories, snap.Uncategorized)
	}
	if !snap.HasFilter || snap.Filter != c || snap.FilterMatches != 12 || snap.FilterSource != "logcat" {
		t.Fatalf("filter snapshot = %+v", snap)
	}

	snap.Categories["Network"] = 0
	if s.Snapshot().Categories["Network"] != 5 {
		t.Fatalf("Snapshot should clone categories")
	}
}

func TestStore_SetExtraction(t *testing.T) {
	var s Store
	at := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	r := adb.ExtractResult{Logcat: adb.Outcome{Name: "logcat", Bytes: 42}}

	s.SetExtraction(r, at)

	snap := s.Snapshot()
	if !snap.HasExtraction || !snap.ExtractedAt.Equal(at) || snap.Extraction.Logcat.Bytes != 42 {
		t.Fatalf("extraction snapshot = %+v", snap)
	}
}
