package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/droidtrace/internal/adb"
	"github.com/five82/droidtrace/internal/filter"
)

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Devices             []adb.Device
	HasDevices          bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive device poll failures

	Extraction    adb.ExtractResult
	HasExtraction bool
	ExtractedAt   time.Time

	Categories    map[string]int
	CategoryOrder []string
	Uncategorized int

	Filter        filter.Criteria
	FilterSource  string
	FilterMatches int
	HasFilter     bool
}

// IsOffline returns true when adb has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// ReadyDevice returns the first attached device that accepts commands.
func (s Snapshot) ReadyDevice() (adb.Device, bool) {
	for _, d := range s.Devices {
		if d.Ready() {
			return d, true
		}
	}
	return adb.Device{}, false
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// UpdateDevices records a device poll. When err is non-nil the previous list
// is kept but the error is recorded for visibility.
func (s *Store) UpdateDevices(devices []adb.Device, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Devices = cloneDevices(devices)
	s.snapshot.HasDevices = true
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// SetExtraction records the outcome of the latest extraction.
func (s *Store) SetExtraction(r adb.ExtractResult, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Extraction = r
	s.snapshot.HasExtraction = true
	s.snapshot.ExtractedAt = at
}

// SetCategories records per-bucket line counts in display order.
func (s *Store) SetCategories(order []string, counts map[string]int, uncategorized int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.CategoryOrder = append([]string(nil), order...)
	s.snapshot.Categories = cloneCounts(counts)
	s.snapshot.Uncategorized = uncategorized
}

// SetFilter records the most recent filter run.
func (s *Store) SetFilter(source string, c filter.Criteria, matches int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Filter = c
	s.snapshot.FilterSource = source
	s.snapshot.FilterMatches = matches
	s.snapshot.HasFilter = true
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Devices = cloneDevices(s.snapshot.Devices)
	snap.Categories = cloneCounts(s.snapshot.Categories)
	snap.CategoryOrder = append([]string(nil), s.snapshot.CategoryOrder...)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneDevices(items []adb.Device) []adb.Device {
	if len(items) == 0 {
		return nil
	}
	dup := make([]adb.Device, len(items))
	copy(dup, items)
	return dup
}

func cloneCounts(m map[string]int) map[string]int {
	if m == nil {
		return nil
	}
	dup := make(map[string]int, len(m))
	for k, v := range m {
		dup[k] = v
	}
	return dup
}
