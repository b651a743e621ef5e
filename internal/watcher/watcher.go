// Package watcher reports changes to evidence dumps in the logs directory.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// DefaultPatterns match the dumps the UI cares about, relative to the logs
// directory.
var DefaultPatterns = []string{"*.txt", "logcat_types/*_logs.txt"}

const defaultDebounce = 250 * time.Millisecond

// Change is a batch of dump paths modified within one debounce window.
type Change struct {
	Paths []string
}

// Has reports whether the batch touched a path with the given base name.
func (c Change) Has(base string) bool {
	for _, p := range c.Paths {
		if filepath.Base(p) == base {
			return true
		}
	}
	return false
}

// Watcher monitors the logs directory with OS-level notifications.
type Watcher struct {
	fsw      *fsnotify.Watcher
	root     string
	patterns []string
	debounce time.Duration

	Events chan Change
}

// New watches root and its category subdirectory. Missing directories are
// created so the watch survives a first extraction.
func New(root string, patterns []string) (*Watcher, error) {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid watch pattern %q", p)
		}
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", root, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &Watcher{
		fsw:      fsw,
		root:     abs,
		patterns: patterns,
		debounce: defaultDebounce,
		Events:   make(chan Change, 16),
	}
	for _, dir := range []string{abs, filepath.Join(abs, "logcat_types")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	return w, nil
}

// Match reports whether path is a watched dump.
func (w *Watcher) Match(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	if strings.HasPrefix(filepath.Base(rel), ".") {
		return false
	}
	for _, p := range w.patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// Start forwards debounced changes until ctx is cancelled. It closes Events
// on return.
func (w *Watcher) Start(ctx context.Context) {
	defer w.fsw.Close()
	defer close(w.Events)

	pending := make(map[string]struct{})
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !w.Match(ev.Name) {
				continue
			}
			pending[ev.Name] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			}
		case <-fire:
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			pending = make(map[string]struct{})
			timer, fire = nil, nil
			select {
			case w.Events <- Change{Paths: paths}:
			default:
				log.Debug().Strs("paths", paths).Msg("watch consumer busy; change dropped")
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("watcher error")
		}
	}
}
