package evidence

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/five82/droidtrace/internal/logline"
)

// File names inside the logs directory.
const (
	LogcatFile   = "android_logcat.txt"
	CallsFile    = "call_logs.txt"
	SMSFile      = "sms_logs.txt"
	FilteredFile = "filtered_logs.txt"
	CategoryDir  = "logcat_types"
	ExportsDir   = "exports"
)

// Store owns the logs directory and serializes writers per path.
type Store struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewStore returns a store rooted at dir.
func NewStore(dir string) *Store {
	if strings.TrimSpace(dir) == "" {
		dir = "logs"
	}
	return &Store{dir: dir, locks: make(map[string]*sync.Mutex)}
}

// Dir returns the logs directory.
func (s *Store) Dir() string { return s.dir }

func (s *Store) Logcat() string      { return filepath.Join(s.dir, LogcatFile) }
func (s *Store) Calls() string       { return filepath.Join(s.dir, CallsFile) }
func (s *Store) SMS() string         { return filepath.Join(s.dir, SMSFile) }
func (s *Store) Filtered() string    { return filepath.Join(s.dir, FilteredFile) }
func (s *Store) CategoryDir() string { return filepath.Join(s.dir, CategoryDir) }
func (s *Store) ExportsDir() string  { return filepath.Join(s.dir, ExportsDir) }

// CategoryFile returns the per-bucket dump path, e.g. logcat_types/crash_logs.txt.
func (s *Store) CategoryFile(name string) string {
	slug := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
	return filepath.Join(s.CategoryDir(), slug+"_logs.txt")
}

// EnsureLayout creates the logs directory tree.
func (s *Store) EnsureLayout() error {
	for _, dir := range []string{s.dir, s.CategoryDir(), s.ExportsDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// Lock acquires the writer lock for path and returns its release func.
func (s *Store) Lock(path string) (unlock func()) {
	key := path
	if abs, err := filepath.Abs(path); err == nil {
		key = abs
	}
	s.mu.Lock()
	if s.locks == nil {
		s.locks = make(map[string]*sync.Mutex)
	}
	m, ok := s.locks[key]
	if !ok {
		m = &sync.Mutex{}
		s.locks[key] = m
	}
	s.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// WriteFile replaces path with whatever write produces. The new content is
// staged in a temp file and renamed into place under the path's writer lock.
func (s *Store) WriteFile(path string, write func(io.Writer) error) error {
	unlock := s.Lock(path)
	defer unlock()
	return writeAtomic(path, write)
}

func writeAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	bw := bufio.NewWriter(tmp)
	if err := write(bw); err != nil {
		tmp.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// WriteLines writes lines verbatim; callers own the terminators.
func (s *Store) WriteLines(path string, lines []string) error {
	return s.WriteFile(path, func(w io.Writer) error {
		for _, line := range lines {
			if _, err := io.WriteString(w, line); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
		}
		return nil
	})
}

// EnsureFile creates an empty file at path if none exists.
func (s *Store) EnsureFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	unlock := s.Lock(path)
	defer unlock()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	return f.Close()
}

// ReadLines returns every line of path with its terminator. Invalid UTF-8 is
// replaced. A missing file yields no lines and no error.
func ReadLines(path string) ([]string, error) {
	var lines []string
	err := EachLine(path, func(line string) error {
		lines = append(lines, line)
		return nil
	})
	return lines, err
}

// EachLine calls fn for each line of path, terminator included. A missing
// file is treated as empty.
func EachLine(path string, fn func(line string) error) error {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	r := bufio.NewReaderSize(file, 64*1024)
	for {
		b, err := r.ReadBytes('\n')
		if len(b) > 0 {
			if ferr := fn(logline.Decode(b)); ferr != nil {
				return ferr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
	}
}

// Exists reports whether path is present.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Save copies src to dst, replacing dst.
func (s *Store) Save(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()
	return s.WriteFile(dst, func(w io.Writer) error {
		if _, err := io.Copy(w, in); err != nil {
			return fmt.Errorf("copy %s: %w", src, err)
		}
		return nil
	})
}
