package evidence

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"github.com/five82/droidtrace/internal/logline"
)

// Tail returns at most n lines from the end of path, without terminators.
// n <= 0 returns every line. A missing file yields nil.
func Tail(path string, n int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if n <= 0 {
		var all []string
		for scanner.Scan() {
			all = append(all, logline.Decode(scanner.Bytes()))
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return all, nil
	}

	ring := make([]string, n)
	count, idx := 0, 0
	for scanner.Scan() {
		ring[idx] = logline.Decode(scanner.Bytes())
		idx = (idx + 1) % n
		if count < n {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	lines := make([]string, count)
	if count == n {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%n]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// CountLines returns the number of lines in path; zero if it is missing.
func CountLines(path string) (int, error) {
	count := 0
	err := EachLine(path, func(string) error {
		count++
		return nil
	})
	return count, err
}
