package live

// DefaultBacklogLines bounds the display buffer when no limit is configured.
const DefaultBacklogLines = 1000

// Backlog is the consumer-side display buffer. It keeps at most Limit lines
// and drops the oldest on overflow.
type Backlog struct {
	limit   int
	lines   []string
	version uint64
	dropped int
}

// NewBacklog returns a backlog bounded to limit lines.
func NewBacklog(limit int) *Backlog {
	if limit <= 0 {
		limit = DefaultBacklogLines
	}
	return &Backlog{limit: limit}
}

// Append adds lines and trims the buffer to its limit.
func (b *Backlog) Append(lines ...string) {
	if len(lines) == 0 {
		return
	}
	b.lines = append(b.lines, lines...)
	if over := len(b.lines) - b.limit; over > 0 {
		b.dropped += over
		trimmed := make([]string, b.limit)
		copy(trimmed, b.lines[over:])
		b.lines = trimmed
	}
	b.version++
}

// Lines returns the buffered lines, oldest first. Callers must not modify
// the result.
func (b *Backlog) Lines() []string { return b.lines }

// Len returns the number of buffered lines.
func (b *Backlog) Len() int { return len(b.lines) }

// Limit returns the configured bound.
func (b *Backlog) Limit() int { return b.limit }

// Dropped counts lines discarded by trimming.
func (b *Backlog) Dropped() int { return b.dropped }

// Version changes whenever the content changes.
func (b *Backlog) Version() uint64 { return b.version }

// Reset empties the buffer.
func (b *Backlog) Reset() {
	b.lines = nil
	b.dropped = 0
	b.version++
}
