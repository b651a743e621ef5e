package live

import (
	"context"
	"sync/atomic"
	"time"
)

// Kind tags a queue message.
type Kind int

const (
	Update Kind = iota
	Categorize
	Error
	Status
)

func (k Kind) String() string {
	switch k {
	case Update:
		return "update"
	case Categorize:
		return "categorize"
	case Error:
		return "error"
	case Status:
		return "status"
	default:
		return "unknown"
	}
}

// Message is one unit of live-feed traffic. Bucket is set only for
// Categorize messages.
type Message struct {
	Kind   Kind
	Bucket string
	Text   string
	At     time.Time
}

// DefaultQueueCapacity bounds the queue when no capacity is configured.
const DefaultQueueCapacity = 4096

// Queue is a bounded FIFO between the relay and its consumer. Producers block
// when it is full; consumers never block.
type Queue struct {
	ch     chan Message
	stalls atomic.Int64
}

// NewQueue returns a queue holding at most capacity messages.
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	return &Queue{ch: make(chan Message, capacity)}
}

// Push enqueues m, waiting for space until ctx is done.
func (q *Queue) Push(ctx context.Context, m Message) error {
	if m.At.IsZero() {
		m.At = time.Now()
	}
	select {
	case q.ch <- m:
		return nil
	default:
	}
	q.stalls.Add(1)
	select {
	case q.ch <- m:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryPush enqueues m without waiting and reports whether it fit.
func (q *Queue) TryPush(m Message) bool {
	if m.At.IsZero() {
		m.At = time.Now()
	}
	select {
	case q.ch <- m:
		return true
	default:
		return false
	}
}

// TryPop dequeues one message if any is ready.
func (q *Queue) TryPop() (Message, bool) {
	select {
	case m := <-q.ch:
		return m, true
	default:
		return Message{}, false
	}
}

// Drain dequeues the messages queued at call time, at most max when max > 0.
func (q *Queue) Drain(max int) []Message {
	n := len(q.ch)
	if max > 0 && n > max {
		n = max
	}
	if n == 0 {
		return nil
	}
	out := make([]Message, 0, n)
	for i := 0; i < n; i++ {
		m, ok := q.TryPop()
		if !ok {
			break
		}
		out = append(out, m)
	}
	return out
}

// Len returns the number of queued messages.
func (q *Queue) Len() int { return len(q.ch) }

// Cap returns the queue bound.
func (q *Queue) Cap() int { return cap(q.ch) }

// Stalls counts pushes that found the queue full.
func (q *Queue) Stalls() int64 { return q.stalls.Load() }
