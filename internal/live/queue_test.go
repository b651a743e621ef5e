package live

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestQueueFIFOAndDrain(t *testing.T) {
	q := NewQueue(8)
	for _, s := range []string{"1", "2", "3"} {
		if err := q.Push(context.Background(), Message{Kind: Update, Text: s}); err != nil {
			t.Fatalf("Push() error = %v", err)
		}
	}
	got := q.Drain(2)
	if len(got) != 2 || got[0].Text != "1" || got[1].Text != "2" {
		t.Fatalf("Drain(2) = %+v", got)
	}
	got = q.Drain(0)
	if len(got) != 1 || got[0].Text != "3" {
		t.Fatalf("Drain(0) = %+v", got)
	}
	if got := q.Drain(0); got != nil {
		t.Fatalf("Drain on empty = %+v, want nil", got)
	}
	if _, ok := q.TryPop(); ok {
		t.Fatalf("TryPop on empty returned a message")
	}
}

func TestQueuePushBlocksWhenFull(t *testing.T) {
	q := NewQueue(1)
	if !q.TryPush(Message{Text: "first"}) {
		t.Fatalf("TryPush() into empty queue failed")
	}
	if q.TryPush(Message{Text: "second"}) {
		t.Fatalf("TryPush() into full queue succeeded")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := q.Push(ctx, Message{Text: "blocked"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Push() = %v, want deadline exceeded", err)
	}
	if q.Stalls() != 1 {
		t.Fatalf("Stalls() = %d, want 1", q.Stalls())
	}

	done := make(chan error, 1)
	go func() { done <- q.Push(context.Background(), Message{Text: "later"}) }()
	time.Sleep(10 * time.Millisecond)
	if m, ok := q.TryPop(); !ok || m.Text != "first" {
		t.Fatalf("TryPop() = %+v", m)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Push() error = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("producer not released")
	}
}

func TestQueueDefaultCapacity(t *testing.T) {
	if got := NewQueue(0).Cap(); got != DefaultQueueCapacity {
		t.Fatalf("Cap() = %d, want %d", got, DefaultQueueCapacity)
	}
}

func TestBacklogTrimsOldest(t *testing.T) {
	b := NewBacklog(3)
	b.Append("a", "b")
	b.Append("c", "d", "e")
	got := b.Lines()
	if len(got) != 3 || got[0] != "c" || got[2] != "e" {
		t.Fatalf("Lines() = %v", got)
	}
	if b.Dropped() != 2 {
		t.Fatalf("Dropped() = %d, want 2", b.Dropped())
	}
	v := b.Version()
	b.Append()
	if b.Version() != v {
		t.Fatalf("empty Append changed version")
	}
	b.Reset()
	if b.Len() != 0 {
		t.Fatalf("Reset() left %d lines", b.Len())
	}
}
