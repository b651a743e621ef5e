package live

import (
	"context"
	"strings"
	"testing"
)

type keywordCategorizer struct{}

func (keywordCategorizer) Line(line string) (string, bool) {
	if strings.Contains(strings.ToLower(line), "wifi") {
		return "Network", true
	}
	return "", false
}

func TestSessionPollDispatchesByKind(t *testing.T) {
	s := NewSession(&fakeLauncher{proc: staticProcess("wifi on\nplain\n")}, Options{
		QueueCapacity: 16,
		ReadPause:     -1,
		Categorizer:   keywordCategorizer{},
	})
	if s.ID == "" {
		t.Fatalf("session has no ID")
	}
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	waitDone(t, s.Relay)

	var updates, statuses []string
	var categorized []Message
	n := s.Poll(func(m Message) {
		switch m.Kind {
		case Update:
			updates = append(updates, m.Text)
		case Categorize:
			categorized = append(categorized, m)
		case Status:
			statuses = append(statuses, m.Text)
		}
	})
	if n != 4 {
		t.Fatalf("Poll() = %d, want 4", n)
	}
	if len(updates) != 2 || updates[0] != "wifi on" || updates[1] != "plain" {
		t.Fatalf("updates = %v", updates)
	}
	if len(categorized) != 1 || categorized[0].Bucket != "Network" || categorized[0].Text != "wifi on" {
		t.Fatalf("categorized = %+v", categorized)
	}
	if len(statuses) != 1 || statuses[0] != "Live monitoring started" {
		t.Fatalf("statuses = %v", statuses)
	}
	if s.Poll(func(Message) { t.Fatalf("unexpected message") }) != 0 {
		t.Fatalf("Poll() on empty queue dispatched messages")
	}
}

func TestSessionToggle(t *testing.T) {
	s := NewSession(&fakeLauncher{proc: blockingProcess()}, Options{ReadPause: -1})
	if err := s.Toggle(context.Background()); err != nil {
		t.Fatalf("Toggle() start error = %v", err)
	}
	if !s.Running() {
		t.Fatalf("Running() = false after start")
	}
	if err := s.Toggle(context.Background()); err != nil {
		t.Fatalf("Toggle() stop error = %v", err)
	}
	if s.Running() {
		t.Fatalf("Running() = true after stop")
	}
	waitDone(t, s.Relay)
}
