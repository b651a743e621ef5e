package live

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Categorizer assigns a line to a bucket.
type Categorizer interface {
	Line(line string) (string, bool)
}

// Options configure a Session.
type Options struct {
	QueueCapacity int
	ReadPause     time.Duration // zero uses DefaultReadPause; negative disables the pause
	Categorizer   Categorizer   // nil disables live categorization
}

// Session owns one live feed: its queue, relay and identity. The
// orchestrating layer holds the session and hands it to the consumer.
type Session struct {
	ID    string
	Queue *Queue
	Relay *Relay

	categorizer Categorizer
}

// NewSession wires a relay over launcher.
func NewSession(launcher Launcher, opts Options) *Session {
	pause := opts.ReadPause
	switch {
	case pause == 0:
		pause = DefaultReadPause
	case pause < 0:
		pause = 0
	}
	s := &Session{
		ID:          uuid.NewString(),
		Queue:       NewQueue(opts.QueueCapacity),
		categorizer: opts.Categorizer,
	}
	s.Relay = &Relay{
		Launcher:  launcher,
		Queue:     s.Queue,
		ReadPause: pause,
	}
	if s.categorizer != nil {
		s.Relay.Hook = s.categorize
	}
	return s
}

func (s *Session) categorize(ctx context.Context, line string) error {
	bucket, ok := s.categorizer.Line(line)
	if !ok {
		return nil
	}
	return s.Queue.Push(ctx, Message{Kind: Categorize, Bucket: bucket, Text: line})
}

// Running reports whether the relay is active.
func (s *Session) Running() bool {
	return s.Relay.State() == Running
}

// Start begins monitoring and posts a status message.
func (s *Session) Start(ctx context.Context) error {
	if err := s.Relay.Start(ctx); err != nil {
		if !errors.Is(err, ErrRunning) {
			s.Queue.TryPush(Message{Kind: Error, Text: fmt.Sprintf("Failed to start monitoring: %v", err)})
		}
		return err
	}
	log.Info().Str("session", s.ID).Msg("live monitoring started")
	s.Queue.TryPush(Message{Kind: Status, Text: "Live monitoring started"})
	return nil
}

// Stop ends monitoring and posts a status message.
func (s *Session) Stop() error {
	err := s.Relay.Stop()
	if errors.Is(err, ErrNotRunning) {
		return err
	}
	log.Info().Str("session", s.ID).Msg("live monitoring stopped")
	s.Queue.TryPush(Message{Kind: Status, Text: "Live monitoring stopped"})
	return err
}

// Toggle starts an idle session or stops a running one.
func (s *Session) Toggle(ctx context.Context) error {
	if s.Running() {
		return s.Stop()
	}
	return s.Start(ctx)
}

// Poll drains everything queued right now and dispatches each message to fn
// in FIFO order. It never blocks and returns the number dispatched.
func (s *Session) Poll(fn func(Message)) int {
	msgs := s.Queue.Drain(0)
	for _, m := range msgs {
		fn(m)
	}
	return len(msgs)
}
