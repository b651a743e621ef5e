package live

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	// ErrRunning is returned by Start when the relay is already running.
	ErrRunning = errors.New("live feed already running")
	// ErrNotRunning is returned by Stop when the relay is idle.
	ErrNotRunning = errors.New("live feed not running")
)

// DefaultReadPause is the yield between successive reads.
const DefaultReadPause = 10 * time.Millisecond

// Process is a running monitoring command.
type Process interface {
	Stdout() io.Reader
	Terminate() error
	Wait() error
}

// Launcher starts the monitoring command.
type Launcher interface {
	Launch(ctx context.Context) (Process, error)
}

// State is the relay lifecycle state.
type State int

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// Relay reads a process's output line by line on a background goroutine and
// pushes each line onto Queue as an Update message. Hook, when set, runs
// after each push; its errors become Error messages and reading continues.
type Relay struct {
	Launcher  Launcher
	Queue     *Queue
	Hook      func(ctx context.Context, line string) error
	ReadPause time.Duration

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	proc   Process
	done   chan struct{}
}

// State returns the current lifecycle state.
func (r *Relay) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Done returns a channel closed when the current worker exits. It is nil if
// the relay never started.
func (r *Relay) Done() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.done
}

// Start launches the process and the reader goroutine.
func (r *Relay) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == Running {
		return ErrRunning
	}
	if r.Launcher == nil || r.Queue == nil {
		return errors.New("live feed not configured")
	}

	runCtx, cancel := context.WithCancel(ctx)
	proc, err := r.Launcher.Launch(runCtx)
	if err != nil {
		cancel()
		return fmt.Errorf("launch monitor: %w", err)
	}

	done := make(chan struct{})
	r.state = Running
	r.cancel = cancel
	r.proc = proc
	r.done = done

	go r.run(runCtx, cancel, proc, done)
	return nil
}

// Stop asks the process to terminate. A termination failure is reported on
// the queue and returned; the relay is Idle either way.
func (r *Relay) Stop() error {
	r.mu.Lock()
	if r.state != Running {
		r.mu.Unlock()
		return ErrNotRunning
	}
	cancel, proc := r.cancel, r.proc
	r.state = Idle
	r.cancel = nil
	r.proc = nil
	r.mu.Unlock()

	cancel()
	if err := proc.Terminate(); err != nil {
		err = fmt.Errorf("terminate monitor: %w", err)
		log.Warn().Err(err).Msg("live feed stop")
		r.Queue.TryPush(Message{Kind: Error, Text: err.Error()})
		return err
	}
	return nil
}

func (r *Relay) run(ctx context.Context, cancel context.CancelFunc, proc Process, done chan struct{}) {
	defer func() {
		cancel()
		if err := proc.Wait(); err != nil {
			log.Debug().Err(err).Msg("monitor exited")
		}
		r.mu.Lock()
		if r.done == done {
			r.state = Idle
			r.cancel = nil
			r.proc = nil
		}
		r.mu.Unlock()
		close(done)
	}()

	pause := r.ReadPause
	reader := bufio.NewReaderSize(proc.Stdout(), 64*1024)
	for {
		raw, err := reader.ReadString('\n')
		if len(raw) > 0 && ctx.Err() == nil {
			r.handle(ctx, strings.TrimRight(raw, "\r\n"))
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && ctx.Err() == nil {
				log.Warn().Err(err).Msg("monitor stream read failed")
			}
			return
		}
		if ctx.Err() != nil {
			return
		}
		if pause > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(pause):
			}
		}
	}
}

func (r *Relay) handle(ctx context.Context, line string) {
	if err := r.Queue.Push(ctx, Message{Kind: Update, Text: line}); err != nil {
		return
	}
	if r.Hook == nil {
		return
	}
	if err := r.Hook(ctx, line); err != nil {
		log.Warn().Err(err).Str("line", line).Msg("live line handler failed")
		_ = r.Queue.Push(ctx, Message{Kind: Error, Text: fmt.Sprintf("error processing line: %v", err)})
	}
}
