package live

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeProcess struct {
	stdout       io.Reader
	closeStdout  func()
	terminateErr error

	mu         sync.Mutex
	terminated bool
}

func (p *fakeProcess) Stdout() io.Reader { return p.stdout }

func (p *fakeProcess) Terminate() error {
	p.mu.Lock()
	p.terminated = true
	p.mu.Unlock()
	if p.closeStdout != nil {
		p.closeStdout()
	}
	return p.terminateErr
}

func (p *fakeProcess) Wait() error { return nil }

type fakeLauncher struct {
	proc *fakeProcess
	err  error
}

func (l *fakeLauncher) Launch(context.Context) (Process, error) {
	if l.err != nil {
		return nil, l.err
	}
	return l.proc, nil
}

func staticProcess(output string) *fakeProcess {
	return &fakeProcess{stdout: strings.NewReader(output)}
}

func blockingProcess() *fakeProcess {
	pr, pw := io.Pipe()
	return &fakeProcess{stdout: pr, closeStdout: func() { pw.Close() }}
}

func waitDone(t *testing.T, r *Relay) {
	t.Helper()
	select {
	case <-r.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("relay did not finish")
	}
}

func TestRelayStreamClosedEmitsUpdatesInOrder(t *testing.T) {
	q := NewQueue(16)
	r := &Relay{Launcher: &fakeLauncher{proc: staticProcess("A\nB\n")}, Queue: q}

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	waitDone(t, r)

	msgs := q.Drain(0)
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2: %+v", len(msgs), msgs)
	}
	for i, want := range []string{"A", "B"} {
		if msgs[i].Kind != Update || msgs[i].Text != want {
			t.Fatalf("msg[%d] = %v %q, want update %q", i, msgs[i].Kind, msgs[i].Text, want)
		}
	}
	if r.State() != Idle {
		t.Fatalf("State() = %v after stream closed, want idle", r.State())
	}
	if q.Len() != 0 {
		t.Fatalf("unexpected trailing messages")
	}
}

func TestRelayHookFailureContinues(t *testing.T) {
	q := NewQueue(16)
	var seen []string
	r := &Relay{
		Launcher: &fakeLauncher{proc: staticProcess("A\nB\nC")},
		Queue:    q,
		Hook: func(_ context.Context, line string) error {
			seen = append(seen, line)
			if line == "B" {
				return errors.New("bad line")
			}
			return nil
		},
	}
	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	waitDone(t, r)

	msgs := q.Drain(0)
	kinds := make([]Kind, len(msgs))
	for i, m := range msgs {
		kinds[i] = m.Kind
	}
	want := []Kind{Update, Update, Error, Update}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("kinds = %v, want %v", kinds, want)
		}
	}
	if msgs[3].Text != "C" {
		t.Fatalf("last update = %q, want unterminated line C", msgs[3].Text)
	}
	if len(seen) != 3 {
		t.Fatalf("hook saw %v", seen)
	}
}

func TestRelayStartTwice(t *testing.T) {
	proc := blockingProcess()
	r := &Relay{Launcher: &fakeLauncher{proc: proc}, Queue: NewQueue(4)}
	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := r.Start(context.Background()); !errors.Is(err, ErrRunning) {
		t.Fatalf("second Start() = %v, want ErrRunning", err)
	}
	if err := r.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	waitDone(t, r)
	if !proc.terminated {
		t.Fatalf("process not terminated")
	}
	if err := r.Stop(); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("Stop() on idle = %v, want ErrNotRunning", err)
	}
}

func TestRelayTerminateFailureIsReported(t *testing.T) {
	proc := blockingProcess()
	proc.terminateErr = errors.New("permission denied")
	q := NewQueue(4)
	r := &Relay{Launcher: &fakeLauncher{proc: proc}, Queue: q}
	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := r.Stop(); err == nil {
		t.Fatalf("Stop() expected error")
	}
	if r.State() != Idle {
		t.Fatalf("State() = %v, want idle", r.State())
	}
	m, ok := q.TryPop()
	if !ok || m.Kind != Error || !strings.Contains(m.Text, "permission denied") {
		t.Fatalf("queue = %+v, %v; want error message", m, ok)
	}
	waitDone(t, r)
}

func TestRelayLaunchFailure(t *testing.T) {
	r := &Relay{Launcher: &fakeLauncher{err: errors.New("adb not found")}, Queue: NewQueue(4)}
	if err := r.Start(context.Background()); err == nil {
		t.Fatalf("Start() expected error")
	}
	if r.State() != Idle {
		t.Fatalf("State() = %v, want idle", r.State())
	}
}

func TestRelayRestartAfterStop(t *testing.T) {
	launcher := &fakeLauncher{proc: blockingProcess()}
	r := &Relay{Launcher: launcher, Queue: NewQueue(4)}
	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := r.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	launcher.proc = staticProcess("again\n")
	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("restart error = %v", err)
	}
	waitDone(t, r)
	m, ok := r.Queue.TryPop()
	if !ok || m.Text != "again" {
		t.Fatalf("TryPop() = %+v, %v", m, ok)
	}
}
