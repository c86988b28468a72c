package live

import (
	"sync"
	"testing"
	"time"
)

type fireCounter struct {
	mu sync.Mutex
	n  int
}

func (c *fireCounter) incr() {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
}

func (c *fireCounter) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

func waitFor(t *testing.T, cond func() bool, what string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestSupervisorSchedulesExactlyOneRetry(t *testing.T) {
	var fired fireCounter
	s := NewSupervisor(30*time.Millisecond, fired.incr)

	if !s.Arm() {
		t.Fatalf("first arm should schedule")
	}
	if s.Arm() {
		t.Fatalf("second arm while pending should not schedule another retry")
	}
	if !s.Armed() {
		t.Fatalf("expected pending retry")
	}

	waitFor(t, func() bool { return fired.count() == 1 }, "retry to fire")
	time.Sleep(80 * time.Millisecond)
	if got := fired.count(); got != 1 {
		t.Fatalf("fired %d times, want 1", got)
	}
	if s.Armed() {
		t.Fatalf("supervisor should disarm after firing")
	}

	if !s.Arm() {
		t.Fatalf("re-arm after fire should schedule")
	}
	waitFor(t, func() bool { return fired.count() == 2 }, "second retry to fire")
}

func TestSupervisorCancelDiscardsPendingRetry(t *testing.T) {
	var fired fireCounter
	s := NewSupervisor(20*time.Millisecond, fired.incr)

	s.Arm()
	s.Cancel()
	if s.Armed() {
		t.Fatalf("cancel should disarm")
	}
	time.Sleep(80 * time.Millisecond)
	if got := fired.count(); got != 0 {
		t.Fatalf("cancelled retry fired %d times", got)
	}
}

func TestSupervisorCancelThenRearm(t *testing.T) {
	var fired fireCounter
	s := NewSupervisor(20*time.Millisecond, fired.incr)

	// The timer from the first arm must not fire on behalf of the second.
	s.Arm()
	s.Cancel()
	s.Arm()
	waitFor(t, func() bool { return fired.count() == 1 }, "retry to fire once")
	time.Sleep(80 * time.Millisecond)
	if got := fired.count(); got != 1 {
		t.Fatalf("fired %d times, want 1", got)
	}
}
