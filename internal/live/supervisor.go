package live

import (
	"sync"
	"time"
)

// DefaultRetryDelay is how long a channel waits after a connection loss
// before re-establishing the same subscription.
const DefaultRetryDelay = 2 * time.Second

// Supervisor schedules at most one pending re-subscribe at a time. Each
// connection loss arms a single timer; arming while a retry is already
// pending is a no-op, and Cancel discards the pending retry without firing.
// Retries are unbounded in count with a fixed delay.
type Supervisor struct {
	mu    sync.Mutex
	delay time.Duration
	fire  func()
	timer *time.Timer
	gen   uint64
	armed bool
}

func NewSupervisor(delay time.Duration, fire func()) *Supervisor {
	if delay <= 0 {
		delay = DefaultRetryDelay
	}
	return &Supervisor{delay: delay, fire: fire}
}

// Arm schedules the retry unless one is already pending. It reports
// whether a new retry was scheduled.
func (s *Supervisor) Arm() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.armed {
		return false
	}
	s.armed = true
	s.gen++
	gen := s.gen
	s.timer = time.AfterFunc(s.delay, func() {
		s.fireIfCurrent(gen)
	})
	return true
}

// Cancel discards any pending retry. Subscribing to a new target or
// deliberately unsubscribing must cancel so a stale retry cannot
// resurrect a closed subscription.
func (s *Supervisor) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.armed = false
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Armed reports whether a retry is currently pending.
func (s *Supervisor) Armed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.armed
}

func (s *Supervisor) fireIfCurrent(gen uint64) {
	s.mu.Lock()
	// The generation check keeps a timer that raced Cancel from firing
	// on behalf of a newer Arm.
	if !s.armed || gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.armed = false
	s.timer = nil
	fire := s.fire
	s.mu.Unlock()
	if fire != nil {
		fire()
	}
}
