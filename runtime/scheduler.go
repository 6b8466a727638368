package runtime

import (
	"log/slog"
	"sync"
	"time"
)

// ExpirationScheduler holds at most one pending countdown per session code.
// Arming a code that already has a timer replaces it; disarming an unarmed
// or already-fired code is a no-op. A timer that is mid-fire when Disarm is
// called may still run its callback; tolerated, because expiry is idempotent
// on the registry side.
type ExpirationScheduler struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
	log    *slog.Logger
}

func NewExpirationScheduler(log *slog.Logger) *ExpirationScheduler {
	return &ExpirationScheduler{timers: make(map[string]*time.Timer), log: log}
}

// Arm schedules onFire(pin) after d, replacing any pending timer for pin.
// Firing is fire-and-forget: the callback owns its side effects and the
// scheduler never retries.
func (s *ExpirationScheduler) Arm(pin string, d time.Duration, onFire func(pin string)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[pin]; ok {
		t.Stop()
		s.log.Warn("replacing armed countdown", "pin", pin)
	}
	s.timers[pin] = time.AfterFunc(d, func() {
		s.mu.Lock()
		delete(s.timers, pin)
		s.mu.Unlock()
		onFire(pin)
	})
	s.log.Debug("countdown armed", "pin", pin, "duration", d)
}

// Disarm cancels the pending timer for pin if it has not fired yet.
func (s *ExpirationScheduler) Disarm(pin string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[pin]; ok {
		t.Stop()
		delete(s.timers, pin)
		s.log.Debug("countdown disarmed", "pin", pin)
	}
}

// Armed reports whether a countdown is pending for pin.
func (s *ExpirationScheduler) Armed(pin string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.timers[pin]
	return ok
}
