// Package runtime owns the live session state and its lifecycle transitions.
// It orchestrates the system without containing transport or UI logic.
package runtime

import (
	"sync"
	"time"

	"github.com/Harshmalhotra78898/LiveInteract/domain"
)

// session is the registry's private record for one PIN.
// participants keeps join order; startedAt is stamped exactly once, when the
// second participant joins, and never changes afterwards.
type session struct {
	pin          string
	participants []string
	active       bool
	startedAt    *time.Time
}

// SessionRegistry is the single source of truth mutated by every join, leave,
// send, and expire event. All operations take the registry lock, which makes
// them linearizable per PIN (and across PINs, which is stronger than needed
// but keeps the store simple: every operation is an O(1) map mutation).
//
// Timer arming and disarming are reported as explicit effects in the returned
// results instead of being called from inside the mutators, so the scheduler
// stays substitutable and testable on its own.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*session
	msgSeq   uint64
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]*session)}
}

// Ensure returns the session for pin, creating an empty inactive one if absent.
func (r *SessionRegistry) Ensure(pin string) domain.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return snapshot(r.ensure(pin))
}

func (r *SessionRegistry) ensure(pin string) *session {
	s, ok := r.sessions[pin]
	if !ok {
		s = &session{pin: pin}
		r.sessions[pin] = s
	}
	return s
}

// Allocate draws codes from gen until one is free, then eagerly creates the
// empty session for it. The check-and-create runs under the registry lock, so
// concurrent allocations can never hand out the same PIN twice.
func (r *SessionRegistry) Allocate(gen func() string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	for {
		pin := gen()
		if _, taken := r.sessions[pin]; taken {
			continue
		}
		r.sessions[pin] = &session{pin: pin}
		return pin
	}
}

// Join adds a participant to the session for pin, creating it when unknown.
// A session already holding two participants rejects the attempt with Full
// and no mutation. The join that completes the pair activates the session,
// stamps the activation time, and asks the caller to arm the countdown.
func (r *SessionRegistry) Join(pin, participantID string) domain.JoinResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.ensure(pin)
	if len(s.participants) >= domain.MaxParticipants {
		return domain.JoinResult{Full: true, Snapshot: snapshot(s)}
	}

	s.participants = append(s.participants, participantID)

	// Activation happens once per session: refilling an active pair after a
	// leave keeps the original countdown running.
	armed := false
	if len(s.participants) == domain.MaxParticipants && !s.active {
		now := time.Now().UTC()
		s.active = true
		s.startedAt = &now
		armed = true
	}
	return domain.JoinResult{ArmTimer: armed, Snapshot: snapshot(s)}
}

// Leave removes a participant. Removing the last one deletes the session
// (an empty session is never retained) and asks the caller to disarm its
// timer. Leaving an unknown session, or leaving twice, is a no-op: Removed
// stays false so the caller knows not to notify anyone again.
func (r *SessionRegistry) Leave(pin, participantID string) domain.LeaveResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[pin]
	if !ok {
		return domain.LeaveResult{}
	}

	kept := s.participants[:0]
	removed := false
	for _, p := range s.participants {
		if p == participantID {
			removed = true
			continue
		}
		kept = append(kept, p)
	}
	if !removed {
		return domain.LeaveResult{Remaining: len(s.participants)}
	}
	s.participants = kept

	if len(s.participants) == 0 {
		s.active = false
		delete(r.sessions, pin)
		return domain.LeaveResult{Removed: true, Emptied: true, DisarmTimer: true}
	}
	return domain.LeaveResult{Removed: true, Remaining: len(s.participants)}
}

// Append stamps a new message for an existing, active session. Sends to an
// inactive or unknown session are rejected without mutation; the caller drops
// them silently. Persistence of the returned message belongs to the store.
func (r *SessionRegistry) Append(pin, senderID string, kind domain.MessageKind, content string) (domain.Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[pin]
	if !ok || !s.active {
		return domain.Message{}, false
	}

	r.msgSeq++
	return domain.Message{
		ID:        r.msgSeq,
		Kind:      kind,
		Content:   content,
		SenderID:  senderID,
		CreatedAt: time.Now().UTC(),
	}, true
}

// Expire marks the session inactive and deletes it, returning the IDs of the
// participants it removed so the caller can notify and unbind exactly those
// connections and no others (a session recreated under the same code right
// after the deletion must not be touched by this teardown). The bool reports
// whether this call actually removed a live entry, so the teardown broadcast
// happens exactly once when a timer fire races a manual leave: whichever
// takes the lock first wins, the loser no-ops.
func (r *SessionRegistry) Expire(pin string) ([]string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[pin]
	if !ok {
		return nil, false
	}
	s.active = false
	delete(r.sessions, pin)
	return s.participants, true
}

// Member reports whether the participant is currently bound to the session.
func (r *SessionRegistry) Member(pin, participantID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[pin]
	if !ok {
		return false
	}
	for _, p := range s.participants {
		if p == participantID {
			return true
		}
	}
	return false
}

// Peek returns the session snapshot without mutating anything.
func (r *SessionRegistry) Peek(pin string) (domain.Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[pin]
	if !ok {
		return domain.Snapshot{}, false
	}
	return snapshot(s), true
}

// Stats returns the live session and participant gauges.
func (r *SessionRegistry) Stats() (sessions, participants int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.sessions {
		participants += len(s.participants)
	}
	return len(r.sessions), participants
}

func snapshot(s *session) domain.Snapshot {
	return domain.Snapshot{
		PIN:              s.pin,
		ParticipantCount: len(s.participants),
		Active:           s.active,
		StartedAt:        s.startedAt,
	}
}
