package runtime

import (
	"sync"

	"github.com/Harshmalhotra78898/LiveInteract/contract"
)

type Set map[string]struct{}

// ConnRegistry tracks which live connection sinks are bound to which session.
// It is the fan-out surface: broadcasts resolve the member set for a PIN and
// push to each member's sink, never to the whole server.
type ConnRegistry struct {
	mu      sync.RWMutex
	sinks   map[string]contract.EventSink // participant -> sink
	members map[string]Set                // pin -> participants
}

func NewConnRegistry() *ConnRegistry {
	return &ConnRegistry{
		sinks:   make(map[string]contract.EventSink),
		members: make(map[string]Set),
	}
}

// SinksFor retrieves all active outbound channels bound to a session.
// It performs a two-step lookup:
// 1. Identifies participant IDs associated with the PIN via members.
// 2. Resolves those IDs into actual EventSinks using the sinks map.
// Returns nil when the session has no bound connections. The result is
// bounded by the two-party cap, so fan-out stays O(1) per broadcast.
func (r *ConnRegistry) SinksFor(pin string) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	group, ok := r.members[pin]
	if !ok {
		return nil
	}
	var active []contract.EventSink
	for participantID := range group {
		if sink, exists := r.sinks[participantID]; exists {
			active = append(active, sink)
		}
	}
	return active
}

// Subscribe registers a participant's connection sink and binds it to a PIN.
// If the PIN has no member set yet, it is initialized on the fly.
func (r *ConnRegistry) Subscribe(participantID, pin string, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sinks[participantID] = sink

	if _, ok := r.members[pin]; !ok {
		r.members[pin] = make(Set)
	}
	r.members[pin][participantID] = struct{}{}
}

// Unsubscribe removes a participant's binding. It cleans up the sink and
// ensures no empty sets are left in the member map to prevent leaks over time.
func (r *ConnRegistry) Unsubscribe(participantID, pin string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sinks, participantID)

	if group, ok := r.members[pin]; ok {
		delete(group, participantID)

		if len(group) == 0 {
			delete(r.members, pin)
		}
	}
}

// Unbind removes exactly the given participants from a session's fan-out set
// and returns their sinks, so the caller can deliver one last notification.
// Participants bound to the PIN but not listed (a fresh session recreated
// under the same code while its predecessor is being torn down) are untouched.
// The connections themselves stay open; each one unbinds its own state when
// its leave or disconnect event arrives.
func (r *ConnRegistry) Unbind(pin string, participantIDs []string) []contract.EventSink {
	r.mu.Lock()
	defer r.mu.Unlock()

	group, ok := r.members[pin]
	if !ok {
		return nil
	}

	var removed []contract.EventSink
	for _, participantID := range participantIDs {
		if _, member := group[participantID]; !member {
			continue
		}
		if sink, exists := r.sinks[participantID]; exists {
			removed = append(removed, sink)
		}
		delete(r.sinks, participantID)
		delete(group, participantID)
	}
	if len(group) == 0 {
		delete(r.members, pin)
	}
	return removed
}
