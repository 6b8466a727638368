// Package domain contains core concepts of the pairing system.
// This file defines Session attributes and lifecycle outcomes.
// No runtime, network, or UI logic should be added here.
package domain

import "time"

// SessionDuration is how long a session stays active once the second
// participant has joined. The countdown starts at activation, not at
// session creation.
const SessionDuration = time.Hour

// MaxParticipants caps a session to exactly one pair.
const MaxParticipants = 2

// Snapshot is a read-only view of a session, safe to hand to transports.
type Snapshot struct {
	PIN              string
	ParticipantCount int
	Active           bool
	StartedAt        *time.Time
}

// JoinResult reports the outcome of a join attempt.
// When ArmTimer is true the second participant just joined and the caller
// must arm the expiration countdown for this session.
type JoinResult struct {
	Full     bool
	ArmTimer bool
	Snapshot Snapshot
}

// LeaveResult reports the outcome of a leave or disconnect.
// Removed is false when the participant was already gone, which makes the
// operation a safe no-op for the leave/disconnect race.
type LeaveResult struct {
	Removed     bool
	Emptied     bool
	DisarmTimer bool
	Remaining   int
}
