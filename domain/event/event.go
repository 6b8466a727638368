// Package event defines the session events pushed to connected participants.
package event

import (
	"time"

	"github.com/Harshmalhotra78898/LiveInteract/domain"
)

// SessionEvent is anything fanned out to the connections bound to a session.
type SessionEvent interface {
	PIN() string
}

// SessionJoined is sent to the requester only, after a successful join.
type SessionJoined struct {
	Code             string
	ParticipantCount int
	Active           bool
	StartedAt        *time.Time
}

func (e SessionJoined) PIN() string { return e.Code }

// MessagesLoaded replays the session history to a joining participant.
type MessagesLoaded struct {
	Code     string
	Messages []domain.Message
}

func (e MessagesLoaded) PIN() string { return e.Code }

// SessionStarted is broadcast to both participants when the pair completes.
type SessionStarted struct {
	Code      string
	StartedAt time.Time
	Duration  time.Duration
}

func (e SessionStarted) PIN() string { return e.Code }

// NewMessage carries a relayed message, including back to its sender so
// clients render by identity comparison.
type NewMessage struct {
	Code    string
	Message domain.Message
}

func (e NewMessage) PIN() string { return e.Code }

// ParticipantLeft notifies the remaining participant after a leave/disconnect.
type ParticipantLeft struct {
	Code string
}

func (e ParticipantLeft) PIN() string { return e.Code }

// SessionExpired is broadcast when the countdown fires.
type SessionExpired struct {
	Code string
}

func (e SessionExpired) PIN() string { return e.Code }

// SessionError is sent to a single requester, never broadcast.
type SessionError struct {
	Code    string
	Message string
}

func (e SessionError) PIN() string { return e.Code }
