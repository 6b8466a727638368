package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Harshmalhotra78898/LiveInteract/contract"
	"github.com/Harshmalhotra78898/LiveInteract/domain"
	"github.com/Harshmalhotra78898/LiveInteract/domain/event"
	"github.com/Harshmalhotra78898/LiveInteract/errors"
	"github.com/Harshmalhotra78898/LiveInteract/observability"
	"github.com/Harshmalhotra78898/LiveInteract/runtime"
)

//go:generate mockgen -source=session_service.go -destination=../mocks/mock_services.go -package=mocks
type ISessionService interface {
	Allocate() string
	Check(pin string) (domain.Snapshot, bool)
	IsMember(pin, participantID string) bool
	Join(ctx context.Context, pin, participantID string, sink contract.EventSink) bool
	Leave(ctx context.Context, pin, participantID string)
	Post(ctx context.Context, pin, participantID string, kind domain.MessageKind, content string)
	Stats() observability.RelayStats
}

// SessionService translates connection events into registry transitions and
// fans the resulting session events out to the bound connections. The registry
// reports timer effects (arm on activation, disarm on emptying) and the
// service applies them, so teardown stays idempotent whether a manual leave
// or the countdown fire gets there first.
type SessionService struct {
	log       *slog.Logger
	registry  *runtime.SessionRegistry
	conns     contract.IConnRegistry
	store     contract.IMessageStore
	scheduler contract.IScheduler
	monitor   *observability.Monitor
	duration  time.Duration
}

func NewSessionService(
	log *slog.Logger,
	registry *runtime.SessionRegistry,
	conns contract.IConnRegistry,
	store contract.IMessageStore,
	scheduler contract.IScheduler,
	monitor *observability.Monitor,
	duration time.Duration,
) *SessionService {
	return &SessionService{
		log:       log,
		registry:  registry,
		conns:     conns,
		store:     store,
		scheduler: scheduler,
		monitor:   monitor,
		duration:  duration,
	}
}

// Allocate hands out a fresh collision-free PIN and eagerly creates its
// empty session, so the code stays reserved until someone joins it.
func (s *SessionService) Allocate() string {
	pin := s.registry.Allocate(domain.GeneratePIN)
	s.monitor.SessionCreated()
	s.log.Info("session allocated", "pin", pin)
	return pin
}

// Check reports session existence and its participant/active state, mutating nothing.
func (s *SessionService) Check(pin string) (domain.Snapshot, bool) {
	return s.registry.Peek(pin)
}

// Join binds a connection to a session and reports whether it succeeded.
// A full session only tells the requester; a successful join acknowledges
// with the post-join snapshot, replays any history to the requester, and,
// when this join completed the pair, arms the countdown and broadcasts the
// start to both sides.
//
// The sink is bound before the registry mutation: the instant a join makes a
// participant visible to the registry, every broadcast can already reach it.
// A pair-completing join on the other connection therefore never races past
// an unbound member. A Full rejection unbinds again.
func (s *SessionService) Join(ctx context.Context, pin, participantID string, sink contract.EventSink) bool {
	s.conns.Subscribe(participantID, pin, sink)

	res := s.registry.Join(pin, participantID)
	if res.Full {
		s.conns.Unsubscribe(participantID, pin)
		s.monitor.JoinRejected()
		s.log.Debug("join rejected", "pin", pin, "error", errors.ErrSessionFull)
		s.consume(ctx, sink, event.SessionError{Code: pin, Message: "Session is full"})
		return false
	}

	s.consume(ctx, sink, event.SessionJoined{
		Code:             pin,
		ParticipantCount: res.Snapshot.ParticipantCount,
		Active:           res.Snapshot.Active,
		StartedAt:        res.Snapshot.StartedAt,
	})

	messages, err := s.store.LoadSession(pin)
	if err != nil {
		s.log.Error("history replay failed", "pin", pin, "error", err)
	}
	if len(messages) > 0 {
		s.consume(ctx, sink, event.MessagesLoaded{Code: pin, Messages: messages})
	}

	if res.ArmTimer {
		s.monitor.SessionActivated()
		s.scheduler.Arm(pin, s.duration, s.expire)
		s.broadcast(ctx, event.SessionStarted{
			Code:      pin,
			StartedAt: *res.Snapshot.StartedAt,
			Duration:  s.duration,
		})
		s.log.Info("session started", "pin", pin)
	}
	return true
}

// IsMember reports whether the participant is currently part of the session.
// Handlers use it to detect a binding gone stale underneath them, typically
// after an expiry tore the session down.
func (s *SessionService) IsMember(pin, participantID string) bool {
	return s.registry.Member(pin, participantID)
}

// Leave unbinds a participant. Explicit leave and transport disconnect both
// land here, so a client doing one then the other is only counted once.
func (s *SessionService) Leave(ctx context.Context, pin, participantID string) {
	res := s.registry.Leave(pin, participantID)
	s.conns.Unsubscribe(participantID, pin)

	if !res.Removed {
		return
	}

	if res.Emptied {
		if res.DisarmTimer {
			s.scheduler.Disarm(pin)
		}
		if err := s.store.DropSession(pin); err != nil {
			s.log.Error("history drop failed", "pin", pin, "error", err)
		}
		s.monitor.SessionEmptied()
		s.log.Info("session emptied", "pin", pin)
		return
	}

	s.broadcast(ctx, event.ParticipantLeft{Code: pin})
}

// Post relays a message to everyone bound to the session, sender included.
// Sends to an inactive or unknown session are dropped without a reply.
func (s *SessionService) Post(ctx context.Context, pin, participantID string, kind domain.MessageKind, content string) {
	msg, ok := s.registry.Append(pin, participantID, kind, content)
	if !ok {
		s.monitor.MessageDropped()
		s.log.Debug("message dropped", "pin", pin)
		return
	}

	if err := s.store.Store(pin, msg); err != nil {
		s.log.Error("message persist failed", "pin", pin, "error", err)
	}
	s.monitor.MessageRelayed()
	s.broadcast(ctx, event.NewMessage{Code: pin, Message: msg})
}

// Stats merges the monitor counters with the registry gauges.
func (s *SessionService) Stats() observability.RelayStats {
	sessions, participants := s.registry.Stats()
	return s.monitor.Snapshot(sessions, participants)
}

// expire is the countdown callback. The registry decides whether this fire
// still matters; a session already torn down by a leave makes it a no-op.
// Only the sinks of the participants the registry actually removed are
// notified and unbound: a fresh session recreated under the same code in the
// meantime keeps its own bindings untouched.
func (s *SessionService) expire(pin string) {
	participants, ok := s.registry.Expire(pin)
	if !ok {
		return
	}

	ctx := context.Background()
	for _, sink := range s.conns.Unbind(pin, participants) {
		s.consume(ctx, sink, event.SessionExpired{Code: pin})
	}
	if err := s.store.DropSession(pin); err != nil {
		s.log.Error("history drop failed", "pin", pin, "error", err)
	}
	s.monitor.SessionExpired()
	s.log.Info("session expired", "pin", pin)
}

func (s *SessionService) broadcast(ctx context.Context, e event.SessionEvent) {
	for _, sink := range s.conns.SinksFor(e.PIN()) {
		s.consume(ctx, sink, e)
	}
}

func (s *SessionService) consume(ctx context.Context, sink contract.EventSink, e event.SessionEvent) {
	if err := sink.Consume(ctx, e); err != nil {
		s.log.Warn(fmt.Sprintf("sink rejected event for session %s", e.PIN()), "error", err)
	}
}
