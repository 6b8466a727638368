package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Harshmalhotra78898/LiveInteract/contract"
	"github.com/Harshmalhotra78898/LiveInteract/domain"
	"github.com/Harshmalhotra78898/LiveInteract/domain/event"
	"github.com/Harshmalhotra78898/LiveInteract/mocks"
	"github.com/Harshmalhotra78898/LiveInteract/observability"
	"github.com/Harshmalhotra78898/LiveInteract/runtime"

	"log/slog"
)

// recordSink captures everything pushed to one participant.
type recordSink struct {
	mu     sync.Mutex
	events []event.SessionEvent
}

func (s *recordSink) Consume(_ context.Context, e event.SessionEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *recordSink) all() []event.SessionEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]event.SessionEvent(nil), s.events...)
}

func (s *recordSink) count(match func(event.SessionEvent) bool) int {
	n := 0
	for _, e := range s.all() {
		if match(e) {
			n++
		}
	}
	return n
}

func isExpired(e event.SessionEvent) bool {
	_, ok := e.(event.SessionExpired)
	return ok
}

func isLeft(e event.SessionEvent) bool {
	_, ok := e.(event.ParticipantLeft)
	return ok
}

// hookedConns wraps the real connection registry so tests can observe or
// perturb the binding order. Hooks run before the delegated call, outside
// the registry lock.
type hookedConns struct {
	inner       *runtime.ConnRegistry
	onSubscribe func(participantID, pin string)
	onUnbind    func(pin string)
}

func (h *hookedConns) Subscribe(participantID, pin string, sink contract.EventSink) {
	if h.onSubscribe != nil {
		h.onSubscribe(participantID, pin)
	}
	h.inner.Subscribe(participantID, pin, sink)
}

func (h *hookedConns) Unsubscribe(participantID, pin string) {
	h.inner.Unsubscribe(participantID, pin)
}

func (h *hookedConns) Unbind(pin string, participantIDs []string) []contract.EventSink {
	if h.onUnbind != nil {
		h.onUnbind(pin)
	}
	return h.inner.Unbind(pin, participantIDs)
}

func (h *hookedConns) SinksFor(pin string) []contract.EventSink {
	return h.inner.SinksFor(pin)
}

type fixture struct {
	service   *SessionService
	scheduler *mocks.MockIScheduler
	store     *mocks.MockIMessageStore
	registry  *runtime.SessionRegistry
	conns     contract.IConnRegistry
}

func newFixture(t *testing.T) fixture {
	return newFixtureWithConns(t, &hookedConns{inner: runtime.NewConnRegistry()})
}

func newFixtureWithConns(t *testing.T, conns contract.IConnRegistry) fixture {
	ctrl := gomock.NewController(t)
	scheduler := mocks.NewMockIScheduler(ctrl)
	store := mocks.NewMockIMessageStore(ctrl)
	registry := runtime.NewSessionRegistry()

	service := NewSessionService(
		slog.Default(),
		registry,
		conns,
		store,
		scheduler,
		observability.NewMonitor(),
		domain.SessionDuration,
	)
	return fixture{service: service, scheduler: scheduler, store: store, registry: registry, conns: conns}
}

func TestSessionService_Join_FirstParticipantGetsInactiveSnapshot(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	ctx := context.Background()
	sink := &recordSink{}

	f.store.EXPECT().LoadSession("123456").Return(nil, nil).Times(1)

	// When the first participant joins
	req.True(f.service.Join(ctx, "123456", "alice", sink))

	// Then only a joined acknowledgment was pushed, no replay, no start
	events := sink.all()
	req.Len(events, 1)
	joined, ok := events[0].(event.SessionJoined)
	req.True(ok)
	req.Equal(1, joined.ParticipantCount)
	req.False(joined.Active)
	req.Nil(joined.StartedAt)
}

func TestSessionService_Join_PairCompletionArmsAndBroadcastsStart(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	ctx := context.Background()
	sinkA := &recordSink{}
	sinkB := &recordSink{}

	f.store.EXPECT().LoadSession("123456").Return(nil, nil).Times(2)
	f.scheduler.EXPECT().Arm("123456", domain.SessionDuration, gomock.Any()).Times(1)

	f.service.Join(ctx, "123456", "alice", sinkA)

	// When the pair completes
	req.True(f.service.Join(ctx, "123456", "bob", sinkB))

	// Then both sides observe the start with the fixed duration
	var started event.SessionStarted
	found := false
	for _, e := range sinkA.all() {
		if s, ok := e.(event.SessionStarted); ok {
			started = s
			found = true
		}
	}
	req.True(found, "alice never saw sessionStarted")
	req.Equal(time.Hour, started.Duration)

	req.Equal(1, sinkB.count(func(e event.SessionEvent) bool {
		_, ok := e.(event.SessionStarted)
		return ok
	}))

	// And bob's acknowledgment carries the active snapshot
	joined, ok := sinkB.all()[0].(event.SessionJoined)
	req.True(ok)
	req.True(joined.Active)
	req.Equal(2, joined.ParticipantCount)
	req.NotNil(joined.StartedAt)
}

func TestSessionService_Join_ThirdParticipantOnlyGetsError(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	ctx := context.Background()
	sinkA, sinkB, sinkEve := &recordSink{}, &recordSink{}, &recordSink{}

	f.store.EXPECT().LoadSession("123456").Return(nil, nil).Times(2)
	f.scheduler.EXPECT().Arm("123456", gomock.Any(), gomock.Any()).Times(1)

	f.service.Join(ctx, "123456", "alice", sinkA)
	f.service.Join(ctx, "123456", "bob", sinkB)
	before := len(sinkA.all()) + len(sinkB.all())

	// When a third participant tries to join
	req.False(f.service.Join(ctx, "123456", "eve", sinkEve))

	// Then only the requester hears about it
	events := sinkEve.all()
	req.Len(events, 1)
	errEvt, ok := events[0].(event.SessionError)
	req.True(ok)
	req.Equal("Session is full", errEvt.Message)
	req.Equal(before, len(sinkA.all())+len(sinkB.all()))
}

func TestSessionService_Join_ReplaysExistingHistory(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	ctx := context.Background()
	sink := &recordSink{}

	history := []domain.Message{
		{ID: 1, Kind: domain.KindText, Content: "hi", SenderID: "bob", CreatedAt: time.Now().UTC()},
	}
	f.store.EXPECT().LoadSession("123456").Return(history, nil).Times(1)

	f.service.Join(ctx, "123456", "alice", sink)

	events := sink.all()
	req.Len(events, 2)
	loaded, ok := events[1].(event.MessagesLoaded)
	req.True(ok)
	req.Equal(history, loaded.Messages)
}

func TestSessionService_Post_RelaysToBothIncludingSender(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	ctx := context.Background()
	sinkA, sinkB := &recordSink{}, &recordSink{}

	f.store.EXPECT().LoadSession("123456").Return(nil, nil).Times(2)
	f.scheduler.EXPECT().Arm("123456", gomock.Any(), gomock.Any()).Times(1)
	f.store.EXPECT().Store("123456", gomock.Any()).Return(nil).Times(1)

	f.service.Join(ctx, "123456", "alice", sinkA)
	f.service.Join(ctx, "123456", "bob", sinkB)

	// When alice sends a text
	f.service.Post(ctx, "123456", "alice", domain.KindText, "hi")

	// Then both sides receive it, sender included
	for name, sink := range map[string]*recordSink{"alice": sinkA, "bob": sinkB} {
		var msg event.NewMessage
		found := false
		for _, e := range sink.all() {
			if m, ok := e.(event.NewMessage); ok {
				msg = m
				found = true
			}
		}
		req.True(found, "%s never received the message", name)
		req.Equal("hi", msg.Message.Content)
		req.Equal("alice", msg.Message.SenderID)
		req.Equal(domain.KindText, msg.Message.Kind)
	}
}

func TestSessionService_Post_InactiveSessionIsSilentlyDropped(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	ctx := context.Background()
	sink := &recordSink{}

	f.store.EXPECT().LoadSession("123456").Return(nil, nil).Times(1)
	// Store must never be touched for a rejected message

	f.service.Join(ctx, "123456", "alice", sink)
	before := len(sink.all())

	f.service.Post(ctx, "123456", "alice", domain.KindText, "anyone?")

	req.Equal(before, len(sink.all()))
}

func TestSessionService_Leave_NotifiesRemainingSide(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	ctx := context.Background()
	sinkA, sinkB := &recordSink{}, &recordSink{}

	f.store.EXPECT().LoadSession("123456").Return(nil, nil).Times(2)
	f.scheduler.EXPECT().Arm("123456", gomock.Any(), gomock.Any()).Times(1)

	f.service.Join(ctx, "123456", "alice", sinkA)
	f.service.Join(ctx, "123456", "bob", sinkB)

	// When bob leaves
	f.service.Leave(ctx, "123456", "bob")

	// Then alice is notified exactly once, bob not at all
	req.Equal(1, sinkA.count(isLeft))
	req.Equal(0, sinkB.count(isLeft))

	// And a duplicate disconnect for bob changes nothing
	f.service.Leave(ctx, "123456", "bob")
	req.Equal(1, sinkA.count(isLeft))
}

func TestSessionService_Leave_LastParticipantTearsDown(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	ctx := context.Background()
	sink := &recordSink{}

	f.store.EXPECT().LoadSession("123456").Return(nil, nil).Times(1)
	f.scheduler.EXPECT().Disarm("123456").Times(1)
	f.store.EXPECT().DropSession("123456").Return(nil).Times(1)

	f.service.Join(ctx, "123456", "alice", sink)

	// When the only participant leaves
	f.service.Leave(ctx, "123456", "alice")

	// Then the session is gone
	_, ok := f.service.Check("123456")
	req.False(ok)
}

func TestSessionService_Expire_BroadcastsOnceAndFreesTheCode(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	ctx := context.Background()
	sinkA, sinkB := &recordSink{}, &recordSink{}

	var onFire func(string)
	f.store.EXPECT().LoadSession("123456").Return(nil, nil).Times(2)
	f.scheduler.EXPECT().
		Arm("123456", gomock.Any(), gomock.Any()).
		Do(func(_ string, _ time.Duration, fn func(string)) {
			onFire = fn
		}).
		Times(1)
	f.store.EXPECT().DropSession("123456").Return(nil).Times(1)

	f.service.Join(ctx, "123456", "alice", sinkA)
	f.service.Join(ctx, "123456", "bob", sinkB)
	req.NotNil(onFire)

	// When the countdown fires
	onFire("123456")

	// Then both sides observe exactly one expiry
	req.Equal(1, sinkA.count(isExpired))
	req.Equal(1, sinkB.count(isExpired))

	// And a second fire or late leave is a no-op
	onFire("123456")
	f.service.Leave(ctx, "123456", "alice")
	req.Equal(1, sinkA.count(isExpired))
	req.Equal(0, sinkA.count(isLeft))

	// The code is resolvable again only once someone recreates it
	_, ok := f.service.Check("123456")
	req.False(ok)
}

func TestSessionService_Join_BindsSinkBeforeRegistryAdmission(t *testing.T) {
	req := require.New(t)
	hooked := &hookedConns{inner: runtime.NewConnRegistry()}
	f := newFixtureWithConns(t, hooked)
	ctx := context.Background()

	f.store.EXPECT().LoadSession("123456").Return(nil, nil).Times(2)
	f.scheduler.EXPECT().Arm("123456", gomock.Any(), gomock.Any()).Times(1)

	// By the time a participant becomes visible in the registry, its sink
	// must already be reachable for broadcasts.
	hooked.onSubscribe = func(participantID, pin string) {
		req.False(f.registry.Member(pin, participantID),
			"%s was admitted to the registry before its sink was bound", participantID)
	}

	sinkA, sinkB := &recordSink{}, &recordSink{}
	f.service.Join(ctx, "123456", "alice", sinkA)
	f.service.Join(ctx, "123456", "bob", sinkB)

	// The pair-completing join reached both sides with the activation
	req.Equal(1, sinkA.count(func(e event.SessionEvent) bool {
		_, ok := e.(event.SessionStarted)
		return ok
	}))

	// A rejected third join leaves exactly the pair's sinks bound
	f.service.Join(ctx, "123456", "eve", &recordSink{})
	req.Len(f.conns.SinksFor("123456"), 2)
}

func TestSessionService_Expire_RecreatedSessionKeepsItsBindings(t *testing.T) {
	req := require.New(t)
	hooked := &hookedConns{inner: runtime.NewConnRegistry()}
	f := newFixtureWithConns(t, hooked)
	ctx := context.Background()
	sinkA, sinkB, sinkC, sinkD := &recordSink{}, &recordSink{}, &recordSink{}, &recordSink{}

	var onFire func(string)
	f.store.EXPECT().LoadSession("123456").Return(nil, nil).Times(4)
	f.scheduler.EXPECT().
		Arm("123456", gomock.Any(), gomock.Any()).
		Do(func(_ string, _ time.Duration, fn func(string)) {
			onFire = fn
		}).
		Times(2)
	f.store.EXPECT().DropSession("123456").Return(nil).Times(1)

	f.service.Join(ctx, "123456", "alice", sinkA)
	f.service.Join(ctx, "123456", "bob", sinkB)
	fire := onFire
	req.NotNil(fire)

	// carol recreates the code in the window between the registry teardown
	// and the connection unbinding of the expiry
	hooked.onUnbind = func(pin string) {
		hooked.onUnbind = nil
		f.service.Join(ctx, pin, "carol", sinkC)
	}
	fire("123456")

	// Only the expired pair was notified; carol's binding survived
	req.Equal(1, sinkA.count(isExpired))
	req.Equal(1, sinkB.count(isExpired))
	req.Equal(0, sinkC.count(isExpired))

	// The fresh pair still activates through carol's surviving sink
	f.service.Join(ctx, "123456", "dave", sinkD)
	req.Equal(1, sinkC.count(func(e event.SessionEvent) bool {
		_, ok := e.(event.SessionStarted)
		return ok
	}))
}

func TestSessionService_Allocate_ReservesTheSession(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	pin := f.service.Allocate()

	req.True(domain.ValidPIN(pin))
	snap, ok := f.service.Check(pin)
	req.True(ok)
	req.Equal(0, snap.ParticipantCount)
	req.False(snap.Active)
}

func TestSessionService_Stats_TracksRelayCounters(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	ctx := context.Background()
	sinkA, sinkB := &recordSink{}, &recordSink{}

	f.store.EXPECT().LoadSession("123456").Return(nil, nil).Times(2)
	f.scheduler.EXPECT().Arm("123456", gomock.Any(), gomock.Any()).Times(1)
	f.store.EXPECT().Store("123456", gomock.Any()).Return(nil).Times(1)

	f.service.Join(ctx, "123456", "alice", sinkA)
	f.service.Join(ctx, "123456", "bob", sinkB)
	f.service.Post(ctx, "123456", "alice", domain.KindText, "hi")
	f.service.Post(ctx, "999999", "ghost", domain.KindText, "void")

	stats := f.service.Stats()
	req.Equal(uint64(1), stats.SessionsActivated)
	req.Equal(uint64(1), stats.MessagesRelayed)
	req.Equal(uint64(1), stats.MessagesDropped)
	req.Equal(1, stats.LiveSessions)
	req.Equal(2, stats.LiveParticipants)
}
