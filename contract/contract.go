//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"
	"time"

	"github.com/Harshmalhotra78898/LiveInteract/domain"
	"github.com/Harshmalhotra78898/LiveInteract/domain/event"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink is one participant's outbound channel.
type EventSink interface {
	Consume(ctx context.Context, e event.SessionEvent) error
}

// IScheduler arms at most one countdown per session code.
type IScheduler interface {
	Arm(pin string, d time.Duration, onFire func(pin string))
	Disarm(pin string)
}

// IMessageStore is the per-session ordered message log.
type IMessageStore interface {
	Store(pin string, m domain.Message) error
	LoadSession(pin string) ([]domain.Message, error)
	DropSession(pin string) error
}

// IConnRegistry maps live connections to the session they are bound to.
type IConnRegistry interface {
	Subscribe(participantID, pin string, sink EventSink)
	Unsubscribe(participantID, pin string)
	Unbind(pin string, participantIDs []string) []EventSink
	SinksFor(pin string) []EventSink
}
