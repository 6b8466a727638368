package ws

import (
	"context"

	"github.com/Harshmalhotra78898/LiveInteract/domain/event"
)

// Sink decouples the fan-out from the socket writer: the service pushes
// events here and the connection's write pump drains them, so one slow
// client can never block another session's broadcast.
type Sink struct {
	events chan event.SessionEvent
}

func NewSink(bufferSize int) *Sink {
	return &Sink{events: make(chan event.SessionEvent, bufferSize)}
}

// Consume is called by the fan-out side. When the buffer is full the event
// is dropped rather than blocking the relay; the write pump is the only
// reader and a stalled connection will be torn down by its own deadlines.
func (s *Sink) Consume(ctx context.Context, e event.SessionEvent) error {
	select {
	case s.events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

func (s *Sink) Events() <-chan event.SessionEvent {
	return s.events
}
