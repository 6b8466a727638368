package ws

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/Harshmalhotra78898/LiveInteract/domain"
	"github.com/Harshmalhotra78898/LiveInteract/domain/event"
)

// Inbound event names. A transport-level close is not an event; it rides the
// read loop's error path.
const (
	evJoinSession  = "joinSession"
	evSendMessage  = "sendMessage"
	evSendImage    = "sendImage"
	evLeaveSession = "leaveSession"
)

// Outbound event names.
const (
	evSessionJoined   = "sessionJoined"
	evLoadMessages    = "loadMessages"
	evSessionStarted  = "sessionStarted"
	evNewMessage      = "newMessage"
	evSessionExpired  = "sessionExpired"
	evParticipantLeft = "participantLeft"
	evError           = "error"
)

// Envelope is the frame carried on the socket in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type JoinPayload struct {
	PIN string `json:"pin" validate:"required,len=6,numeric"`
}

type TextPayload struct {
	Content string `json:"content" validate:"required,max=10000"`
}

type ImagePayload struct {
	ImageData string `json:"imageData" validate:"required,startswith=data:"`
}

type joinedData struct {
	Code             string `json:"code"`
	ParticipantCount int    `json:"participantCount"`
	Active           bool   `json:"active"`
	ActivationTime   *int64 `json:"activationTime"`
}

type startedData struct {
	ActivationTime int64 `json:"activationTime"`
	DurationMs     int64 `json:"durationMs"`
}

type wireMessage struct {
	ID        uint64 `json:"id"`
	Type      string `json:"type"`
	Content   string `json:"content"`
	Sender    string `json:"sender"`
	Timestamp int64  `json:"timestamp"`
}

type errorData struct {
	Message string `json:"message"`
}

// encode maps a session event onto its wire envelope.
func encode(e event.SessionEvent) (Envelope, error) {
	switch evt := e.(type) {
	case event.SessionJoined:
		return envelope(evSessionJoined, joinedData{
			Code:             evt.Code,
			ParticipantCount: evt.ParticipantCount,
			Active:           evt.Active,
			ActivationTime:   toMillis(evt.StartedAt),
		})
	case event.MessagesLoaded:
		return envelope(evLoadMessages, toWireMessages(evt.Messages))
	case event.SessionStarted:
		return envelope(evSessionStarted, startedData{
			ActivationTime: evt.StartedAt.UnixMilli(),
			DurationMs:     evt.Duration.Milliseconds(),
		})
	case event.NewMessage:
		return envelope(evNewMessage, toWireMessage(evt.Message))
	case event.ParticipantLeft:
		return envelope(evParticipantLeft, nil)
	case event.SessionExpired:
		return envelope(evSessionExpired, nil)
	case event.SessionError:
		return envelope(evError, errorData{Message: evt.Message})
	}
	return Envelope{}, fmt.Errorf("no wire encoding for event %T", e)
}

func envelope(name string, data any) (Envelope, error) {
	if data == nil {
		return Envelope{Event: name}, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Event: name, Data: raw}, nil
}

func toWireMessage(m domain.Message) wireMessage {
	return wireMessage{
		ID:        m.ID,
		Type:      string(m.Kind),
		Content:   m.Content,
		Sender:    m.SenderID,
		Timestamp: m.CreatedAt.UnixMilli(),
	}
}

func toWireMessages(messages []domain.Message) []wireMessage {
	return lo.Map(messages, func(m domain.Message, _ int) wireMessage {
		return toWireMessage(m)
	})
}

func toMillis(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}
