// Package domain contains core concepts of the pairing system.
// This file defines Message events and related rules.
// Messages are immutable and appended only, never edited or removed.
package domain

import "time"

type MessageKind string

const (
	KindText  MessageKind = "text"
	KindImage MessageKind = "image"
)

// Message represents an immutable chat event exchanged inside one session.
// The ID only orders messages within the owning session; image content is
// carried as the data URI string received from the sender.
type Message struct {
	ID        uint64
	Kind      MessageKind
	Content   string
	SenderID  string
	CreatedAt time.Time
}
