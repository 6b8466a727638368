package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/Harshmalhotra78898/LiveInteract/domain"
)

// MessageStore is the per-session ordered message log, backed by a BadgerDB
// instance running in in-memory mode: nothing touches disk and a process
// restart discards every session.
type MessageStore struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMessageStore(db *badger.DB, log *slog.Logger) MessageStore {
	return MessageStore{db: db, log: log}
}

type diskMessage struct {
	ID      uint64             `json:"id"`
	Kind    domain.MessageKind `json:"kind"`
	Content string             `json:"content"`
	Sender  string             `json:"sender"`
	At      time.Time          `json:"at"`
}

// Store persists a message under the key "msg:{pin}:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding (lexicographical order).
//  2. Prevent data loss by using a UUID as a collision disconnector if two messages
//     arrive at the same nanosecond.
func (m MessageStore) Store(pin string, msg domain.Message) error {
	key := fmt.Sprintf("msg:%s:%019d:%s", pin, msg.CreatedAt.UnixNano(), uuid.NewString())
	bytes, err := json.Marshal(toDiskMessage(msg))
	if err != nil {
		return err
	}
	return m.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
}

// LoadSession retrieves the whole log for a session using a prefix scan.
// Thanks to the padded timestamp in the key, messages come back naturally
// sorted by time, which is the order a rejoining participant replays them in.
func (m MessageStore) LoadSession(pin string) ([]domain.Message, error) {
	var disk []diskMessage
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte(fmt.Sprintf("msg:%s:", pin))
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				var d diskMessage
				if err := json.Unmarshal(value, &d); err != nil {
					return err
				}
				disk = append(disk, d)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fromDiskMessages(disk), nil
}

// DropSession discards a session's entire log. Individual messages are never
// deleted; teardown always removes the whole prefix.
func (m MessageStore) DropSession(pin string) error {
	return m.db.DropPrefix([]byte(fmt.Sprintf("msg:%s:", pin)))
}

func toDiskMessage(msg domain.Message) diskMessage {
	return diskMessage{
		ID:      msg.ID,
		Kind:    msg.Kind,
		Content: msg.Content,
		Sender:  msg.SenderID,
		At:      msg.CreatedAt,
	}
}

func fromDiskMessages(disk []diskMessage) []domain.Message {
	return lo.Map(disk, func(d diskMessage, _ int) domain.Message {
		return domain.Message{
			ID:        d.ID,
			Kind:      d.Kind,
			Content:   d.Content,
			SenderID:  d.Sender,
			CreatedAt: d.At,
		}
	})
}
