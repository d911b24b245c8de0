// Package repositories holds the persistence collaborators: BadgerDB for
// chat and announcement history, PostgreSQL for order state.
package repositories

import (
	"campusfood/domain"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type storedMessage struct {
	ID         string `json:"id"`
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
	SenderRole string `json:"senderRole"`
	Message    string `json:"message"`
	CreatedAt  int64  `json:"createdAt"`
}

type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) MessageRepository {
	return MessageRepository{db: db, log: log}
}

// pairKey gives the same prefix for both directions of a conversation, so
// the history between two identities is one contiguous key range. Each
// identity is escaped before joining: an id containing the separator (or a
// key delimiter) can never merge with, or split from, another pair.
func pairKey(idA, idB string) string {
	if strings.Compare(idA, idB) > 0 {
		idA, idB = idB, idA
	}
	return url.QueryEscape(idA) + "|" + url.QueryEscape(idB)
}

// Append persists a message under a key formatted as
// "chat:{pair}:{timestamp_padded}:{uuid}":
//  1. The 19-digit zero padding makes lexicographic order chronological.
//  2. The UUID disambiguates two messages landing on the same nanosecond.
func (m MessageRepository) Append(msg domain.ChatMessage) error {
	key := fmt.Sprintf("chat:%s:%019d:%s",
		pairKey(msg.SenderID, msg.ReceiverID),
		msg.CreatedAt.UnixNano(),
		msg.ID,
	)
	bytes, err := json.Marshal(fromChatMessage(msg))
	if err != nil {
		return err
	}
	return m.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
}

// Between retrieves the full conversation between two identities, ascending
// by creation time. The padded timestamp in the key keeps the prefix scan
// naturally sorted; insertion order breaks ties through the UUID suffix.
func (m MessageRepository) Between(idA, idB string) ([]domain.ChatMessage, error) {
	prefix := []byte(fmt.Sprintf("chat:%s:", pairKey(idA, idB)))

	var stored []storedMessage
	err := m.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				var sm storedMessage
				if err := json.Unmarshal(value, &sm); err != nil {
					return err
				}
				stored = append(stored, sm)
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
	return toChatMessages(stored)
}

func fromChatMessage(msg domain.ChatMessage) storedMessage {
	return storedMessage{
		ID:         msg.ID.String(),
		SenderID:   msg.SenderID,
		ReceiverID: msg.ReceiverID,
		SenderRole: string(msg.SenderRole),
		Message:    msg.Message,
		CreatedAt:  msg.CreatedAt.UnixNano(),
	}
}

func toChatMessages(stored []storedMessage) ([]domain.ChatMessage, error) {
	var convErr error
	messages := lo.Map(stored, func(sm storedMessage, _ int) domain.ChatMessage {
		parsedID, err := uuid.Parse(sm.ID)
		if err != nil {
			convErr = err
		}
		return domain.ChatMessage{
			ID:         parsedID,
			SenderID:   sm.SenderID,
			ReceiverID: sm.ReceiverID,
			SenderRole: domain.Role(sm.SenderRole),
			Message:    sm.Message,
			CreatedAt:  time.Unix(0, sm.CreatedAt).UTC(),
		}
	})
	if convErr != nil {
		return nil, convErr
	}
	return messages, nil
}
