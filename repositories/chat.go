//go:generate go run go.uber.org/mock/mockgen -source=chat.go -destination=../mocks/mock_chat_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"pairchat/domain"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IChatRepository interface {
	GetChat(id domain.ConversationID) (ChatDocument, error)
	AppendMessages(id domain.ConversationID, local, incoming []domain.Message) (ChatDocument, error)
}

// ChatDocument is the full persisted state of one conversation.
// Version grows by one on every committed append and never resets.
type ChatDocument struct {
	Messages []domain.Message
	Version  uint64
}

type ChatRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewChatRepository(db *badger.DB, log *slog.Logger) ChatRepository {
	return ChatRepository{db: db, log: log}
}

// diskChat is the JSON document stored under "chat:{conversation_id}".
// One document per conversation, messages ordered oldest-first by arrival.
type diskChat struct {
	Version  uint64        `json:"version"`
	Messages []diskMessage `json:"messages"`
}

type diskMessage struct {
	ID        string    `json:"id"`
	SenderID  string    `json:"sender_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

func chatKey(id domain.ConversationID) []byte {
	return []byte("chat:" + id.String())
}

// GetChat reads the current conversation document. A conversation that was
// never written to reads back as an empty document at version zero:
// conversations are created implicitly on first send, never explicitly.
func (r ChatRepository) GetChat(id domain.ConversationID) (ChatDocument, error) {
	var stored diskChat
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(chatKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stored)
		})
	})
	if err == badger.ErrKeyNotFound {
		return ChatDocument{}, nil
	}
	if err != nil {
		return ChatDocument{}, fmt.Errorf("reading chat %s: %w", id, err)
	}
	return toChatDocument(stored)
}

// AppendMessages commits the incoming messages to the conversation inside a
// single update transaction and returns the persisted state.
//
// The freshest stored list is re-read under the transaction and used as the
// append base; the caller's local list only seeds a document that does not
// exist yet. Two concurrent senders therefore both land (no last-writer-wins
// clobber of the whole list), at the cost of a caller whose local view has
// drifted seeing its unsent extras stay local. Incoming messages are appended
// as given: no dedupe by id, resubmitting the same message stores it twice.
func (r ChatRepository) AppendMessages(id domain.ConversationID, local, incoming []domain.Message) (ChatDocument, error) {
	var persisted diskChat
	err := r.db.Update(func(txn *badger.Txn) error {
		var stored diskChat
		item, err := txn.Get(chatKey(id))
		switch err {
		case nil:
			if err = item.Value(func(val []byte) error {
				return json.Unmarshal(val, &stored)
			}); err != nil {
				return err
			}
		case badger.ErrKeyNotFound:
			stored = diskChat{Messages: fromMessages(local)}
		default:
			return err
		}

		stored.Messages = append(stored.Messages, fromMessages(incoming)...)
		stored.Version++

		bytes, err := json.Marshal(stored)
		if err != nil {
			return err
		}
		persisted = stored
		return txn.Set(chatKey(id), bytes)
	})
	if err != nil {
		return ChatDocument{}, fmt.Errorf("appending to chat %s: %w", id, err)
	}
	return toChatDocument(persisted)
}

func fromMessages(messages []domain.Message) []diskMessage {
	return lo.Map(messages, func(m domain.Message, _ int) diskMessage {
		return diskMessage{
			ID:        m.ID.String(),
			SenderID:  m.SenderID,
			Text:      m.Text,
			CreatedAt: m.CreatedAt,
		}
	})
}

func toChatDocument(stored diskChat) (ChatDocument, error) {
	messages := make([]domain.Message, 0, len(stored.Messages))
	for _, dm := range stored.Messages {
		parsedID, err := uuid.Parse(dm.ID)
		if err != nil {
			return ChatDocument{}, err
		}
		messages = append(messages, domain.Message{
			ID:        parsedID,
			SenderID:  dm.SenderID,
			Text:      dm.Text,
			CreatedAt: dm.CreatedAt.UTC(),
		})
	}
	return ChatDocument{Messages: messages, Version: stored.Version}, nil
}
