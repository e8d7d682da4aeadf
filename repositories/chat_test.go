package repositories

import (
	"log/slog"
	"testing"

	"pairchat/domain"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func Test_Chat_ImplicitCreation(t *testing.T) {
	req := require.New(t)
	repository := NewChatRepository(openTestDB(t), slog.Default())

	// A conversation nobody wrote to reads back empty at version zero
	doc, err := repository.GetChat(domain.NewConversationID("u1", "u2"))
	req.NoError(err)
	req.Empty(doc.Messages)
	req.Zero(doc.Version)
}

func Test_Chat_AppendAfterLocal(t *testing.T) {
	req := require.New(t)
	repository := NewChatRepository(openTestDB(t), slog.Default())
	id := domain.NewConversationID("u1", "u2")

	m1 := domain.NewMessage("u1", "hello")
	m2 := domain.NewMessage("u2", "hi")
	m3 := domain.NewMessage("u1", "how are you?")

	_, err := repository.AppendMessages(id, nil, []domain.Message{m1, m2})
	req.NoError(err)

	doc, err := repository.AppendMessages(id, []domain.Message{m1, m2}, []domain.Message{m3})
	req.NoError(err)
	req.Equal([]domain.Message{m1, m2, m3}, doc.Messages)
	req.Equal(uint64(2), doc.Version)

	fetched, err := repository.GetChat(id)
	req.NoError(err)
	req.Equal(doc, fetched)
}

func Test_Chat_DuplicateSubmissionRetained(t *testing.T) {
	req := require.New(t)
	repository := NewChatRepository(openTestDB(t), slog.Default())
	id := domain.NewConversationID("u1", "u2")

	m1 := domain.NewMessage("u1", "one")
	m2 := domain.NewMessage("u2", "two")
	m3 := domain.NewMessage("u1", "three")

	_, err := repository.AppendMessages(id, nil, []domain.Message{m1, m2})
	req.NoError(err)

	// No dedupe by id: resubmitting the same message stores it twice
	_, err = repository.AppendMessages(id, []domain.Message{m1, m2}, []domain.Message{m3})
	req.NoError(err)
	doc, err := repository.AppendMessages(id, []domain.Message{m1, m2, m3}, []domain.Message{m3})
	req.NoError(err)
	req.Equal([]domain.Message{m1, m2, m3, m3}, doc.Messages)
}

func Test_Chat_ConcurrentSendersBothLand(t *testing.T) {
	req := require.New(t)
	repository := NewChatRepository(openTestDB(t), slog.Default())
	id := domain.NewConversationID("u1", "u2")

	m1 := domain.NewMessage("u1", "base")
	_, err := repository.AppendMessages(id, nil, []domain.Message{m1})
	req.NoError(err)

	// Two senders append off the same stale local view; the stored list is
	// the append base, so neither write clobbers the other.
	stale := []domain.Message{m1}
	fromA := domain.NewMessage("u1", "from A")
	fromB := domain.NewMessage("u2", "from B")

	_, err = repository.AppendMessages(id, stale, []domain.Message{fromA})
	req.NoError(err)
	doc, err := repository.AppendMessages(id, stale, []domain.Message{fromB})
	req.NoError(err)

	req.Equal([]domain.Message{m1, fromA, fromB}, doc.Messages)
}

func Test_Chat_SeparateConversationsIsolated(t *testing.T) {
	req := require.New(t)
	repository := NewChatRepository(openTestDB(t), slog.Default())

	first := domain.NewConversationID("u1", "u2")
	second := domain.NewConversationID("u1", "u3")

	_, err := repository.AppendMessages(first, nil, []domain.Message{domain.NewMessage("u1", "to u2")})
	req.NoError(err)

	doc, err := repository.GetChat(second)
	req.NoError(err)
	req.Empty(doc.Messages)
}
