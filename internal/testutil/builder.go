package testutil

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
)

// Builder accumulates test data and inserts it in the correct order.
type Builder struct {
	t     *testing.T
	db    *sql.DB
	chats []chatData
}

// NewBuilder creates a builder for the given test database.
func NewBuilder(t *testing.T, db *sql.DB) *Builder {
	t.Helper()
	return &Builder{t: t, db: db}
}

// WithChat adds a chat with optional configuration.
func (b *Builder) WithChat(id string, opts ...ChatOption) *Builder {
	chat := defaultChat(id)
	for _, opt := range opts {
		opt(&chat)
	}
	b.chats = append(b.chats, chat)
	return b
}

// Build inserts all accumulated data into the database.
func (b *Builder) Build() {
	b.t.Helper()
	for _, chat := range b.chats {
		b.insertChat(chat)
		b.insertMessages(chat.id, chat.messages)
	}
}

func (b *Builder) insertChat(chat chatData) {
	b.t.Helper()
	_, err := b.db.Exec(
		`INSERT INTO chats (id, title, starred, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		chat.id, chat.title, chat.starred, chat.createdAt.Unix(), chat.updatedAt.Unix(),
	)
	require.NoError(b.t, err)
}

func (b *Builder) insertMessages(chatID string, messages []MessageData) {
	b.t.Helper()
	for seq, m := range messages {
		_, err := b.db.Exec(
			`INSERT INTO messages (id, chat_id, seq, role, content, actions, screenshots, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			m.ID, chatID, seq, m.Role, m.Content, m.Actions, m.Screenshots, m.CreatedAt.Unix(),
		)
		require.NoError(b.t, err)
	}
}
