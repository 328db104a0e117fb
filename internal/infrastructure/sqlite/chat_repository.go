package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/ShivamAgarwal-code/AI-Cortex/internal/chats/domain"
)

// chatRepository implements domain.ChatRepository using SQLite.
type chatRepository struct {
	db *sql.DB
}

// newChatRepository creates a new chatRepository instance.
func newChatRepository(db *sql.DB) *chatRepository {
	return &chatRepository{db: db}
}

// Ensure chatRepository implements domain.ChatRepository.
var _ domain.ChatRepository = (*chatRepository)(nil)

// Save persists a chat and its full message log in one transaction.
// The stored log is replaced wholesale; since the log is append-only a
// replace only ever adds rows.
func (r *chatRepository) Save(chat *domain.Chat) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	model := toChatModel(chat)
	_, err = tx.Exec(
		`INSERT INTO chats (id, title, starred, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			starred = excluded.starred,
			updated_at = excluded.updated_at`,
		model.ID, model.Title, model.Starred, model.CreatedAt, model.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save chat: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM messages WHERE chat_id = ?`, model.ID); err != nil {
		return fmt.Errorf("failed to clear message log: %w", err)
	}

	for seq, msg := range chat.Messages() {
		msgModel, err := toMessageModel(model.ID, seq, msg)
		if err != nil {
			return fmt.Errorf("failed to encode message: %w", err)
		}
		_, err = tx.Exec(
			`INSERT INTO messages (id, chat_id, seq, role, content, actions, screenshots, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			msgModel.ID, msgModel.ChatID, msgModel.Seq, msgModel.Role,
			msgModel.Content, msgModel.Actions, msgModel.Screenshots, msgModel.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to save message: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit save: %w", err)
	}
	return nil
}

// FindByID retrieves a chat with its messages in commit order.
// Returns ChatNotFoundError if no matching chat exists.
func (r *chatRepository) FindByID(id string) (*domain.Chat, error) {
	row := r.db.QueryRow(
		`SELECT id, title, starred, created_at, updated_at FROM chats WHERE id = ?`,
		id,
	)

	var model ChatModel
	err := row.Scan(&model.ID, &model.Title, &model.Starred, &model.CreatedAt, &model.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.ChatNotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find chat: %w", err)
	}

	messages, err := r.loadMessages(model.ID)
	if err != nil {
		return nil, err
	}
	return model.toDomain(messages), nil
}

// List retrieves all chats with their messages, most recently updated
// first.
func (r *chatRepository) List() ([]*domain.Chat, error) {
	rows, err := r.db.Query(
		`SELECT id, title, starred, created_at, updated_at FROM chats
		 ORDER BY updated_at DESC, created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var models []ChatModel
	for rows.Next() {
		var model ChatModel
		if err := rows.Scan(&model.ID, &model.Title, &model.Starred, &model.CreatedAt, &model.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat row: %w", err)
		}
		models = append(models, model)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chat rows: %w", err)
	}

	chats := make([]*domain.Chat, 0, len(models))
	for i := range models {
		messages, err := r.loadMessages(models[i].ID)
		if err != nil {
			return nil, err
		}
		chats = append(chats, models[i].toDomain(messages))
	}
	return chats, nil
}

// Delete permanently removes a chat; its messages go with it via the
// foreign key cascade. Returns ChatNotFoundError for unknown ids.
func (r *chatRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM chats WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete chat: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return &domain.ChatNotFoundError{ID: id}
	}
	return nil
}

// Close releases any resources held by the repository.
// This is a no-op because the connection is owned by the DB struct.
func (r *chatRepository) Close() error {
	return nil
}

func (r *chatRepository) loadMessages(chatID string) ([]domain.Message, error) {
	rows, err := r.db.Query(
		`SELECT id, chat_id, seq, role, content, actions, screenshots, created_at
		 FROM messages WHERE chat_id = ? ORDER BY seq ASC`,
		chatID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var messages []domain.Message
	for rows.Next() {
		var model MessageModel
		err := rows.Scan(
			&model.ID, &model.ChatID, &model.Seq, &model.Role,
			&model.Content, &model.Actions, &model.Screenshots, &model.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		msg, err := model.toDomain()
		if err != nil {
			return nil, fmt.Errorf("failed to decode message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating message rows: %w", err)
	}
	return messages, nil
}
