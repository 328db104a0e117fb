package domain

// ChatRepository defines the persistence interface for Chat aggregates.
// Implementations may use SQLite, in-memory storage, or other backends.
// The session store consumes it to keep the chat list across sessions;
// everything else reads chats through the store's snapshot.
type ChatRepository interface {
	// Save persists a chat and its full message log.
	// Inserts on first save, replaces the stored log on later saves
	// (the log is append-only, so a replace only ever adds rows).
	Save(chat *Chat) error

	// FindByID retrieves a chat with its messages in commit order.
	// Returns ChatNotFoundError if no matching chat exists.
	FindByID(id string) (*Chat, error)

	// List retrieves all chats with messages, ordered by most recently
	// updated first.
	List() ([]*Chat, error)

	// Delete permanently removes a chat and its messages.
	// Returns ChatNotFoundError if no matching chat exists.
	Delete(id string) error

	// Close releases any resources held by the repository.
	Close() error
}
