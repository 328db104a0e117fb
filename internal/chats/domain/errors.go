package domain

import "fmt"

// ChatNotFoundError indicates a lookup for a chat id that does not exist.
type ChatNotFoundError struct {
	ID string
}

func (e *ChatNotFoundError) Error() string {
	return fmt.Sprintf("chat not found: %s", e.ID)
}
