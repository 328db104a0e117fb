package domain

import (
	"time"
	"unicode"
)

// DefaultTitle is the placeholder shown until the first exchange completes.
const DefaultTitle = "New Analysis"

// maxDerivedTitleLen caps titles derived from the first user message.
const maxDerivedTitleLen = 40

// Chat is the aggregate owning an ordered, append-only message log plus
// display metadata. The message log order is commit order; it is never
// re-sorted.
type Chat struct {
	id        string
	title     string
	starred   bool
	messages  []Message
	createdAt time.Time
	updatedAt time.Time
}

// NewChat creates an empty chat with the placeholder title.
// Timestamps are set to the current time.
func NewChat(id string) *Chat {
	now := time.Now()
	return &Chat{
		id:        id,
		title:     DefaultTitle,
		createdAt: now,
		updatedAt: now,
	}
}

// ReconstituteChat creates a Chat from existing data, typically when
// hydrating from the database. Messages must already be in commit order.
func ReconstituteChat(id, title string, starred bool, messages []Message, createdAt, updatedAt time.Time) *Chat {
	return &Chat{
		id:        id,
		title:     title,
		starred:   starred,
		messages:  messages,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// ID returns the chat identifier.
func (c *Chat) ID() string { return c.id }

// Title returns the chat title.
func (c *Chat) Title() string { return c.title }

// Starred returns whether the user has starred this chat.
func (c *Chat) Starred() bool { return c.starred }

// CreatedAt returns when the chat was created.
func (c *Chat) CreatedAt() time.Time { return c.createdAt }

// UpdatedAt returns when the chat last gained a committed message or
// had its metadata changed.
func (c *Chat) UpdatedAt() time.Time { return c.updatedAt }

// Messages returns a copy of the message log in commit order.
func (c *Chat) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// MessageCount returns the number of committed messages.
func (c *Chat) MessageCount() int { return len(c.messages) }

// LastMessage returns the most recently committed message, if any.
func (c *Chat) LastMessage() (Message, bool) {
	if len(c.messages) == 0 {
		return Message{}, false
	}
	return c.messages[len(c.messages)-1], true
}

// Append commits a message to the end of the log and bumps updatedAt.
// The first user message also replaces the placeholder title.
func (c *Chat) Append(m Message) {
	c.messages = append(c.messages, m)
	c.updatedAt = time.Now()

	if c.title == DefaultTitle && m.Role() == RoleUser {
		c.title = DeriveTitle(m.Content())
	}
}

// SetTitle sets the chat title and bumps updatedAt.
func (c *Chat) SetTitle(title string) {
	c.title = title
	c.updatedAt = time.Now()
}

// ToggleStar flips the star flag. Starring does not bump updatedAt so
// it cannot reorder the recency list.
func (c *Chat) ToggleStar() {
	c.starred = !c.starred
}

// DeriveTitle produces a chat title from the first user message:
// whitespace-collapsed and truncated on a rune boundary.
func DeriveTitle(content string) string {
	var runes []rune
	lastSpace := false
	for _, r := range content {
		if unicode.IsSpace(r) {
			if lastSpace || len(runes) == 0 {
				continue
			}
			lastSpace = true
			runes = append(runes, ' ')
			continue
		}
		lastSpace = false
		runes = append(runes, r)
	}
	for len(runes) > 0 && runes[len(runes)-1] == ' ' {
		runes = runes[:len(runes)-1]
	}
	if len(runes) == 0 {
		return DefaultTitle
	}
	if len(runes) > maxDerivedTitleLen {
		runes = append(runes[:maxDerivedTitleLen-1], '…')
	}
	return string(runes)
}
