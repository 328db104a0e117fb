package testutil

import "time"

// MessageData holds data for a message row to be inserted.
type MessageData struct {
	ID          string
	Role        string
	Content     string
	Actions     *string
	Screenshots *string
	CreatedAt   time.Time
}

// UserMessage creates a MessageData for a user-authored message.
func UserMessage(id, content string) MessageData {
	return MessageData{ID: id, Role: "user", Content: content, CreatedAt: time.Now()}
}

// AgentMessage creates a MessageData for an agent-authored message.
// actions and screenshots are raw JSON; empty strings mean NULL.
func AgentMessage(id, content, actions, screenshots string) MessageData {
	m := MessageData{ID: id, Role: "agent", Content: content, CreatedAt: time.Now()}
	if actions != "" {
		m.Actions = &actions
	}
	if screenshots != "" {
		m.Screenshots = &screenshots
	}
	return m
}

// chatData holds all data for a chat to be inserted.
type chatData struct {
	id        string
	title     string
	starred   bool
	messages  []MessageData
	createdAt time.Time
	updatedAt time.Time
}

// defaultChat returns a chatData with sensible defaults.
func defaultChat(id string) chatData {
	now := time.Now()
	return chatData{
		id:        id,
		title:     id, // Default title is the ID
		createdAt: now,
		updatedAt: now,
	}
}

// ChatOption configures a chat during builder setup.
type ChatOption func(*chatData)

// Title sets the chat title.
func Title(title string) ChatOption {
	return func(c *chatData) { c.title = title }
}

// Starred sets the star flag.
func Starred(starred bool) ChatOption {
	return func(c *chatData) { c.starred = starred }
}

// Messages adds messages to the chat (nested option).
func Messages(messages ...MessageData) ChatOption {
	return func(c *chatData) { c.messages = append(c.messages, messages...) }
}

// CreatedAt sets the created_at timestamp.
func CreatedAt(t time.Time) ChatOption {
	return func(c *chatData) { c.createdAt = t }
}

// UpdatedAt sets the updated_at timestamp.
func UpdatedAt(t time.Time) ChatOption {
	return func(c *chatData) { c.updatedAt = t }
}
