package domain

import "time"

// Role identifies the author of a message.
type Role string

const (
	// RoleUser marks a message submitted by the human.
	RoleUser Role = "user"

	// RoleAgent marks a message committed from a completed agent turn.
	RoleAgent Role = "agent"
)

// AgentAction describes one sub-goal the agent reported during a turn.
// The Status field is the agent status captured at commit time.
type AgentAction struct {
	Title       string
	Description string
	Status      AgentStatus
}

// Screenshot is one unit of visual evidence produced during a turn.
// At most one of Base64 and URL is populated; a step that carries no
// visual leaves both empty.
type Screenshot struct {
	Step        int
	Description string
	Base64      string
	URL         string
}

// HasVisual reports whether the screenshot carries an image payload.
func (s Screenshot) HasVisual() bool {
	return s.Base64 != "" || s.URL != ""
}

// Message is an immutable record in a chat's log. User messages never
// carry actions or screenshots; agent messages are built exactly once,
// when their turn reaches a terminal status.
type Message struct {
	id          string
	role        Role
	content     string
	actions     []AgentAction
	screenshots []Screenshot
	timestamp   time.Time
}

// NewUserMessage constructs a user-authored message stamped now.
func NewUserMessage(id, content string) Message {
	return Message{
		id:        id,
		role:      RoleUser,
		content:   content,
		timestamp: time.Now(),
	}
}

// NewAgentMessage constructs an agent-authored message stamped now,
// carrying the actions and screenshots accumulated during the turn.
func NewAgentMessage(id, content string, actions []AgentAction, screenshots []Screenshot) Message {
	return Message{
		id:          id,
		role:        RoleAgent,
		content:     content,
		actions:     cloneActions(actions),
		screenshots: cloneScreenshots(screenshots),
		timestamp:   time.Now(),
	}
}

// ReconstituteMessage creates a Message from existing data, typically
// when hydrating from the database.
func ReconstituteMessage(id string, role Role, content string, actions []AgentAction, screenshots []Screenshot, timestamp time.Time) Message {
	return Message{
		id:          id,
		role:        role,
		content:     content,
		actions:     cloneActions(actions),
		screenshots: cloneScreenshots(screenshots),
		timestamp:   timestamp,
	}
}

// ID returns the message identifier.
func (m Message) ID() string { return m.id }

// Role returns the message author role.
func (m Message) Role() Role { return m.role }

// Content returns the message text.
func (m Message) Content() string { return m.content }

// Actions returns a copy of the agent actions recorded on this message.
func (m Message) Actions() []AgentAction { return cloneActions(m.actions) }

// Screenshots returns a copy of the screenshots recorded on this message.
func (m Message) Screenshots() []Screenshot { return cloneScreenshots(m.screenshots) }

// Timestamp returns when the message was committed.
func (m Message) Timestamp() time.Time { return m.timestamp }

func cloneActions(in []AgentAction) []AgentAction {
	if len(in) == 0 {
		return nil
	}
	out := make([]AgentAction, len(in))
	copy(out, in)
	return out
}

func cloneScreenshots(in []Screenshot) []Screenshot {
	if len(in) == 0 {
		return nil
	}
	out := make([]Screenshot, len(in))
	copy(out, in)
	return out
}
