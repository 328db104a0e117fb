// Package domain provides the pure domain layer for chats with no
// infrastructure dependencies.
//
// It follows the same conventions as the rest of the codebase:
//   - Only standard library imports (time package only)
//   - Entities with encapsulated state and behavior
//   - A ChatRepository interface for persistence abstraction
//   - Domain-specific error types
//
// The domain layer has no knowledge of transports, databases, or the UI.
package domain

// AgentStatus represents the agent's lifecycle state for the active turn.
type AgentStatus string

const (
	// StatusIdle means no turn is in flight.
	StatusIdle AgentStatus = "idle"

	// StatusThinking means the agent is reasoning about the user's request.
	StatusThinking AgentStatus = "thinking"

	// StatusExecuting means the agent is performing multi-step actions.
	StatusExecuting AgentStatus = "executing"

	// StatusDone means the turn completed successfully.
	StatusDone AgentStatus = "done"

	// StatusError means the turn terminated with a failure.
	StatusError AgentStatus = "error"
)

// String returns the string representation of the status.
func (s AgentStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is a recognized agent status.
func (s AgentStatus) IsValid() bool {
	switch s {
	case StatusIdle, StatusThinking, StatusExecuting, StatusDone, StatusError:
		return true
	default:
		return false
	}
}

// IsTerminal returns true for statuses that end a turn.
func (s AgentStatus) IsTerminal() bool {
	return s == StatusDone || s == StatusError
}

// IsActive returns true while a turn is in flight.
func (s AgentStatus) IsActive() bool {
	return s == StatusThinking || s == StatusExecuting
}
