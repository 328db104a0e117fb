package session

import (
	"time"

	"github.com/ShivamAgarwal-code/AI-Cortex/internal/chats/domain"
)

// ChatView is an immutable projection of one chat for rendering.
type ChatView struct {
	ID        string
	Title     string
	Starred   bool
	Messages  []domain.Message
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Snapshot is the fully-derived, immutable view of session state
// published to subscribers after every accepted event. A new value is
// built on each change; readers never observe partial mutation.
type Snapshot struct {
	// Chats is ordered by most recently updated.
	Chats []ChatView

	// CurrentChatID is empty when no chat is selected.
	CurrentChatID string

	// AgentStatus is the turn status for the current chat. It reads
	// Idle when the in-flight turn belongs to a chat that is no longer
	// selected (the turn is detached from the view but still commits).
	AgentStatus domain.AgentStatus

	// CurrentActions are the sub-goals reported so far this turn.
	CurrentActions []domain.AgentAction

	// CurrentScreenshots are the steps aggregated so far this turn.
	CurrentScreenshots []domain.Screenshot

	// StepGap is set when an accepted step skipped an index.
	StepGap bool

	// Link is the channel connectivity state; Connected mirrors it.
	Link      LinkState
	Connected bool
}

// CurrentChat returns the view of the selected chat.
func (s Snapshot) CurrentChat() (ChatView, bool) {
	for _, chat := range s.Chats {
		if chat.ID == s.CurrentChatID {
			return chat, true
		}
	}
	return ChatView{}, false
}

// CurrentAction returns the most recent action of the active turn.
func (s Snapshot) CurrentAction() (domain.AgentAction, bool) {
	if len(s.CurrentActions) == 0 {
		return domain.AgentAction{}, false
	}
	return s.CurrentActions[len(s.CurrentActions)-1], true
}

// TurnActive reports whether the visible status is Thinking or Executing.
func (s Snapshot) TurnActive() bool {
	return s.AgentStatus.IsActive()
}

func chatView(chat *domain.Chat) ChatView {
	return ChatView{
		ID:        chat.ID(),
		Title:     chat.Title(),
		Starred:   chat.Starred(),
		Messages:  chat.Messages(),
		CreatedAt: chat.CreatedAt(),
		UpdatedAt: chat.UpdatedAt(),
	}
}
