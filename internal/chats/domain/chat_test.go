package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewChat_Defaults(t *testing.T) {
	chat := NewChat("chat-1")

	require.Equal(t, "chat-1", chat.ID())
	require.Equal(t, DefaultTitle, chat.Title())
	require.False(t, chat.Starred())
	require.Zero(t, chat.MessageCount())
	require.False(t, chat.CreatedAt().IsZero())
	require.Equal(t, chat.CreatedAt(), chat.UpdatedAt())
}

func TestChat_AppendPreservesCommitOrder(t *testing.T) {
	chat := NewChat("chat-1")

	chat.Append(NewUserMessage("m1", "find me a flight"))
	chat.Append(NewAgentMessage("m2", "Found 3 options", nil, nil))
	chat.Append(NewUserMessage("m3", "book the first one"))

	msgs := chat.Messages()
	require.Len(t, msgs, 3)
	require.Equal(t, []string{"m1", "m2", "m3"}, []string{msgs[0].ID(), msgs[1].ID(), msgs[2].ID()})
}

func TestChat_AppendBumpsUpdatedAt(t *testing.T) {
	chat := NewChat("chat-1")
	before := chat.UpdatedAt()

	time.Sleep(2 * time.Millisecond)
	chat.Append(NewUserMessage("m1", "hello"))

	require.True(t, chat.UpdatedAt().After(before))
}

func TestChat_FirstUserMessageReplacesPlaceholderTitle(t *testing.T) {
	chat := NewChat("chat-1")

	chat.Append(NewUserMessage("m1", "analyze this quarterly report"))

	require.Equal(t, "analyze this quarterly report", chat.Title())

	// A second user message does not overwrite the derived title.
	chat.Append(NewUserMessage("m2", "something else entirely"))
	require.Equal(t, "analyze this quarterly report", chat.Title())
}

func TestChat_AgentMessageDoesNotSetTitle(t *testing.T) {
	chat := NewChat("chat-1")

	chat.Append(NewAgentMessage("m1", "hello, how can I help?", nil, nil))

	require.Equal(t, DefaultTitle, chat.Title())
}

func TestChat_ToggleStar(t *testing.T) {
	chat := NewChat("chat-1")
	updated := chat.UpdatedAt()

	chat.ToggleStar()
	require.True(t, chat.Starred())
	require.Equal(t, updated, chat.UpdatedAt(), "starring must not reorder recency")

	chat.ToggleStar()
	require.False(t, chat.Starred())
}

func TestChat_MessagesReturnsCopy(t *testing.T) {
	chat := NewChat("chat-1")
	chat.Append(NewUserMessage("m1", "hello"))

	msgs := chat.Messages()
	msgs[0] = NewUserMessage("tampered", "tampered")

	require.Equal(t, "m1", chat.Messages()[0].ID())
}

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"simple", "find me a flight", "find me a flight"},
		{"collapses whitespace", "  find\n\tme   a flight  ", "find me a flight"},
		{"empty falls back", "   ", DefaultTitle},
		{"truncates long input", strings.Repeat("a", 80), strings.Repeat("a", 39) + "…"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, DeriveTitle(tt.content))
		})
	}
}

func TestMessage_UserNeverCarriesActionsOrScreenshots(t *testing.T) {
	m := NewUserMessage("m1", "hello")

	require.Equal(t, RoleUser, m.Role())
	require.Empty(t, m.Actions())
	require.Empty(t, m.Screenshots())
}

func TestMessage_AgentCarriesClonedSlices(t *testing.T) {
	actions := []AgentAction{{Title: "Searching flights", Status: StatusDone}}
	shots := []Screenshot{{Step: 1, Base64: "aGk="}}

	m := NewAgentMessage("m1", "done", actions, shots)

	actions[0].Title = "tampered"
	shots[0].Step = 99

	require.Equal(t, "Searching flights", m.Actions()[0].Title)
	require.Equal(t, 1, m.Screenshots()[0].Step)
}

func TestScreenshot_HasVisual(t *testing.T) {
	require.True(t, Screenshot{Step: 1, Base64: "aGk="}.HasVisual())
	require.True(t, Screenshot{Step: 1, URL: "https://example.com/s.png"}.HasVisual())
	require.False(t, Screenshot{Step: 1}.HasVisual())
}

func TestAgentStatus_Predicates(t *testing.T) {
	require.True(t, StatusDone.IsTerminal())
	require.True(t, StatusError.IsTerminal())
	require.False(t, StatusThinking.IsTerminal())

	require.True(t, StatusThinking.IsActive())
	require.True(t, StatusExecuting.IsActive())
	require.False(t, StatusIdle.IsActive())

	require.True(t, StatusIdle.IsValid())
	require.False(t, AgentStatus("bogus").IsValid())
}
