package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShivamAgarwal-code/AI-Cortex/internal/chats/domain"
)

func TestStore_CreateChatBecomesCurrent(t *testing.T) {
	s := NewStore(nil)

	chat := s.CreateChat()

	require.NotNil(t, chat)
	assert.Equal(t, chat.ID(), s.CurrentID())
	assert.Equal(t, domain.DefaultTitle, chat.Title())
}

func TestStore_SelectChat(t *testing.T) {
	s := NewStore(nil)
	first := s.CreateChat()
	second := s.CreateChat()
	require.Equal(t, second.ID(), s.CurrentID())

	require.True(t, s.SelectChat(first.ID()))
	assert.Equal(t, first.ID(), s.CurrentID())
}

func TestStore_SelectUnknownChatIsNoOp(t *testing.T) {
	s := NewStore(nil)
	chat := s.CreateChat()

	require.False(t, s.SelectChat("no-such-chat"))
	assert.Equal(t, chat.ID(), s.CurrentID(), "selection must be unchanged")
}

func TestStore_AppendUserMessageCreatesChatLazily(t *testing.T) {
	s := NewStore(nil)
	require.Empty(t, s.CurrentID())

	msg := s.AppendUserMessage("check disk usage on the build host")

	chat := s.Current()
	require.NotNil(t, chat)
	require.Equal(t, 1, chat.MessageCount())
	assert.Equal(t, domain.RoleUser, msg.Role())
	assert.Equal(t, "check disk usage on the build host", chat.Messages()[0].Content())
	assert.Equal(t, "check disk usage on the build host", chat.Title())
}

func TestStore_CommitAgentTurnToNonCurrentChat(t *testing.T) {
	s := NewStore(nil)
	owner := s.CreateChat()
	s.AppendUserMessage("first request")
	s.CreateChat()

	msg, ok := s.CommitAgentTurn(owner.ID(), "done", []domain.AgentAction{
		{Title: "Searched", Status: domain.StatusDone},
	}, nil)

	require.True(t, ok)
	assert.Equal(t, domain.RoleAgent, msg.Role())
	require.Equal(t, 2, owner.MessageCount())
	last, _ := owner.LastMessage()
	assert.Equal(t, "done", last.Content())
	assert.NotEqual(t, owner.ID(), s.CurrentID(), "commit must not steal the selection")
}

func TestStore_CommitAgentTurnUnknownChat(t *testing.T) {
	s := NewStore(nil)

	_, ok := s.CommitAgentTurn("gone", "done", nil, nil)

	assert.False(t, ok)
}

func TestStore_ChatsOrderedByRecency(t *testing.T) {
	s := NewStore(nil)
	first := s.CreateChat()
	time.Sleep(2 * time.Millisecond)
	second := s.CreateChat()
	time.Sleep(2 * time.Millisecond)

	// Appending to the older chat moves it to the front.
	first.Append(domain.NewUserMessage("m1", "hello"))

	chats := s.Chats()
	require.Len(t, chats, 2)
	assert.Equal(t, first.ID(), chats[0].ID())
	assert.Equal(t, second.ID(), chats[1].ID())
}

func TestStore_ToggleStarDoesNotReorder(t *testing.T) {
	s := NewStore(nil)
	first := s.CreateChat()
	time.Sleep(2 * time.Millisecond)
	second := s.CreateChat()

	require.True(t, s.ToggleStar(first.ID()))

	chats := s.Chats()
	assert.Equal(t, second.ID(), chats[0].ID(), "starring must not affect recency order")
	assert.True(t, first.Starred())

	require.True(t, s.ToggleStar(first.ID()))
	assert.False(t, first.Starred())
}

func TestStore_ToggleStarUnknownChat(t *testing.T) {
	s := NewStore(nil)
	assert.False(t, s.ToggleStar("missing"))
}

func TestStore_RemoveChat(t *testing.T) {
	s := NewStore(nil)
	chat := s.CreateChat()

	require.True(t, s.RemoveChat(chat.ID()))

	assert.Empty(t, s.CurrentID(), "removing the current chat clears the selection")
	assert.Nil(t, s.Get(chat.ID()))
	assert.False(t, s.RemoveChat(chat.ID()))
}

func TestStore_RemoveOtherChatKeepsSelection(t *testing.T) {
	s := NewStore(nil)
	first := s.CreateChat()
	second := s.CreateChat()

	require.True(t, s.RemoveChat(first.ID()))

	assert.Equal(t, second.ID(), s.CurrentID())
}
