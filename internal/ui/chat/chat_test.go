package chat

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShivamAgarwal-code/AI-Cortex/internal/chats/domain"
	"github.com/ShivamAgarwal-code/AI-Cortex/internal/pubsub"
	"github.com/ShivamAgarwal-code/AI-Cortex/internal/session"
	"github.com/ShivamAgarwal-code/AI-Cortex/internal/transport"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	m.Run()
}

// stubChannel is an in-memory transport.Channel for driving the
// controller from tests.
type stubChannel struct {
	events chan transport.Event
	sent   []string
}

func newStubChannel() *stubChannel {
	return &stubChannel{events: make(chan transport.Event, 16)}
}

func (c *stubChannel) Events() <-chan transport.Event { return c.events }

func (c *stubChannel) Send(_ context.Context, text string) error {
	c.sent = append(c.sent, text)
	return nil
}

func (c *stubChannel) Close() error {
	close(c.events)
	return nil
}

func newTestModel(t *testing.T) (Model, *session.Controller, *stubChannel) {
	t.Helper()

	ch := newStubChannel()
	controller, err := session.NewController(session.Config{
		Channel:       ch,
		AutoReconnect: true,
	})
	require.NoError(t, err)
	t.Cleanup(controller.Close)

	m := New(Config{Controller: controller})
	t.Cleanup(m.Cleanup)

	m = resize(t, m, 80, 24)
	return m, controller, ch
}

func resize(t *testing.T, m Model, w, h int) Model {
	t.Helper()
	next, _ := m.Update(tea.WindowSizeMsg{Width: w, Height: h})
	return next.(Model)
}

// syncSnapshot pushes the controller's current snapshot into the model
// the way the pubsub listener would deliver it.
func syncSnapshot(t *testing.T, m Model, c *session.Controller) Model {
	t.Helper()
	next, _ := m.Update(pubsub.Event[session.Snapshot]{
		Type:    pubsub.UpdatedEvent,
		Payload: c.Snapshot(),
	})
	return next.(Model)
}

func pressKey(t *testing.T, m Model, keyType tea.KeyType) Model {
	t.Helper()
	next, _ := m.Update(tea.KeyMsg{Type: keyType})
	return next.(Model)
}

func pressRune(t *testing.T, m Model, r rune) Model {
	t.Helper()
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	return next.(Model)
}

func TestModel_EnterSendsMessage(t *testing.T) {
	m, c, ch := newTestModel(t)
	c.HandleEvent(transport.Event{Kind: transport.KindConnect})
	m = syncSnapshot(t, m, c)

	m.input.SetValue("check the deploy status")
	m = pressKey(t, m, tea.KeyEnter)

	require.Equal(t, []string{"check the deploy status"}, ch.sent)
	assert.Empty(t, m.input.Value(), "input resets after send")

	m = syncSnapshot(t, m, c)
	view := m.View()
	assert.Contains(t, view, "You")
	assert.Contains(t, view, "check the deploy status")
}

func TestModel_EmptyInputSendsNothing(t *testing.T) {
	m, c, ch := newTestModel(t)
	c.HandleEvent(transport.Event{Kind: transport.KindConnect})
	m = syncSnapshot(t, m, c)

	m = pressKey(t, m, tea.KeyEnter)

	assert.Empty(t, ch.sent)
}

func TestModel_StatusBarShowsLinkState(t *testing.T) {
	m, c, _ := newTestModel(t)

	assert.Contains(t, m.View(), "offline")

	c.HandleEvent(transport.Event{Kind: transport.KindConnect})
	m = syncSnapshot(t, m, c)
	assert.Contains(t, m.View(), "connected")

	c.HandleEvent(transport.Event{Kind: transport.KindDisconnect})
	m = syncSnapshot(t, m, c)
	assert.Contains(t, m.View(), "reconnecting")
}

func TestModel_ActiveTurnShowsStatus(t *testing.T) {
	m, c, _ := newTestModel(t)
	c.HandleEvent(transport.Event{Kind: transport.KindConnect})
	c.SendMessage(context.Background(), "hello")
	m = syncSnapshot(t, m, c)

	assert.Contains(t, m.View(), "Thinking")

	c.HandleEvent(transport.Event{Kind: transport.KindAgentStatus, Status: domain.StatusExecuting})
	m = syncSnapshot(t, m, c)
	assert.Contains(t, m.View(), "Executing")
}

func TestModel_StepGapNotice(t *testing.T) {
	m, c, _ := newTestModel(t)
	c.HandleEvent(transport.Event{Kind: transport.KindConnect})
	c.SendMessage(context.Background(), "hello")
	c.HandleEvent(transport.Event{Kind: transport.KindScreenshot, Step: 3, Description: "late step"})
	m = syncSnapshot(t, m, c)

	view := m.View()
	assert.Contains(t, view, "late step")
	assert.Contains(t, view, "steps missing")
}

func TestModel_CommittedTurnRendersActions(t *testing.T) {
	m, c, _ := newTestModel(t)
	c.HandleEvent(transport.Event{Kind: transport.KindConnect})
	c.SendMessage(context.Background(), "restart the worker")
	c.HandleEvent(transport.Event{Kind: transport.KindAgentAction, Title: "Restarting worker", Description: "draining first"})
	c.HandleEvent(transport.Event{Kind: transport.KindAgentStatus, Status: domain.StatusDone})
	m = syncSnapshot(t, m, c)

	view := m.View()
	assert.Contains(t, view, "Restarting worker")
	assert.Contains(t, view, "draining first")
	assert.NotContains(t, view, "Thinking")
}

func TestModel_SidebarNavigationAndSelect(t *testing.T) {
	m, c, _ := newTestModel(t)
	first := c.CreateNewChat()
	time.Sleep(2 * time.Millisecond)
	c.CreateNewChat()
	m = syncSnapshot(t, m, c)

	m = pressKey(t, m, tea.KeyTab)
	require.Equal(t, focusSidebar, m.focus)

	m = pressRune(t, m, 'j')
	require.Equal(t, 1, m.sidebarCursor)

	m = pressKey(t, m, tea.KeyEnter)
	assert.Equal(t, focusInput, m.focus)

	// The second row is the older chat (recency ordering).
	m = syncSnapshot(t, m, c)
	assert.Equal(t, first, m.snapshot.CurrentChatID)
}

func TestModel_DeleteRequiresConfirmation(t *testing.T) {
	m, c, _ := newTestModel(t)
	id := c.CreateNewChat()
	m = syncSnapshot(t, m, c)
	m = pressKey(t, m, tea.KeyTab)

	m = pressRune(t, m, 'd')
	assert.Equal(t, id, m.pendingDelete)
	assert.Len(t, c.Snapshot().Chats, 1, "first press only marks")

	m = pressRune(t, m, 'd')
	assert.Empty(t, m.pendingDelete)
	assert.Empty(t, c.Snapshot().Chats, "second press deletes")
}

func TestModel_DeleteCancelledByEscape(t *testing.T) {
	m, c, _ := newTestModel(t)
	c.CreateNewChat()
	m = syncSnapshot(t, m, c)
	m = pressKey(t, m, tea.KeyTab)

	m = pressRune(t, m, 'd')
	m = pressKey(t, m, tea.KeyEsc)

	assert.Empty(t, m.pendingDelete)
	assert.Len(t, c.Snapshot().Chats, 1)
}

func TestModel_StarToggle(t *testing.T) {
	m, c, _ := newTestModel(t)
	c.CreateNewChat()
	m = syncSnapshot(t, m, c)
	m = pressKey(t, m, tea.KeyTab)

	m = pressRune(t, m, 's')
	assert.True(t, c.Snapshot().Chats[0].Starred)
}

func TestModel_CtrlNCreatesChat(t *testing.T) {
	m, c, _ := newTestModel(t)
	m = pressKey(t, m, tea.KeyCtrlN)

	assert.Len(t, c.Snapshot().Chats, 1)
}

func TestModel_Smoke(t *testing.T) {
	ch := newStubChannel()
	controller, err := session.NewController(session.Config{
		Channel:       ch,
		AutoReconnect: true,
	})
	require.NoError(t, err)
	t.Cleanup(controller.Close)

	m := New(Config{Controller: controller})
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(80, 24))

	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return strings.Contains(string(b), "Chats")
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))
}
