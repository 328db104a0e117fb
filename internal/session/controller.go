package session

import (
	"context"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/ShivamAgarwal-code/AI-Cortex/internal/chats/domain"
	"github.com/ShivamAgarwal-code/AI-Cortex/internal/log"
	"github.com/ShivamAgarwal-code/AI-Cortex/internal/pubsub"
	"github.com/ShivamAgarwal-code/AI-Cortex/internal/transport"
)

// turn is the transient state of one in-flight agent turn. It belongs
// to the chat it started in, not to the current selection: switching
// chats detaches the view but the turn still commits into its own chat
// when a terminal event arrives, so no agent output is silently lost.
type turn struct {
	chatID  string
	machine *Machine
	steps   *Aggregator
	actions []domain.AgentAction
	span    trace.Span
}

// Config configures a Controller.
type Config struct {
	// Channel is the event channel to the agent backend.
	// May be nil for offline operation (tests, demo mode).
	Channel transport.Channel

	// Repository persists the chat list across sessions. May be nil.
	Repository domain.ChatRepository

	// AutoReconnect tells the monitor whether a dropped link will be
	// redialed, so the UI can show "reconnecting" instead of "offline".
	AutoReconnect bool

	// Tracer records one span per turn. Nil means no tracing.
	Tracer trace.Tracer
}

// Controller is the façade consumed by the view layer. It wires the
// status machine, step aggregator, chat store, and connection monitor
// together, applies inbound events in arrival order, and publishes an
// immutable Snapshot after every accepted mutation.
//
// The transport delivers events on its own goroutine while the UI
// calls the imperative operations from the update loop, so a mutex
// serializes all mutation; within the lock each event is applied and
// its snapshot derived atomically.
type Controller struct {
	mu      sync.Mutex
	store   *Store
	monitor *Monitor
	channel transport.Channel
	broker  *pubsub.Broker[Snapshot]
	tracer  trace.Tracer
	turn    *turn
}

// NewController builds the controller and hydrates the chat list from
// the repository when one is configured.
func NewController(cfg Config) (*Controller, error) {
	store := NewStore(cfg.Repository)
	if err := store.Load(); err != nil {
		return nil, err
	}

	tracer := cfg.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("session")
	}

	return &Controller{
		store:   store,
		monitor: NewMonitor(cfg.AutoReconnect),
		channel: cfg.Channel,
		broker:  pubsub.NewBroker[Snapshot](),
		tracer:  tracer,
	}, nil
}

// Run consumes the channel's event stream until ctx is cancelled or
// the stream closes. It is the only reader of inbound events, which
// preserves arrival order end to end.
func (c *Controller) Run(ctx context.Context) {
	if c.channel == nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-c.channel.Events():
			if !ok {
				return
			}
			c.HandleEvent(event)
		}
	}
}

// Broker exposes the snapshot broker for subscribers.
func (c *Controller) Broker() *pubsub.Broker[Snapshot] {
	return c.broker
}

// Snapshot returns the current derived view of session state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Close shuts down snapshot publication. The transport channel is
// owned by the caller and closed separately.
func (c *Controller) Close() {
	c.broker.Close()
}

// SendMessage starts a new turn with the trimmed text. It is a silent
// no-op when the text is empty, a turn is already in flight, or the
// channel is down.
func (c *Controller) SendMessage(ctx context.Context, text string) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.turn != nil {
		log.Debug(log.CatSession, "send rejected: turn in flight", "chat", c.turn.chatID)
		return
	}
	if !c.monitor.IsConnected() {
		log.Warn(log.CatSession, "send rejected: channel down")
		return
	}

	c.store.AppendUserMessage(trimmed)
	chatID := c.store.CurrentID()

	_, span := c.tracer.Start(context.Background(), "agent.turn",
		trace.WithAttributes(attribute.String("chat.id", chatID)))

	c.turn = &turn{
		chatID:  chatID,
		machine: NewMachine(),
		steps:   NewAggregator(),
		span:    span,
	}
	c.turn.machine.Transition(domain.StatusThinking)

	if err := c.channel.Send(ctx, trimmed); err != nil {
		log.ErrorErr(log.CatSession, "send failed", err, "chat", chatID)
		c.failTurnLocked("Send failed", "The message could not be delivered to the agent.")
	}

	c.publishLocked()
}

// CreateNewChat allocates and selects a fresh chat, returning its id.
// An in-flight turn keeps running detached in its own chat.
func (c *Controller) CreateNewChat() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	chat := c.store.CreateChat()
	c.publishLocked()
	return chat.ID()
}

// SelectChat switches the current chat. Unknown ids are a silent no-op
// with no snapshot published. Switching detaches the view from any
// in-flight turn without cancelling the agent's work upstream.
func (c *Controller) SelectChat(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.store.SelectChat(id) {
		return
	}
	c.publishLocked()
}

// ToggleStar flips a chat's star flag. Unknown ids are a no-op.
func (c *Controller) ToggleStar(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.store.ToggleStar(id) {
		return
	}
	c.publishLocked()
}

// RemoveChat deletes a chat. Removing the chat that owns the in-flight
// turn discards the turn: there is no log left to commit it into.
func (c *Controller) RemoveChat(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.store.RemoveChat(id) {
		return
	}
	if c.turn != nil && c.turn.chatID == id {
		c.endTurnSpanLocked("discarded")
		c.turn = nil
	}
	c.publishLocked()
}

// HandleEvent applies one inbound transport event. Events are applied
// in arrival order; rejected events leave the snapshot untouched.
func (c *Controller) HandleEvent(event transport.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch event.Kind {
	case transport.KindConnect:
		c.monitor.MarkConnected()
		c.publishLocked()

	case transport.KindDisconnect:
		c.monitor.MarkDisconnected()
		if c.turn != nil && c.turn.machine.Current().IsActive() {
			c.failTurnLocked("Connection lost", "The channel to the agent dropped before the turn completed.")
		}
		c.publishLocked()

	case transport.KindAgentStatus:
		c.handleStatusLocked(event.Status)

	case transport.KindAgentAction:
		if c.turn == nil {
			log.Warn(log.CatSession, "action without active turn", "title", event.Title)
			return
		}
		c.turn.actions = append(c.turn.actions, domain.AgentAction{
			Title:       event.Title,
			Description: event.Description,
			Status:      c.turn.machine.Current(),
		})
		c.publishLocked()

	case transport.KindScreenshot:
		c.handleScreenshotLocked(event)

	case transport.KindAgentError:
		if c.turn == nil {
			log.Warn(log.CatSession, "agent_error without active turn", "message", event.Message)
			return
		}
		message := event.Message
		if message == "" {
			message = "The agent reported an error."
		}
		c.failTurnLocked("Agent error", message)
		c.publishLocked()
	}
}

func (c *Controller) handleStatusLocked(status domain.AgentStatus) {
	if c.turn == nil {
		log.Warn(log.CatSession, "status without active turn", "status", status)
		return
	}
	if !c.turn.machine.Transition(status) {
		return
	}

	switch {
	case status == domain.StatusIdle:
		// Forced reset from upstream: abandon the turn without commit.
		c.endTurnSpanLocked("reset")
		c.turn = nil
	case status.IsTerminal():
		content := ""
		if status == domain.StatusDone {
			content = doneContent(c.turn.actions)
		} else {
			content = "The agent was unable to complete this request."
		}
		c.commitTurnLocked(content)
	}
	c.publishLocked()
}

func (c *Controller) handleScreenshotLocked(event transport.Event) {
	if c.turn == nil {
		log.Warn(log.CatSession, "screenshot without active turn", "step", event.Step)
		return
	}
	// A step arriving while Thinking means the agent began acting.
	if c.turn.machine.Current() == domain.StatusThinking {
		c.turn.machine.Transition(domain.StatusExecuting)
	}
	if c.turn.machine.Current() != domain.StatusExecuting {
		log.Warn(log.CatSession, "screenshot outside executing", "step", event.Step)
		return
	}
	applied := c.turn.steps.Apply(StepEvent{
		Step:        event.Step,
		Description: event.Description,
		Base64:      event.Base64,
		URL:         event.URL,
	})
	if !applied {
		return
	}
	c.publishLocked()
}

// failTurnLocked forces the active turn to Error with a synthetic
// action and commits it immediately, so the UI never shows an
// indefinite spinner for a dead turn.
func (c *Controller) failTurnLocked(title, description string) {
	if c.turn == nil {
		return
	}
	c.turn.actions = append(c.turn.actions, domain.AgentAction{
		Title:       title,
		Description: description,
		Status:      domain.StatusError,
	})
	c.turn.machine.Transition(domain.StatusError)
	c.commitTurnLocked(description)
}

// commitTurnLocked finalizes the in-flight turn into one immutable
// message and discards all transient state, leaving status Idle and
// the step list empty regardless of what preceded it.
func (c *Controller) commitTurnLocked(content string) {
	t := c.turn
	if t == nil {
		return
	}

	c.store.CommitAgentTurn(t.chatID, content, t.actions, t.steps.Steps())

	c.endTurnSpanLocked(string(t.machine.Current()))
	t.steps.Reset()
	t.machine.Reset()
	c.turn = nil
}

func (c *Controller) endTurnSpanLocked(outcome string) {
	t := c.turn
	if t == nil || t.span == nil {
		return
	}
	t.span.SetAttributes(
		attribute.String("turn.outcome", outcome),
		attribute.Int("turn.steps", t.steps.Len()),
		attribute.Int("turn.actions", len(t.actions)),
	)
	t.span.End()
}

// snapshotLocked derives a fresh immutable snapshot. A turn whose chat
// is no longer selected is masked: its progress stays invisible until
// it commits into its own chat.
func (c *Controller) snapshotLocked() Snapshot {
	chats := c.store.Chats()
	views := make([]ChatView, len(chats))
	for i, chat := range chats {
		views[i] = chatView(chat)
	}

	snap := Snapshot{
		Chats:         views,
		CurrentChatID: c.store.CurrentID(),
		AgentStatus:   domain.StatusIdle,
		Link:          c.monitor.State(),
		Connected:     c.monitor.IsConnected(),
	}

	if c.turn != nil && c.turn.chatID == c.store.CurrentID() {
		snap.AgentStatus = c.turn.machine.Current()
		snap.CurrentActions = append([]domain.AgentAction(nil), c.turn.actions...)
		snap.CurrentScreenshots = c.turn.steps.Steps()
		snap.StepGap = c.turn.steps.HasGap()
	}
	return snap
}

func (c *Controller) publishLocked() {
	c.broker.Publish(pubsub.UpdatedEvent, c.snapshotLocked())
}

// doneContent summarizes a successful turn from its reported actions.
func doneContent(actions []domain.AgentAction) string {
	if len(actions) == 0 {
		return "Completed."
	}
	last := actions[len(actions)-1]
	if last.Description != "" {
		return last.Description
	}
	return last.Title
}
