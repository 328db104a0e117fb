package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestListenCmd_ReceivesEvent(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Close()

	ctx := context.Background()
	ch := broker.Subscribe(ctx)
	cmd := ListenCmd(ctx, ch)

	broker.Publish(UpdatedEvent, "snapshot")

	msg := cmd()
	event, ok := msg.(Event[string])
	require.True(t, ok, "msg should be an Event[string]")
	require.Equal(t, "snapshot", event.Payload)
}

func TestListenCmd_NilOnCancel(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch := broker.Subscribe(ctx)
	cmd := ListenCmd(ctx, ch)

	cancel()

	require.Nil(t, cmd())
}

func TestContinuousListener_SequentialEvents(t *testing.T) {
	broker := NewBroker[int]()
	defer broker.Close()

	listener := NewContinuousListener(context.Background(), broker)

	broker.Publish(UpdatedEvent, 1)
	broker.Publish(UpdatedEvent, 2)

	// Each Listen call yields the next buffered event.
	first := listener.Listen()()
	second := listener.Listen()()

	require.Equal(t, 1, first.(Event[int]).Payload)
	require.Equal(t, 2, second.(Event[int]).Payload)
}

func TestContinuousListener_ClosedBroker(t *testing.T) {
	broker := NewBroker[int]()
	listener := NewContinuousListener(context.Background(), broker)

	broker.Close()
	time.Sleep(10 * time.Millisecond)

	require.Nil(t, listener.Listen()())
}
