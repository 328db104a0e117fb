package transport

import "context"

// Channel is a bidirectional event channel to the agent backend.
//
// Events delivers inbound events in arrival order; the channel closes
// the stream when Close is called. Send is fire-and-forget from the
// session core's perspective: the turn's progress arrives only through
// subsequent inbound events.
type Channel interface {
	// Events returns the inbound event stream.
	Events() <-chan Event

	// Send transmits a user message upstream.
	Send(ctx context.Context, text string) error

	// Close tears the channel down and closes the event stream.
	Close() error
}
