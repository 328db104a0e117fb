package transport

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/ShivamAgarwal-code/AI-Cortex/internal/log"
)

// ErrNotConnected is returned by Send while the link is down.
var ErrNotConnected = errors.New("transport: not connected")

const (
	initialRedialDelay = time.Second
	maxRedialDelay     = 30 * time.Second
	eventBufferSize    = 64
)

// WebSocketConfig configures the websocket channel.
type WebSocketConfig struct {
	// URL is the ws:// or wss:// endpoint of the agent backend.
	URL string

	// Reconnect enables automatic redial with capped backoff after the
	// link drops. A synthetic disconnect event is emitted either way.
	Reconnect bool
}

// WebSocket implements Channel over a coder/websocket connection.
// Link state changes are surfaced as synthetic connect/disconnect
// events so the session core observes connectivity the same way it
// observes agent progress.
type WebSocket struct {
	cfg    WebSocketConfig
	events chan Event

	mu   sync.Mutex
	conn *websocket.Conn

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

var _ Channel = (*WebSocket)(nil)

// DialWebSocket connects to the agent backend. The initial dial is
// synchronous so a bad endpoint fails fast; afterwards the channel
// maintains the link on its own goroutine.
func DialWebSocket(ctx context.Context, cfg WebSocketConfig) (*WebSocket, error) {
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	conn, _, err := websocket.Dial(ctx, cfg.URL, nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("dialing %s: %w", cfg.URL, err)
	}

	ws := &WebSocket{
		cfg:    cfg,
		events: make(chan Event, eventBufferSize),
		conn:   conn,
		ctx:    runCtx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go ws.run()
	return ws, nil
}

// Events returns the inbound event stream.
func (ws *WebSocket) Events() <-chan Event {
	return ws.events
}

// Send transmits a send_message frame upstream.
func (ws *WebSocket) Send(ctx context.Context, text string) error {
	ws.mu.Lock()
	conn := ws.conn
	ws.mu.Unlock()

	if conn == nil {
		return ErrNotConnected
	}

	frame, err := EncodeSend(text)
	if err != nil {
		return fmt.Errorf("encoding send frame: %w", err)
	}
	if err := conn.Write(ctx, websocket.MessageText, frame); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}

// Close tears down the link and closes the event stream.
func (ws *WebSocket) Close() error {
	ws.cancel()

	ws.mu.Lock()
	conn := ws.conn
	ws.conn = nil
	ws.mu.Unlock()

	if conn != nil {
		_ = conn.Close(websocket.StatusNormalClosure, "client shutdown")
	}
	<-ws.done
	return nil
}

// run owns the link lifecycle: read until failure, surface the drop,
// optionally redial, repeat.
func (ws *WebSocket) run() {
	defer close(ws.done)
	defer close(ws.events)

	for {
		ws.emit(Event{Kind: KindConnect})
		ws.readLoop()

		ws.mu.Lock()
		ws.conn = nil
		ws.mu.Unlock()

		if ws.ctx.Err() != nil {
			return
		}
		ws.emit(Event{Kind: KindDisconnect})

		if !ws.cfg.Reconnect {
			return
		}
		if !ws.redial() {
			return
		}
	}
}

// readLoop pumps frames into the event stream until the link fails.
// Frames that violate the protocol are logged and dropped here so the
// session core only ever sees well-formed events.
func (ws *WebSocket) readLoop() {
	ws.mu.Lock()
	conn := ws.conn
	ws.mu.Unlock()
	if conn == nil {
		return
	}

	for {
		_, raw, err := conn.Read(ws.ctx)
		if err != nil {
			if ws.ctx.Err() == nil {
				log.ErrorErr(log.CatTransport, "read failed", err)
			}
			return
		}

		event, err := Decode(raw)
		if err != nil {
			log.Warn(log.CatTransport, "dropping bad frame", "reason", err.Error())
			continue
		}
		ws.emit(event)
	}
}

// redial reattempts the connection with capped exponential backoff.
// Returns false when the channel is shutting down.
func (ws *WebSocket) redial() bool {
	delay := initialRedialDelay
	for {
		select {
		case <-ws.ctx.Done():
			return false
		case <-time.After(delay):
		}

		conn, _, err := websocket.Dial(ws.ctx, ws.cfg.URL, nil)
		if err == nil {
			ws.mu.Lock()
			ws.conn = conn
			ws.mu.Unlock()
			return true
		}

		log.Warn(log.CatTransport, "redial failed", "url", ws.cfg.URL, "retry_in", delay)
		delay *= 2
		if delay > maxRedialDelay {
			delay = maxRedialDelay
		}
	}
}

func (ws *WebSocket) emit(event Event) {
	select {
	case ws.events <- event:
	case <-ws.ctx.Done():
	}
}
