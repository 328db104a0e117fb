package session

import "github.com/ShivamAgarwal-code/AI-Cortex/internal/log"

// LinkState describes channel connectivity.
type LinkState string

const (
	// LinkConnected means the channel is up.
	LinkConnected LinkState = "connected"
	// LinkDisconnected means the channel is down and no redial is pending.
	LinkDisconnected LinkState = "disconnected"
	// LinkReconnecting means the channel is down but redialing.
	LinkReconnecting LinkState = "reconnecting"
)

// Monitor tracks channel connectivity. It gates outbound sends (via
// IsConnected) and lets the controller fail an active turn the moment
// the backing channel dies.
type Monitor struct {
	state      LinkState
	autoReconn bool
	wasEverUp  bool
}

// NewMonitor creates a monitor in the disconnected state. autoReconnect
// selects whether a drop is reported as reconnecting or disconnected.
func NewMonitor(autoReconnect bool) *Monitor {
	return &Monitor{state: LinkDisconnected, autoReconn: autoReconnect}
}

// MarkConnected records the channel coming up.
func (m *Monitor) MarkConnected() {
	if m.state != LinkConnected {
		log.Info(log.CatConn, "channel up")
	}
	m.state = LinkConnected
	m.wasEverUp = true
}

// MarkDisconnected records the channel going down.
func (m *Monitor) MarkDisconnected() {
	if m.autoReconn && m.wasEverUp {
		m.state = LinkReconnecting
	} else {
		m.state = LinkDisconnected
	}
	log.Warn(log.CatConn, "channel down", "state", m.state)
}

// State returns the current link state.
func (m *Monitor) State() LinkState {
	return m.state
}

// IsConnected reports whether the channel is usable for sends.
func (m *Monitor) IsConnected() bool {
	return m.state == LinkConnected
}
