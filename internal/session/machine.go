// Package session implements the synchronization core: the
// authoritative client-side model of chats, agent status, in-flight
// turn progress, and connectivity, merged from asynchronously arriving
// transport events into immutable snapshots.
package session

import (
	"github.com/ShivamAgarwal-code/AI-Cortex/internal/chats/domain"
	"github.com/ShivamAgarwal-code/AI-Cortex/internal/log"
)

// transitions is the set of permitted status changes for a turn.
// StatusIdle is reachable from every state (forced reset) and is
// handled separately in Transition.
var transitions = map[domain.AgentStatus]map[domain.AgentStatus]bool{
	domain.StatusIdle: {
		domain.StatusThinking: true,
	},
	domain.StatusThinking: {
		domain.StatusExecuting: true,
		domain.StatusDone:      true,
		domain.StatusError:     true,
	},
	domain.StatusExecuting: {
		domain.StatusExecuting: true, // self-loop: another step arrived
		domain.StatusDone:      true,
		domain.StatusError:     true,
	},
	// Done and Error are terminal; the turn is committed and the
	// machine reset before anything else can happen.
	domain.StatusDone:  {},
	domain.StatusError: {},
}

// Machine validates agent status transitions for one turn.
// Invalid transitions are rejected fail-soft: the event is discarded,
// the prior status retained, and the rejection logged.
type Machine struct {
	current domain.AgentStatus
}

// NewMachine creates a machine in the Idle state.
func NewMachine() *Machine {
	return &Machine{current: domain.StatusIdle}
}

// Current returns the current status.
func (m *Machine) Current() domain.AgentStatus {
	return m.current
}

// Transition attempts to move to the given status. Returns false and
// leaves the status unchanged when the transition is not permitted.
// A transition to StatusIdle is always permitted (forced reset).
func (m *Machine) Transition(to domain.AgentStatus) bool {
	if to == domain.StatusIdle {
		m.current = domain.StatusIdle
		return true
	}
	if !transitions[m.current][to] {
		log.Warn(log.CatStatus, "rejected transition", "from", m.current, "to", to)
		return false
	}
	m.current = to
	return true
}

// Reset forces the machine back to Idle from any state.
func (m *Machine) Reset() {
	m.current = domain.StatusIdle
}
