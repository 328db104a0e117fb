// Package transport defines the event-channel boundary between the
// session core and the remote agent.
//
// Inbound traffic is a closed set of event kinds decoded from JSON
// frames; unknown kinds are a protocol violation and never reach the
// session core. The concrete channel (websocket) lives behind the
// Channel interface so the core and its tests never touch a socket.
package transport

import (
	"encoding/json"
	"fmt"

	"github.com/ShivamAgarwal-code/AI-Cortex/internal/chats/domain"
)

// Kind identifies an inbound event.
type Kind string

const (
	// KindConnect signals the channel came up.
	KindConnect Kind = "connect"
	// KindDisconnect signals the channel went down.
	KindDisconnect Kind = "disconnect"
	// KindAgentStatus carries an agent lifecycle transition.
	KindAgentStatus Kind = "agent_status"
	// KindAgentAction announces a sub-goal the agent is working on.
	KindAgentAction Kind = "agent_action"
	// KindScreenshot carries one step of visual progress.
	KindScreenshot Kind = "screenshot"
	// KindAgentError reports a failure terminating the turn.
	KindAgentError Kind = "agent_error"
)

// Event is the tagged union of inbound transport events. Kind selects
// which payload fields are meaningful.
type Event struct {
	Kind Kind

	// Status is set for KindAgentStatus.
	Status domain.AgentStatus

	// Title and Description are set for KindAgentAction.
	Title       string
	Description string

	// Step, Base64 and URL are set for KindScreenshot; Description is
	// shared with KindAgentAction. At most one of Base64/URL is populated.
	Step   int
	Base64 string
	URL    string

	// Message is set for KindAgentError.
	Message string
}

// ProtocolError marks an inbound frame the core must discard: unknown
// kind, undecodable JSON, or payload values outside the protocol.
type ProtocolError struct {
	Reason string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol violation: %s", e.Reason)
}

// wireEvent is the JSON frame layout shared by all inbound kinds.
type wireEvent struct {
	Type        string `json:"type"`
	Status      string `json:"status,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Step        int    `json:"step,omitempty"`
	Base64      string `json:"base64,omitempty"`
	URL         string `json:"url,omitempty"`
	Message     string `json:"message,omitempty"`
}

// sendFrame is the outbound send_message frame.
type sendFrame struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Decode parses one inbound JSON frame into an Event.
// Returns ProtocolError for frames the session core must never see.
func Decode(raw []byte) (Event, error) {
	var w wireEvent
	if err := json.Unmarshal(raw, &w); err != nil {
		return Event{}, &ProtocolError{Reason: fmt.Sprintf("undecodable frame: %v", err)}
	}

	switch Kind(w.Type) {
	case KindConnect:
		return Event{Kind: KindConnect}, nil
	case KindDisconnect:
		return Event{Kind: KindDisconnect}, nil
	case KindAgentStatus:
		status := domain.AgentStatus(w.Status)
		if !status.IsValid() {
			return Event{}, &ProtocolError{Reason: fmt.Sprintf("unknown agent status %q", w.Status)}
		}
		return Event{Kind: KindAgentStatus, Status: status}, nil
	case KindAgentAction:
		if w.Title == "" {
			return Event{}, &ProtocolError{Reason: "agent_action without title"}
		}
		return Event{Kind: KindAgentAction, Title: w.Title, Description: w.Description}, nil
	case KindScreenshot:
		if w.Step < 1 {
			return Event{}, &ProtocolError{Reason: fmt.Sprintf("screenshot with step %d", w.Step)}
		}
		if w.Base64 != "" && w.URL != "" {
			return Event{}, &ProtocolError{Reason: "screenshot carries both inline and referenced image"}
		}
		return Event{
			Kind:        KindScreenshot,
			Step:        w.Step,
			Description: w.Description,
			Base64:      w.Base64,
			URL:         w.URL,
		}, nil
	case KindAgentError:
		return Event{Kind: KindAgentError, Message: w.Message}, nil
	default:
		return Event{}, &ProtocolError{Reason: fmt.Sprintf("unknown event kind %q", w.Type)}
	}
}

// EncodeSend builds the outbound send_message frame.
func EncodeSend(text string) ([]byte, error) {
	return json.Marshal(sendFrame{Type: "send_message", Text: text})
}
