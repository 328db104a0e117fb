package transport

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ShivamAgarwal-code/AI-Cortex/internal/chats/domain"
)

func TestDecode_ValidFrames(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Event
	}{
		{
			name: "connect",
			raw:  `{"type":"connect"}`,
			want: Event{Kind: KindConnect},
		},
		{
			name: "disconnect",
			raw:  `{"type":"disconnect"}`,
			want: Event{Kind: KindDisconnect},
		},
		{
			name: "agent status",
			raw:  `{"type":"agent_status","status":"executing"}`,
			want: Event{Kind: KindAgentStatus, Status: domain.StatusExecuting},
		},
		{
			name: "agent action",
			raw:  `{"type":"agent_action","title":"Searching flights","description":"querying providers"}`,
			want: Event{Kind: KindAgentAction, Title: "Searching flights", Description: "querying providers"},
		},
		{
			name: "screenshot inline",
			raw:  `{"type":"screenshot","step":2,"base64":"aGk=","description":"results page"}`,
			want: Event{Kind: KindScreenshot, Step: 2, Base64: "aGk=", Description: "results page"},
		},
		{
			name: "screenshot referenced",
			raw:  `{"type":"screenshot","step":3,"url":"https://example.com/s3.png"}`,
			want: Event{Kind: KindScreenshot, Step: 3, URL: "https://example.com/s3.png"},
		},
		{
			name: "screenshot without visual",
			raw:  `{"type":"screenshot","step":1}`,
			want: Event{Kind: KindScreenshot, Step: 1},
		},
		{
			name: "agent error",
			raw:  `{"type":"agent_error","message":"model overloaded"}`,
			want: Event{Kind: KindAgentError, Message: "model overloaded"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.raw))
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestDecode_ProtocolViolations(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"unknown kind", `{"type":"telemetry"}`},
		{"not json", `{{{`},
		{"invalid status", `{"type":"agent_status","status":"pondering"}`},
		{"action without title", `{"type":"agent_action","description":"no title"}`},
		{"screenshot step zero", `{"type":"screenshot","step":0,"base64":"aGk="}`},
		{"screenshot negative step", `{"type":"screenshot","step":-2}`},
		{"screenshot with both payloads", `{"type":"screenshot","step":1,"base64":"aGk=","url":"https://example.com/s.png"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.raw))
			require.Error(t, err)

			var protoErr *ProtocolError
			require.ErrorAs(t, err, &protoErr)
		})
	}
}

func TestEncodeSend(t *testing.T) {
	raw, err := EncodeSend("find me a flight")
	require.NoError(t, err)

	var frame map[string]string
	require.NoError(t, json.Unmarshal(raw, &frame))
	require.Equal(t, "send_message", frame["type"])
	require.Equal(t, "find me a flight", frame["text"])
}
