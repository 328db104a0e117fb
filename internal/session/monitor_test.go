package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMonitor_StartsDisconnected(t *testing.T) {
	m := NewMonitor(true)

	assert.Equal(t, LinkDisconnected, m.State())
	assert.False(t, m.IsConnected())
}

func TestMonitor_Connect(t *testing.T) {
	m := NewMonitor(true)

	m.MarkConnected()

	assert.Equal(t, LinkConnected, m.State())
	assert.True(t, m.IsConnected())
}

func TestMonitor_DropWithAutoReconnect(t *testing.T) {
	m := NewMonitor(true)
	m.MarkConnected()

	m.MarkDisconnected()

	assert.Equal(t, LinkReconnecting, m.State())
	assert.False(t, m.IsConnected())
}

func TestMonitor_DropWithoutAutoReconnect(t *testing.T) {
	m := NewMonitor(false)
	m.MarkConnected()

	m.MarkDisconnected()

	assert.Equal(t, LinkDisconnected, m.State())
}

func TestMonitor_FailedFirstDialIsNotReconnecting(t *testing.T) {
	m := NewMonitor(true)

	m.MarkDisconnected()

	assert.Equal(t, LinkDisconnected, m.State(),
		"never-established link reports disconnected, not reconnecting")
}

func TestMonitor_Recovers(t *testing.T) {
	m := NewMonitor(true)
	m.MarkConnected()
	m.MarkDisconnected()

	m.MarkConnected()

	assert.True(t, m.IsConnected())
}
