package ws

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolhub_backend/internal/services"
)

func newTestClient(userID string, buffer int) *Client {
	return &Client{
		UserID: userID,
		Send:   make(chan services.Event, buffer),
		done:   make(chan struct{}),
		rooms:  make(map[string]struct{}),
	}
}

func evicted(c *Client) bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

func TestManager_RegisterAndReconnect(t *testing.T) {
	m := NewManager()
	go m.Run()

	first := newTestClient("user-1", 1)
	m.register <- first
	require.Eventually(t, func() bool { return m.IsConnected("user-1") }, time.Second, 5*time.Millisecond)

	// A reconnect replaces the old connection and signals its eviction.
	second := newTestClient("user-1", 1)
	m.register <- second
	require.Eventually(t, func() bool { return evicted(first) }, time.Second, 5*time.Millisecond)

	assert.Equal(t, 1, m.ClientCount())
	assert.True(t, m.IsConnected("user-1"))
}

func TestManager_ReplacedClientKeepsSendingSafely(t *testing.T) {
	m := NewManager()
	go m.Run()

	first := newTestClient("user-1", 1)
	m.register <- first
	require.Eventually(t, func() bool { return m.IsConnected("user-1") }, time.Second, 5*time.Millisecond)

	second := newTestClient("user-1", 1)
	m.register <- second
	require.Eventually(t, func() bool { return evicted(first) }, time.Second, 5*time.Millisecond)

	// The replaced connection's reader is still alive and keeps handling
	// frames. Its sends must be dropped, never panic.
	first.handleMessage(incomingMessage{Action: "join-notifications"})

	assert.False(t, first.trySend(services.Event{Type: "new-message"}))
	assert.Len(t, first.Send, 0, "events for an evicted client are dropped")

	// The live connection is unaffected.
	m.EmitToUser("user-1", services.Event{Type: "new-message"})
	assert.Len(t, second.Send, 1)
}

func TestManager_UnregisterIgnoresStaleClient(t *testing.T) {
	m := NewManager()
	go m.Run()

	current := newTestClient("user-1", 1)
	m.register <- current
	require.Eventually(t, func() bool { return m.IsConnected("user-1") }, time.Second, 5*time.Millisecond)

	// A stale client for the same user must not evict the live connection.
	stale := newTestClient("user-1", 1)
	m.unregister <- stale

	// Synchronize on a second event so the unregister has been processed.
	other := newTestClient("user-2", 1)
	m.register <- other
	require.Eventually(t, func() bool { return m.IsConnected("user-2") }, time.Second, 5*time.Millisecond)

	assert.True(t, m.IsConnected("user-1"))
}

func TestManager_EmitToChatReachesRoomMembers(t *testing.T) {
	m := NewManager()

	alice := newTestClient("alice", 4)
	bob := newTestClient("bob", 4)
	carol := newTestClient("carol", 4)

	m.JoinChat(alice, "chat-1")
	m.JoinChat(bob, "chat-1")
	m.JoinChat(carol, "chat-2")

	m.EmitToChat("chat-1", services.Event{Type: "new-message"})

	assert.Len(t, alice.Send, 1)
	assert.Len(t, bob.Send, 1)
	assert.Len(t, carol.Send, 0, "members of other rooms must not receive the event")

	event := <-alice.Send
	assert.Equal(t, "new-message", event.Type)
}

func TestManager_LeaveChatStopsDelivery(t *testing.T) {
	m := NewManager()

	client := newTestClient("alice", 4)
	m.JoinChat(client, "chat-1")
	m.LeaveChat(client, "chat-1")

	m.EmitToChat("chat-1", services.Event{Type: "new-message"})

	assert.Len(t, client.Send, 0)
	assert.Empty(t, client.rooms)
}

func TestManager_EmitToUser(t *testing.T) {
	m := NewManager()
	go m.Run()

	client := newTestClient("user-1", 4)
	m.register <- client
	require.Eventually(t, func() bool { return m.IsConnected("user-1") }, time.Second, 5*time.Millisecond)

	m.EmitToUser("user-1", services.Event{Type: "notification"})
	m.EmitToUser("nobody", services.Event{Type: "notification"})

	require.Len(t, client.Send, 1)
	event := <-client.Send
	assert.Equal(t, "notification", event.Type)
}

func TestManager_SlowConsumerIsDropped(t *testing.T) {
	m := NewManager()
	go m.Run()

	client := newTestClient("user-1", 1)
	m.register <- client
	require.Eventually(t, func() bool { return m.IsConnected("user-1") }, time.Second, 5*time.Millisecond)

	// Fill the buffer, then one more send overflows it and evicts the client.
	m.EmitToUser("user-1", services.Event{Type: "first"})
	m.EmitToUser("user-1", services.Event{Type: "overflow"})

	require.Eventually(t, func() bool { return !m.IsConnected("user-1") }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, m.ClientCount())
}
