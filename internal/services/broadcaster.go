package services

// Event is a server-to-client push frame.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Broadcaster delivers events to connected clients. Delivery is best-effort:
// recipients without a live connection are skipped and reconcile over REST.
type Broadcaster interface {
	EmitToUser(userID string, event Event)
	EmitToChat(chatID string, event Event)
}

// NopBroadcaster drops every event. Used in tests and before the websocket
// layer is attached.
type NopBroadcaster struct{}

func (NopBroadcaster) EmitToUser(string, Event) {}
func (NopBroadcaster) EmitToChat(string, Event) {}
