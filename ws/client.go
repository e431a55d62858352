package ws

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"schoolhub_backend/internal/logger"
	"schoolhub_backend/internal/services"
	"schoolhub_backend/internal/services/dto"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second

	maxMessageSize = 64 * 1024
	sendBufferSize = 256
)

type incomingMessage struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan services.Event

	// done is closed by the manager when the client is evicted. Send itself
	// is never closed: the readPump keeps writing to it until its connection
	// dies, and a close racing those writes would panic the process.
	done chan struct{}

	manager     *Manager
	chatService services.ChatService
	rooms       map[string]struct{}
}

// trySend queues the event unless the client was already evicted.
func (c *Client) trySend(event services.Event) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.Send <- event:
		return true
	case <-c.done:
		return false
	}
}

func (c *Client) readPump() {
	defer func() {
		c.manager.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("ws read error", "user_id", c.UserID, "error", err)
			}
			return
		}

		var msg incomingMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			logger.Warn("ws invalid message", "user_id", c.UserID, "error", err)
			continue
		}

		c.handleMessage(msg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case event := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteJSON(event); err != nil {
				logger.Warn("ws write error", "user_id", c.UserID, "error", err)
				return
			}

		case <-c.done:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(msg incomingMessage) {
	switch msg.Action {

	case "join-chat":
		var payload struct {
			ChatID string `json:"chat_id"`
		}
		if err := json.Unmarshal(msg.Data, &payload); err != nil || payload.ChatID == "" {
			return
		}
		// Membership check keeps non-participants out of the room.
		if _, err := c.chatService.GetChat(payload.ChatID, c.UserID); err != nil {
			c.trySend(services.Event{Type: "error", Payload: "not a participant of this chat"})
			return
		}
		c.manager.JoinChat(c, payload.ChatID)

	case "join-notifications":
		// Personal events are routed by userID, so the subscription exists as
		// soon as the client registers. Acknowledge for older frontends that
		// still send the action.
		c.trySend(services.Event{Type: "notifications-joined"})

	case "leave-chat":
		var payload struct {
			ChatID string `json:"chat_id"`
		}
		if err := json.Unmarshal(msg.Data, &payload); err != nil || payload.ChatID == "" {
			return
		}
		c.manager.LeaveChat(c, payload.ChatID)

	case "send-message":
		var payload struct {
			ChatID  string `json:"chat_id"`
			Content string `json:"content"`
		}
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			return
		}
		message, err := c.chatService.SendMessage(payload.ChatID, c.UserID, &dto.SendMessageRequest{Content: payload.Content})
		if err != nil {
			c.trySend(services.Event{Type: "error", Payload: err.Error()})
			return
		}
		// Delivery to the room happens inside the service; echo to sender.
		c.trySend(services.Event{Type: "message-sent", Payload: message})

	case "typing":
		var payload struct {
			ChatID string `json:"chat_id"`
		}
		if err := json.Unmarshal(msg.Data, &payload); err != nil || payload.ChatID == "" {
			return
		}
		if _, joined := c.rooms[payload.ChatID]; !joined {
			return
		}
		c.manager.EmitToChat(payload.ChatID, services.Event{
			Type: "user-typing",
			Payload: map[string]string{
				"chat_id": payload.ChatID,
				"user_id": c.UserID,
			},
		})

	default:
		logger.Debug("ws unhandled action", "action", msg.Action, "user_id", c.UserID)
	}
}
