package ws

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"schoolhub_backend/internal/logger"
	"schoolhub_backend/internal/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // origin is enforced by the CORS middleware in front
	},
}

type Handler struct {
	manager     *Manager
	chatService services.ChatService
}

func NewHandler(manager *Manager, chatService services.ChatService) *Handler {
	return &Handler{manager: manager, chatService: chatService}
}

// ServeWS upgrades the connection for an authenticated user.
func (h *Handler) ServeWS(c *gin.Context) {
	userIDVal, exists := c.Get("userID")
	userID, _ := userIDVal.(string)
	if !exists || userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("ws upgrade failed", "user_id", userID, "error", err)
		return
	}

	client := &Client{
		UserID:      userID,
		Conn:        conn,
		Send:        make(chan services.Event, sendBufferSize),
		done:        make(chan struct{}),
		manager:     h.manager,
		chatService: h.chatService,
		rooms:       make(map[string]struct{}),
	}

	h.manager.register <- client

	go client.readPump()
	go client.writePump()
}
