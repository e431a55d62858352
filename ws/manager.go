package ws

import (
	"sync"

	"schoolhub_backend/internal/logger"
	"schoolhub_backend/internal/metrics"
	"schoolhub_backend/internal/services"
)

// Manager tracks connected clients and the chat rooms they joined. It
// implements services.Broadcaster so services can push events without
// depending on this package.
type Manager struct {
	clients map[string]*Client            // userID -> client
	rooms   map[string]map[string]*Client // chatID -> userID -> client

	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		rooms:      make(map[string]map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (m *Manager) Run() {
	for {
		select {
		case client := <-m.register:
			m.mu.Lock()
			// A reconnect replaces the previous connection for the user.
			if prev, ok := m.clients[client.UserID]; ok {
				m.removeLocked(prev)
			}
			m.clients[client.UserID] = client
			m.mu.Unlock()
			metrics.WSConnections.Inc()
			logger.Debug("ws client registered", "user_id", client.UserID)

		case client := <-m.unregister:
			m.mu.Lock()
			if current, ok := m.clients[client.UserID]; ok && current == client {
				m.removeLocked(client)
				metrics.WSConnections.Dec()
				logger.Debug("ws client unregistered", "user_id", client.UserID)
			}
			m.mu.Unlock()
		}
	}
}

// removeLocked must be called with m.mu held. The Send channel stays open:
// the evicted client's readPump may still be running and writing to it, and
// closing under its feet would crash the process. Closing done instead lets
// every sender and the writePump observe the eviction safely.
func (m *Manager) removeLocked(client *Client) {
	delete(m.clients, client.UserID)
	for chatID := range client.rooms {
		if room, ok := m.rooms[chatID]; ok {
			delete(room, client.UserID)
			if len(room) == 0 {
				delete(m.rooms, chatID)
			}
		}
	}
	close(client.done)
}

func (m *Manager) JoinChat(client *Client, chatID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.rooms[chatID]
	if !ok {
		room = make(map[string]*Client)
		m.rooms[chatID] = room
	}
	room[client.UserID] = client
	client.rooms[chatID] = struct{}{}
}

func (m *Manager) LeaveChat(client *Client, chatID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if room, ok := m.rooms[chatID]; ok {
		delete(room, client.UserID)
		if len(room) == 0 {
			delete(m.rooms, chatID)
		}
	}
	delete(client.rooms, chatID)
}

// EmitToUser delivers an event to a single user when connected.
func (m *Manager) EmitToUser(userID string, event services.Event) {
	m.mu.RLock()
	client, ok := m.clients[userID]
	m.mu.RUnlock()
	if !ok {
		return
	}

	m.send(client, event)
}

// EmitToChat delivers an event to every client that joined the chat room.
func (m *Manager) EmitToChat(chatID string, event services.Event) {
	m.mu.RLock()
	room := m.rooms[chatID]
	targets := make([]*Client, 0, len(room))
	for _, client := range room {
		targets = append(targets, client)
	}
	m.mu.RUnlock()

	for _, client := range targets {
		m.send(client, event)
	}
}

// send drops the connection when the client's buffer is full. A slow
// consumer must not block the rest of the room, and an already-evicted
// client just loses the event.
func (m *Manager) send(client *Client, event services.Event) {
	select {
	case <-client.done:
		return
	default:
	}
	select {
	case client.Send <- event:
	case <-client.done:
	default:
		logger.Warn("ws send buffer full, dropping client", "user_id", client.UserID)
		go func() { m.unregister <- client }()
	}
}

func (m *Manager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

func (m *Manager) IsConnected(userID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.clients[userID]
	return ok
}
