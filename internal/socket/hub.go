package socket

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"fleetdesk-api-server/internal/logger"
)

// Hub tracks the dashboard WebSocket sessions, keyed by user id.
type Hub struct {
	clients map[string]*websocket.Conn
	mu      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*websocket.Conn),
	}
}

// Register adds a client connection. A reconnect replaces the old one.
func (h *Hub) Register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[userID] = conn
	logger.L.WithField("userId", userID).Info("WebSocket client registered")
}

// Unregister removes a client connection.
func (h *Hub) Unregister(userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[userID]; ok {
		delete(h.clients, userID)
		logger.L.WithField("userId", userID).Info("WebSocket client unregistered")
	}
}

// Broadcast pushes an event to every connected dashboard session.
// An offline or failing client is not an error; the dashboard refetches
// on reconnect. Writes hold the exclusive lock: gorilla connections
// allow at most one concurrent writer, and overlapping order mutations
// broadcast from separate request goroutines.
func (h *Hub) Broadcast(event string, data interface{}) {
	message, err := json.Marshal(map[string]interface{}{
		"event": event,
		"data":  data,
	})
	if err != nil {
		logger.L.WithError(err).Warn("Failed to encode WebSocket event")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
			logger.L.WithField("userId", userID).WithError(err).Warn("WebSocket write failed")
		}
	}
}
