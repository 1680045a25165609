// internal/realtime/hub.go
package realtime

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

type Client struct {
	ID     string
	UserID uuid.UUID
	Conn   *WebSocketConn
	Send   chan []byte
}

// Hub tracks the websocket connections held by this process.
type Hub struct {
	clients map[string]*Client
	mu      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]*Client)}
}

func (h *Hub) RegisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ID] = client
	slog.Debug("websocket client registered", "client", client.ID, "user", client.UserID)
}

func (h *Hub) UnregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if old, ok := h.clients[client.ID]; ok {
		delete(h.clients, client.ID)
		close(old.Send)
		slog.Debug("websocket client unregistered", "client", client.ID)
	}
}

// SendToUser marshals data and pushes it to every connection of userID.
func (h *Hub) SendToUser(userID uuid.UUID, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		slog.Error("marshal hub message", "err", err)
		return
	}
	h.SendRawToUser(userID, payload)
}

func (h *Hub) SendRawToUser(userID uuid.UUID, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		if client.UserID == userID {
			select {
			case client.Send <- payload:
			default:
				// slow reader; drop rather than block the publisher
			}
		}
	}
}

// ConnectedUsers counts distinct users with at least one live connection.
func (h *Hub) ConnectedUsers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	seen := map[uuid.UUID]struct{}{}
	for _, c := range h.clients {
		seen[c.UserID] = struct{}{}
	}
	return len(seen)
}

// Close drops every connection; their write loops exit once Send is closed.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, client := range h.clients {
		close(client.Send)
		delete(h.clients, id)
	}
}
