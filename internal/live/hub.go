// Package live pushes in-progress call events to connected admin
// dashboards over WebSocket.
package live

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Event is one live-monitor message, e.g. a webhook event or a saved
// lead notification.
type Event struct {
	Type      string    `json:"type"`
	CallID    string    `json:"callId,omitempty"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Hub fans events out to every connected dashboard. Slow or dead
// connections are dropped rather than allowed to block the webhook
// path.
type Hub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{conns: make(map[*websocket.Conn]bool)}
}

// Broadcast sends an event to all connected dashboards. It never
// blocks on delivery; failed writes close and remove the connection.
func (h *Hub) Broadcast(eventType, callID string, data any) {
	payload, err := json.Marshal(Event{
		Type:      eventType,
		CallID:    callID,
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		log.Printf("live: encoding event: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			conn.Close()
			delete(h.conns, conn)
		}
	}
}

// ClientCount reports the number of connected dashboards.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// RegisterRoutes mounts the WebSocket endpoint.
func (h *Hub) RegisterRoutes(r chi.Router) {
	r.Get("/api/live/ws", h.handleWS)
}

func (h *Hub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("live: websocket upgrade: %v", err)
		return
	}

	h.mu.Lock()
	h.conns[conn] = true
	h.mu.Unlock()

	// Reads are only consumed to detect the close; the channel is
	// one-way from server to dashboard.
	go func() {
		defer func() {
			h.mu.Lock()
			delete(h.conns, conn)
			h.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("live: websocket read: %v", err)
				}
				return
			}
		}
	}()
}
