// Package ws pushes live threat events to connected dashboard clients.
package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lcalzada-xor/authgate/internal/adapters/web/middleware"
	"github.com/lcalzada-xor/authgate/internal/core/domain"
	"github.com/lcalzada-xor/authgate/internal/core/ports"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")

		// Allow same-origin (no Origin header)
		if origin == "" {
			return true
		}

		allowedOrigins := []string{
			"http://localhost:8080",
			"http://127.0.0.1:8080",
			"http://[::1]:8080",
		}

		for _, allowed := range allowedOrigins {
			if origin == allowed {
				return true
			}
		}

		slog.Warn("websocket rejected origin", "origin", origin)
		return false
	},
}

type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Manager tracks connected dashboard clients and fans events out to them.
type Manager struct {
	clients map[*websocket.Conn]*domain.User
	mu      sync.Mutex
}

func NewManager() *Manager {
	return &Manager{
		clients: make(map[*websocket.Conn]*domain.User),
	}
}

// HandleWebSocket upgrades an authenticated request and keeps the connection
// registered until the client goes away.
func (m *Manager) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}

	m.mu.Lock()
	m.clients[conn] = user
	m.mu.Unlock()

	slog.Info("websocket connected", "user", user.Email, "role", user.Role)

	// Clean up on disconnect
	go func() {
		defer conn.Close()
		defer func() {
			m.mu.Lock()
			delete(m.clients, conn)
			m.mu.Unlock()
			slog.Info("websocket disconnected", "user", user.Email)
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

// NotifyThreat broadcasts a newly recorded threat to all connected clients.
func (m *Manager) NotifyThreat(record domain.ThreatRecord) {
	m.broadcast(Message{
		Type:    "threat:new",
		Payload: record,
	})
}

// BroadcastLog sends a log line to all connected clients.
func (m *Manager) BroadcastLog(message string, level string) {
	m.broadcast(Message{
		Type: "log",
		Payload: map[string]string{
			"message": message,
			"level":   level,
		},
	})
}

// ClientCount reports how many dashboard clients are connected.
func (m *Manager) ClientCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.clients)
}

func (m *Manager) broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("websocket marshal failed", "error", err)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for conn := range m.clients {
		conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			conn.Close()
			delete(m.clients, conn)
		}
	}
}

// Ensure interface compliance
var _ ports.ThreatNotifier = (*Manager)(nil)
