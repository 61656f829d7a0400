package http

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"kabadi-client/internal/logger"
	"kabadi-client/internal/service"
)

const (
	pongWait   = 60 * time.Second
	writeWait  = 5 * time.Second
	readLimit  = 512
	bufferSize = 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  bufferSize,
	WriteBufferSize: bufferSize,
	// Local API; the UI may be served from any origin
	CheckOrigin: func(r *http.Request) bool { return true },
}

// NotificationHub pushes notifications to every connected UI socket. It is a
// service.Notifier, so workflows report to it like any other sink.
type NotificationHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	now     func() time.Time
}

func NewNotificationHub() *NotificationHub {
	return &NotificationHub{clients: make(map[*websocket.Conn]struct{}), now: time.Now}
}

// ServeWS upgrades the request and keeps the socket registered until the
// client goes away
func (h *NotificationHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("Failed to upgrade notification socket", "error", err)
		return
	}
	h.register(conn)
	defer h.unregister(conn)

	conn.SetReadLimit(readLimit)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Read loop only detects the close
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("Notification socket closed", "error", err)
			}
			return
		}
	}
}

// Notify broadcasts one notification. Sockets that fail to take it are dropped.
func (h *NotificationHub) Notify(level service.NotificationLevel, message string) {
	data, err := json.Marshal(service.Notification{Level: level, Message: message, At: h.now()})
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			logger.Debug("Dropping notification socket", "error", err)
			delete(h.clients, conn)
			conn.Close()
		}
	}
}

// Close sends a going-away frame to every socket and drops it
func (h *NotificationHub) Close() {
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		conn.Close()
		delete(h.clients, conn)
	}
}

// Clients is the number of connected sockets
func (h *NotificationHub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *NotificationHub) register(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()
	logger.Debug("Notification socket registered")
}

func (h *NotificationHub) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
	}
	h.mu.Unlock()
	conn.Close()
}
