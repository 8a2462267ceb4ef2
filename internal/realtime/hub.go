// Package realtime streams broadcast activity to dashboard clients over
// WebSocket so the history view updates without polling.
package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// MessageType classifies frames on the feed
type MessageType string

const (
	MessageTypeAlert        MessageType = "alert"
	MessageTypeStatusChange MessageType = "status_change"
	MessageTypeBroadcastLog MessageType = "broadcast_log"
	MessageTypeHeartbeat    MessageType = "heartbeat"
)

// Message is one frame on the realtime feed
type Message struct {
	Type      MessageType `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Dashboard and engine are served from different origins in dev.
		return true
	},
}

// Hub maintains the set of active connections and fans frames out to them
type Hub struct {
	logger     *slog.Logger
	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	bufferSize int
	mu         sync.RWMutex
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates a hub; call Run before serving connections
func NewHub(logger *slog.Logger, bufferSize int) *Hub {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	return &Hub{
		logger:     logger,
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, bufferSize),
		register:   make(chan *client),
		unregister: make(chan *client),
		bufferSize: bufferSize,
	}
}

// Run processes registrations and fan-out until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()
		case c := <-h.unregister:
			h.drop(c)
		case frame := <-h.broadcast:
			h.fanOut(frame)
		case <-heartbeat.C:
			h.Publish(MessageTypeHeartbeat, nil)
		}
	}
}

// Publish queues a frame for all connected clients. Non-blocking: frames
// are dropped when the hub queue is full rather than stalling a broadcast.
func (h *Hub) Publish(t MessageType, payload interface{}) {
	frame, err := json.Marshal(Message{Type: t, Payload: payload, Timestamp: time.Now().UTC()})
	if err != nil {
		h.logger.Error("Failed to marshal realtime frame", "type", t, "error", err)
		return
	}
	select {
	case h.broadcast <- frame:
	default:
		h.logger.Warn("Realtime queue full, dropping frame", "type", t)
	}
}

// ServeWS upgrades an HTTP request to a feed connection
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", "error", err)
		return
	}

	c := &client{hub: h, conn: conn, send: make(chan []byte, h.bufferSize)}
	h.register <- c

	go c.writePump()
	go c.readPump()
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) fanOut(frame []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- frame:
		default:
			// Slow consumer; it will be dropped by its write pump.
		}
	}
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		close(c.send)
		c.conn.Close()
		delete(h.clients, c)
	}
}

func (c *client) writePump() {
	defer c.conn.Close()
	for frame := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			return
		}
	}
}

// readPump discards inbound frames; the feed is one-directional. It exists
// to detect client disconnects promptly.
func (c *client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
