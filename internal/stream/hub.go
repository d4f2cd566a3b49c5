// Package stream fans simulation frames out to browser viewers over
// websockets.
package stream

import (
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const (
	sendBuffer   = 16
	writeTimeout = 2 * time.Second
	maxCommand   = 64
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub tracks connected viewers and broadcasts encoded frames to them.
// Slow viewers miss frames rather than slowing the simulation down.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	closed  bool

	// OnCommand, if set, receives text messages sent by viewers.
	OnCommand func(cmd string)

	logger *log.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{
		clients: make(map[*client]struct{}),
		logger:  logger,
	}
}

func (h *Hub) add(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// Len returns the number of connected viewers.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues b for every viewer, skipping those whose buffer is full.
func (h *Hub) Broadcast(b []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- b:
		default:
		}
	}
}

// Close disconnects every viewer after their queued frames are written and
// refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

// ServeWS upgrades the request and streams frames until the viewer leaves
// or the hub closes.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	if !h.add(c) {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		conn.Close()
		return
	}
	h.logger.Info("viewer connected", "remote", r.RemoteAddr, "viewers", h.Len())

	go h.readCommands(c)
	h.writeFrames(c)

	h.remove(c)
	conn.Close()
	h.logger.Info("viewer disconnected", "remote", r.RemoteAddr, "viewers", h.Len())
}

// readCommands forwards viewer messages until the connection fails.
func (h *Hub) readCommands(c *client) {
	c.conn.SetReadLimit(maxCommand)
	for {
		kind, msg, err := c.conn.ReadMessage()
		if err != nil {
			h.remove(c)
			return
		}
		if kind == websocket.TextMessage && h.OnCommand != nil {
			h.OnCommand(string(msg))
		}
	}
}

func (h *Hub) writeFrames(c *client) {
	for b := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
			h.logger.Debug("websocket write failed", "err", err)
			return
		}
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
