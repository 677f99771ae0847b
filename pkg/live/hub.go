package live

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// MessageType is the type of a message sent to browsers.
type MessageType string

const (
	MessageHello MessageType = "hello"
	MessagePatch MessageType = "patch"
	MessageError MessageType = "error"
)

// Message is sent to browsers via WebSocket.
type Message struct {
	Type  MessageType `json:"type"`
	ID    string      `json:"id,omitempty"`
	Path  []int       `json:"path,omitempty"`
	Attr  string      `json:"attr,omitempty"`
	Slot  int         `json:"slot,omitempty"` // text slot within the element, for attr "text"
	Value string      `json:"value"`
	Error string      `json:"error,omitempty"`
}

type client struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex // one writer per conn
}

func (c *client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub manages WebSocket connections.
type Hub struct {
	clients  map[*client]struct{}
	mu       sync.RWMutex
	upgrader websocket.Upgrader
	logger   *slog.Logger

	// OnCount is called with the client count after every change.
	OnCount func(n int)
}

// NewHub creates a hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients: make(map[*client]struct{}),
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // preview server
			},
		},
	}
}

// HandleWebSocket upgrades the request and holds the connection open until
// the browser goes away.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, req *http.Request) {
	conn, err := h.upgrader.Upgrade(w, req, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	c := &client{id: uuid.NewString(), conn: conn}
	hello, _ := json.Marshal(Message{Type: MessageHello, ID: c.id})
	if err := c.write(hello); err != nil {
		conn.Close()
		return
	}
	h.add(c)
	h.logger.Debug("client connected", "client", c.id)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.remove(c)
	h.logger.Debug("client disconnected", "client", c.id)
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.counted(n)
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()
	if ok {
		c.conn.Close()
		h.counted(n)
	}
}

func (h *Hub) counted(n int) {
	if h.OnCount != nil {
		h.OnCount(n)
	}
}

// Broadcast sends msgs, in order, to every client. Clients that fail a
// write are dropped.
func (h *Hub) Broadcast(msgs ...Message) {
	if len(msgs) == 0 {
		return
	}
	frames := make([][]byte, 0, len(msgs))
	for _, m := range msgs {
		data, err := json.Marshal(m)
		if err != nil {
			h.logger.Error("marshal message", "type", m.Type, "error", err)
			continue
		}
		frames = append(frames, data)
	}

	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		for _, data := range frames {
			if err := c.write(data); err != nil {
				h.logger.Debug("dropping client", "client", c.id, "error", err)
				h.remove(c)
				break
			}
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close closes all client connections.
func (h *Hub) Close() {
	h.mu.Lock()
	for c := range h.clients {
		c.conn.Close()
		delete(h.clients, c)
	}
	h.mu.Unlock()
	h.counted(0)
}
