package ws

import (
	"log/slog"
	"sync"
)

// Client is one registered connection. Messages queued with Send are written
// by the connection's writer goroutine.
type Client struct {
	ID   string
	send chan Message

	closeOnce sync.Once
	done      chan struct{}
	onClose   func()
}

func newClient(id string, queue int, onClose func()) *Client {
	if queue < 1 {
		queue = 1
	}
	return &Client{ID: id, send: make(chan Message, queue), done: make(chan struct{}), onClose: onClose}
}

type sendResult int

const (
	sent sendResult = iota
	sendClosed
	sendQueueFull
)

// Send queues msg without blocking. A client whose queue is full is closed
// and Send reports false.
func (c *Client) Send(msg Message) bool {
	return c.trySend(msg) == sent
}

func (c *Client) trySend(msg Message) sendResult {
	select {
	case <-c.done:
		return sendClosed
	default:
	}
	select {
	case c.send <- msg:
		return sent
	default:
		c.Close()
		return sendQueueFull
	}
}

// Close stops the client; it is safe to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.onClose != nil {
			c.onClose()
		}
	})
}

// Done is closed once the client has been closed.
func (c *Client) Done() <-chan struct{} { return c.done }

// Hub is the registry of live connections.
type Hub struct {
	logger *slog.Logger

	mu      sync.RWMutex
	clients map[string]*Client
}

// NewHub returns an empty Hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{logger: logger, clients: make(map[string]*Client)}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Info("websocket connected", "client_id", c.ID, "clients", n)
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c.ID]
	delete(h.clients, c.ID)
	n := len(h.clients)
	h.mu.Unlock()
	c.Close()
	if ok {
		h.logger.Info("websocket disconnected", "client_id", c.ID, "clients", n)
	}
}

// Len returns the number of registered clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues msg for every client. Clients that cannot keep up are
// dropped rather than blocking the caller.
func (h *Hub) Broadcast(msg Message) {
	for _, c := range h.snapshot() {
		switch c.trySend(msg) {
		case sendQueueFull:
			h.logger.Warn("dropping slow websocket client", "client_id", c.ID, "type", msg.Type)
			h.Unregister(c)
		case sendClosed:
			h.Unregister(c)
		}
	}
}

// CloseAll closes every connection, e.g. on shutdown.
func (h *Hub) CloseAll() {
	for _, c := range h.snapshot() {
		h.Unregister(c)
	}
}

func (h *Hub) snapshot() []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		out = append(out, c)
	}
	return out
}
