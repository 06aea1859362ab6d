package websocket

import (
	"context"
	"log/slog"
	"sync"
)

// Hub keeps the connected page clients.
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu     sync.RWMutex
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run tracks clients until ctx is done, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("client connected", "client_id", client.id, "total_clients", total)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				h.logger.Info("client disconnected", "client_id", client.id, "total_clients", len(h.clients))
			}
			h.mu.Unlock()

		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				client.conn.Close()
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// add and remove return immediately once Run has stopped.
func (h *Hub) add(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) remove(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}
