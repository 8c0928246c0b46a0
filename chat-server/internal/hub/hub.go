package hub

import (
	"context"
	"sync"

	"github.com/SpaNb4/open-chat/chat-server/internal/config"
	"github.com/SpaNb4/open-chat/pkg/log"
)

// Delivery is one encoded frame routed to the local clients.
type Delivery struct {
	// Target restricts delivery to clients announced under this username.
	// Empty means every client.
	Target string
	// Exclude is a client ID to skip.
	Exclude string
	Message []byte
}

type Hub struct {
	clients    map[string]*Client // clientID -> client
	register   chan *Client
	unregister chan *Client
	deliver    chan *Delivery
	done       chan struct{}
	mu         sync.RWMutex
	config     config.WebSocketConfig
}

func NewHub(cfg config.WebSocketConfig) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		deliver:    make(chan *Delivery, 256),
		done:       make(chan struct{}),
		config:     cfg,
	}
}

// Run routes registrations and deliveries until ctx is done. Every client
// still registered then has its send channel closed.
func (h *Hub) Run(ctx context.Context) {
	defer h.shutdown()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			l := log.L()
			l.Debug().Str(log.FieldClientID, client.ID).Msg("client registered")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.Send)
			}
			h.mu.Unlock()
			l := log.L()
			l.Debug().Str(log.FieldClientID, client.ID).Msg("client unregistered")

		case d := <-h.deliver:
			h.route(d)
		}
	}
}

func (h *Hub) route(d *Delivery) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, client := range h.clients {
		if id == d.Exclude {
			continue
		}
		if d.Target != "" && client.Username() != d.Target {
			continue
		}
		select {
		case client.Send <- d.Message:
		default:
			l := log.L()
			l.Warn().Str(log.FieldClientID, id).Msg("send buffer full, dropping client")
			go h.Unregister(client)
		}
	}
}

func (h *Hub) shutdown() {
	close(h.done)

	h.mu.Lock()
	defer h.mu.Unlock()
	for id, client := range h.clients {
		delete(h.clients, id)
		close(client.Send)
	}
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.Send)
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Deliver queues d for routing. It is dropped once the hub has stopped.
func (h *Hub) Deliver(d *Delivery) {
	select {
	case h.deliver <- d:
	case <-h.done:
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
