package websocket

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/HSouheill/fieldtrack_backend/logging"
	"github.com/HSouheill/fieldtrack_backend/metrics"
	"github.com/HSouheill/fieldtrack_backend/models"
)

const clientBuffer = 64

// Client is one dashboard subscribed to the live feed. An empty EmployeeID
// receives every employee's events.
type Client struct {
	EmployeeID string
	Conn       *websocket.Conn
	send       chan models.LiveEvent
}

// Hub fans live events out to subscribed clients.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan models.LiveEvent
	done       chan struct{}
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan models.LiveEvent, 256),
		done:       make(chan struct{}),
	}
}

// attach registers client, or reports false once the hub has stopped.
func (h *Hub) attach(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// detach unregisters client. It never blocks after the hub has stopped.
func (h *Hub) detach(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Run is the hub's event loop; it returns when ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			metrics.WebSocketClients.Set(0)
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			metrics.WebSocketClients.Set(float64(len(h.clients)))
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			metrics.WebSocketClients.Set(float64(len(h.clients)))
			h.mu.Unlock()
		case event := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				if client.EmployeeID != "" && client.EmployeeID != event.EmployeeID {
					continue
				}
				select {
				case client.send <- event:
				default:
					// slow consumer
					delete(h.clients, client)
					close(client.send)
				}
			}
			metrics.WebSocketClients.Set(float64(len(h.clients)))
			h.mu.Unlock()
		}
	}
}

// Publish queues an event without blocking the caller; events are dropped when the hub is saturated.
func (h *Hub) Publish(event models.LiveEvent) {
	select {
	case h.broadcast <- event:
	default:
		logging.Warn().Str("type", event.Type).Msg("live feed saturated, dropping event")
	}
}

// ClientCount is the number of connected subscribers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
