package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/ikkim/mapaddress-backend/internal/app/model"
	"github.com/ikkim/mapaddress-backend/internal/metrics"
	"github.com/ikkim/mapaddress-backend/pkg/logger"
)

// Event is pushed to every connected client after a committed change.
type Event struct {
	Type    string        `json:"type"` // address.created, address.updated, address.deleted
	Address model.Address `json:"address"`
	At      time.Time     `json:"at"`
}

// Client is one change-feed subscriber.
type Client struct {
	hub  *Hub
	conn *Conn
	send chan []byte
	addr string
}

// Hub fans address change events out to connected clients.
type Hub struct {
	clients map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}

	metrics *metrics.Metrics
	mu      sync.RWMutex
}

// NewHub creates a hub. m may be nil.
func NewHub(m *metrics.Metrics) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
		metrics:    m,
	}
}

// Run serves registrations and broadcasts until ctx is cancelled, then
// closes every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.setGauge()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			total := len(h.clients)
			h.mu.Unlock()
			h.setGauge()
			logger.Info("WebSocket client registered", map[string]interface{}{
				"remote_addr":   client.addr,
				"total_clients": total,
			})

		case client := <-h.unregister:
			h.remove(client)

		case message := <-h.broadcast:
			h.mu.RLock()
			var slow []*Client
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					slow = append(slow, client)
				}
			}
			h.mu.RUnlock()

			for _, client := range slow {
				logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
					"remote_addr": client.addr,
				})
				h.remove(client)
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	_, ok := h.clients[client]
	if ok {
		delete(h.clients, client)
		close(client.send)
	}
	remaining := len(h.clients)
	h.mu.Unlock()

	if ok {
		h.setGauge()
		logger.Info("WebSocket client unregistered", map[string]interface{}{
			"remote_addr":       client.addr,
			"remaining_clients": remaining,
		})
	}
}

func (h *Hub) setGauge() {
	if h.metrics != nil {
		h.metrics.WebSocketClients.Set(float64(h.ClientCount()))
	}
}

// ClientCount returns the number of registered clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish queues an event for broadcast. Events are dropped when the
// broadcast queue is full.
func (h *Hub) Publish(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal change event", err)
		return
	}

	select {
	case h.broadcast <- data:
	default:
		logger.Warn("Broadcast channel full, event dropped", map[string]interface{}{
			"type": event.Type,
		})
	}
}

// NotifyAddressChange publishes a change event.
func (h *Hub) NotifyAddressChange(kind string, address model.Address) {
	if h.metrics != nil {
		h.metrics.AddressMutations.WithLabelValues(kind).Inc()
	}
	h.Publish(Event{
		Type:    "address." + kind,
		Address: address,
		At:      time.Now().UTC(),
	})
}
