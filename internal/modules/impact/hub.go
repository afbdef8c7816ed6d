package impact

import (
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"villagestay/internal/domain"
)

// client serializes writes to one websocket connection. Broadcasts run on
// the booking-request goroutine, so two concurrent bookings would otherwise
// write the same connection at once, which the websocket package forbids.
type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *client) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// Hub fans booking impact events out to connected dashboard clients.
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]*client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[uuid.UUID]*client)}
}

func (h *Hub) Register(conn *websocket.Conn) uuid.UUID {
	id := uuid.New()
	h.mu.Lock()
	h.clients[id] = &client{conn: conn}
	h.mu.Unlock()
	return id
}

func (h *Hub) Unregister(id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if cl, exists := h.clients[id]; exists {
		_ = cl.conn.Close()
		delete(h.clients, id)
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}

type liveEvent struct {
	Type         string  `json:"type"`
	Village      string  `json:"village"`
	HomestayType string  `json:"homestay_type"`
	TotalImpact  float64 `json:"total_impact"`
	Community    float64 `json:"community"`
}

// BookingCreated implements the lifecycle manager's broadcaster hook.
// Best effort: a client that fails a write is dropped.
func (h *Hub) BookingCreated(b *domain.Booking) {
	h.broadcast(liveEvent{
		Type:         "booking.created",
		Village:      b.Impact.VillageName,
		HomestayType: string(b.Impact.HomestayType),
		TotalImpact:  b.Impact.TotalVillageIncome,
		Community:    b.Impact.Community,
	})
}

func (h *Hub) broadcast(msg any) {
	h.mu.RLock()
	clients := make(map[uuid.UUID]*client, len(h.clients))
	for id, cl := range h.clients {
		clients[id] = cl
	}
	h.mu.RUnlock()

	for id, cl := range clients {
		if err := cl.writeJSON(msg); err != nil {
			h.Unregister(id)
		}
	}
}

func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, cl := range h.clients {
		_ = cl.conn.Close()
		delete(h.clients, id)
	}
}
