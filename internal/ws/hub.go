package ws

import (
	"context"
	"encoding/json"
	"sync"

	"adhub/internal/domain"
)

const sendBuffer = 64

// Client is one websocket connection. A user may hold several.
type Client struct {
	UserID uint
	Role   string
	Send   chan []byte
	hub    *Hub
	mu     sync.Mutex
	closed bool
}

func NewClient(userID uint, role string) *Client {
	return &Client{UserID: userID, Role: role, Send: make(chan []byte, sendBuffer)}
}

func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	hub := c.hub
	c.mu.Unlock()
	if hub != nil {
		hub.unregister(c)
	}
	close(c.Send)
}

// Hub tracks connections by user and by role. Sends never block: a client
// whose buffer is full misses the message and recovers by reading the order.
type Hub struct {
	mu     sync.RWMutex
	byUser map[uint]map[*Client]struct{}
	byRole map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		byUser: make(map[uint]map[*Client]struct{}),
		byRole: make(map[string]map[*Client]struct{}),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.hub = h
	if h.byUser[c.UserID] == nil {
		h.byUser[c.UserID] = make(map[*Client]struct{})
	}
	h.byUser[c.UserID][c] = struct{}{}
	if h.byRole[c.Role] == nil {
		h.byRole[c.Role] = make(map[*Client]struct{})
	}
	h.byRole[c.Role][c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m := h.byUser[c.UserID]; m != nil {
		delete(m, c)
		if len(m) == 0 {
			delete(h.byUser, c.UserID)
		}
	}
	if m := h.byRole[c.Role]; m != nil {
		delete(m, c)
		if len(m) == 0 {
			delete(h.byRole, c.Role)
		}
	}
}

func (h *Hub) BroadcastToUser(userID uint, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.mu.RLock()
	targets := collect(nil, h.byUser[userID])
	h.mu.RUnlock()
	deliver(targets, data)
}

type orderStatusMessage struct {
	Type string `json:"type"`
	domain.OrderStatusEvent
}

// NotifyOrderStatus pushes the event to the order owner's connections and to
// every connected admin, once per connection.
func (h *Hub) NotifyOrderStatus(_ context.Context, ev domain.OrderStatusEvent) error {
	data, err := json.Marshal(orderStatusMessage{Type: "order_status", OrderStatusEvent: ev})
	if err != nil {
		return err
	}
	h.mu.RLock()
	seen := make(map[*Client]struct{})
	targets := collect(seen, h.byUser[ev.UserID])
	targets = append(targets, collect(seen, h.byRole[domain.RoleAdmin])...)
	h.mu.RUnlock()
	deliver(targets, data)
	return nil
}

func (h *Hub) Name() string { return "websocket" }

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, m := range h.byUser {
		n += len(m)
	}
	return n
}

func collect(seen map[*Client]struct{}, m map[*Client]struct{}) []*Client {
	out := make([]*Client, 0, len(m))
	for c := range m {
		if seen != nil {
			if _, dup := seen[c]; dup {
				continue
			}
			seen[c] = struct{}{}
		}
		out = append(out, c)
	}
	return out
}

func deliver(clients []*Client, data []byte) {
	for _, c := range clients {
		c.mu.Lock()
		if !c.closed {
			select {
			case c.Send <- data:
			default:
			}
		}
		c.mu.Unlock()
	}
}
