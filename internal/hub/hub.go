package hub

import (
	"encoding/json"
	"sync"
)

// Event types pushed over the relation event stream.
const (
	EventInterestReceived   = "interest.received"
	EventConnectionAccepted = "connection.accepted"
)

// Event is a real-time notification for a single user.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Client is a subscriber channel the SSE handler drains.
type Client chan []byte

// Hub fans relation events out to each user's active event streams.
type Hub struct {
	subscribers map[uint]map[Client]bool
	mu          sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[uint]map[Client]bool),
	}
}

// Subscribe registers a client for a user's events.
func (h *Hub) Subscribe(userID uint, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subscribers[userID]; !ok {
		h.subscribers[userID] = make(map[Client]bool)
	}
	h.subscribers[userID][client] = true
}

// Unsubscribe removes a client and closes its channel so the SSE handler
// stops streaming.
func (h *Hub) Unsubscribe(userID uint, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.subscribers[userID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client)
	if len(clients) == 0 {
		delete(h.subscribers, userID)
	}
}

// Publish sends an event to all of a user's subscribers. Delivery is best
// effort: a full client channel is skipped rather than blocking the caller.
func (h *Hub) Publish(userID uint, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.subscribers[userID]
	if !ok {
		return
	}

	message, err := json.Marshal(event)
	if err != nil {
		return
	}

	for client := range clients {
		select {
		case client <- message:
		default:
		}
	}
}
