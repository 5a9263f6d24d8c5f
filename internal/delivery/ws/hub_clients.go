package ws

import (
	"encoding/json"
	"log"

	"github.com/palaver-chat/palaver/internal/domain"
)

// Register adds a connection to the hub. The connection is tracked for
// routing immediately but joins presence only after it announces with
// user_online.
func (h *Hub) Register(c *Client) {
	h.register <- c
}

// Unregister removes a connection from the hub
func (h *Hub) Unregister(c *Client) {
	h.unregister <- c
}

// Dispatch queues an inbound event for the hub's event loop
func (h *Hub) Dispatch(c *Client, ev domain.Event) {
	h.inbound <- inboundEvent{client: c, event: ev}
}

// ClientCount returns the number of live connections
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// OnlineUsers returns the current presence snapshot
func (h *Hub) OnlineUsers() []domain.UserPresence {
	return h.registry.Snapshot()
}

// Messages returns the full message history in insertion order
func (h *Hub) Messages() []domain.Message {
	return h.log.All()
}

// sendTo delivers an event to one connection id. A stale or unknown id
// is a silent no-op: from the relay's point of view the transport just
// dropped it.
func (h *Hub) sendTo(connID string, ev domain.Event) {
	frame, err := json.Marshal(ev)
	if err != nil {
		log.Printf("ws: marshal %s: %v", ev.Name, err)
		return
	}

	h.mu.RLock()
	c, ok := h.conns[connID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	c.enqueue(frame)
}

// broadcast delivers an event to every connection except exceptID
// (pass "" to reach everyone). A client whose send buffer is full is
// closed and dropped.
func (h *Hub) broadcast(ev domain.Event, exceptID string) {
	frame, err := json.Marshal(ev)
	if err != nil {
		log.Printf("ws: marshal %s: %v", ev.Name, err)
		return
	}

	h.mu.Lock()
	for id, c := range h.conns {
		if id == exceptID {
			continue
		}
		select {
		case c.send <- frame:
		default:
			// Peer stopped draining; drop the connection
			close(c.send)
			delete(h.conns, id)
		}
	}
	h.mu.Unlock()
}
