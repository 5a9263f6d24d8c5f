package ws

import (
	"encoding/json"
	"log"

	"github.com/palaver-chat/palaver/internal/domain"
)

// handleUserOnline registers the connection's presence and tells the
// world: user_joined to everyone else, then a full snapshot to all
// connections including the announcer.
func (h *Hub) handleUserOnline(c *Client, data json.RawMessage) {
	var ann domain.PresenceAnnounce
	if err := json.Unmarshal(data, &ann); err != nil {
		log.Printf("ws: bad user_online payload from %s: %v", c.ID, err)
		return
	}
	if ann.Color == "" {
		ann.Color = domain.DefaultColor
	}

	h.registry.Register(c.ID, ann.Username, ann.Color)

	joined, err := domain.NewEvent(domain.EventUserJoined, domain.UserEvent{Username: ann.Username})
	if err != nil {
		return
	}
	h.broadcast(joined, c.ID)
	h.broadcastSnapshot()
}

// handleDisconnect drops the connection and, only if it had announced
// presence, broadcasts user_left plus a fresh snapshot. Disconnecting
// a connection that never announced is silent.
func (h *Hub) handleDisconnect(c *Client) {
	h.mu.Lock()
	if _, ok := h.conns[c.ID]; ok {
		delete(h.conns, c.ID)
		close(c.send)
	}
	h.mu.Unlock()

	sess, ok := h.registry.Unregister(c.ID)
	if !ok {
		return
	}

	left, err := domain.NewEvent(domain.EventUserLeft, domain.UserEvent{Username: sess.Username})
	if err != nil {
		return
	}
	h.broadcast(left, c.ID)
	h.broadcastSnapshot()
}

// broadcastSnapshot sends the users_online projection to everyone
func (h *Hub) broadcastSnapshot() {
	snap, err := domain.NewEvent(domain.EventUsersOnline, h.registry.Snapshot())
	if err != nil {
		return
	}
	h.broadcast(snap, "")
}
