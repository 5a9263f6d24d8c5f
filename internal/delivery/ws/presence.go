package ws

import (
	"sort"
	"sync"

	"github.com/palaver-chat/palaver/internal/domain"
)

// Session is the presence record for one live connection. Sessions are
// owned exclusively by the Registry; lookups return copies, never
// pointers into the map.
type Session struct {
	ConnID   string
	Username string
	Color    string

	// seq is the registration order, used as the tie-break when
	// several live connections claim the same username.
	seq uint64
}

// Registry maps live connection ids to presence data. Usernames are
// not enforced unique here: two connections may claim the same name
// and FindByUsername deterministically returns the first-registered
// one. Uniqueness of accounts is the auth layer's concern.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	nextSeq  uint64
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
	}
}

// Register inserts or overwrites the session for connID. It never
// fails; announcing twice on one connection just replaces the entry.
func (r *Registry) Register(connID, username, color string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextSeq++
	r.sessions[connID] = &Session{
		ConnID:   connID,
		Username: username,
		Color:    color,
		seq:      r.nextSeq,
	}
}

// Unregister removes and returns the session for connID. A second
// call for the same id is a harmless no-op returning false.
func (r *Registry) Unregister(connID string) (Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[connID]
	if !ok {
		return Session{}, false
	}
	delete(r.sessions, connID)
	return *s, true
}

// Get returns the session for connID, if any
func (r *Registry) Get(connID string) (Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[connID]
	if !ok {
		return Session{}, false
	}
	return *s, true
}

// FindByUsername returns the earliest-registered live session with the
// given username. The result is stable across repeated calls until
// that connection goes away.
func (r *Registry) FindByUsername(username string) (Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var best *Session
	for _, s := range r.sessions {
		if s.Username != username {
			continue
		}
		if best == nil || s.seq < best.seq {
			best = s
		}
	}
	if best == nil {
		return Session{}, false
	}
	return *best, true
}

// Snapshot returns the current online users in registration order.
// Connection ids are deliberately not part of the projection.
func (r *Registry) Snapshot() []domain.UserPresence {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ordered := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		ordered = append(ordered, s)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].seq < ordered[j].seq
	})

	users := make([]domain.UserPresence, 0, len(ordered))
	for _, s := range ordered {
		users = append(users, domain.UserPresence{
			Username: s.Username,
			Color:    s.Color,
		})
	}
	return users
}

// Len returns the number of registered sessions
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
