package ws

import (
	"log"
	"sync"

	"github.com/palaver-chat/palaver/internal/domain"
)

// inboundEvent is one tagged event read off a connection, queued for
// the hub's dispatch loop
type inboundEvent struct {
	client *Client
	event  domain.Event
}

// Hub owns the connection lifecycle: it tracks every live connection,
// drives the presence registry and message log, and routes call
// signaling between connections. All inbound events funnel through a
// single dispatch goroutine (Run), so handlers never race each other;
// the registry and log still carry their own locks because the HTTP
// query surface reads them from request goroutines.
type Hub struct {
	registry *Registry
	log      *MessageLog

	mu    sync.RWMutex
	conns map[string]*Client

	register   chan *Client
	unregister chan *Client
	inbound    chan inboundEvent

	maxMessageSize int64
}

// NewHub creates a new Hub
func NewHub(maxMessageSize int64) *Hub {
	if maxMessageSize <= 0 {
		maxMessageSize = domain.MaxMessageSize
	}
	return &Hub{
		registry:       NewRegistry(),
		log:            NewMessageLog(),
		conns:          make(map[string]*Client),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		inbound:        make(chan inboundEvent, 256),
		maxMessageSize: maxMessageSize,
	}
}

// Run starts the hub's dispatch loop. Events from all connections are
// processed here in arrival order; no handler blocks beyond issuing
// non-blocking sends.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.conns[c.ID] = c
			h.mu.Unlock()
			// Not part of presence yet; that happens on user_online

		case c := <-h.unregister:
			h.handleDisconnect(c)

		case in := <-h.inbound:
			h.dispatch(in.client, in.event)
		}
	}
}

// dispatch routes one inbound event to the matching handler
func (h *Hub) dispatch(c *Client, ev domain.Event) {
	switch ev.Name {
	case domain.EventUserOnline:
		h.handleUserOnline(c, ev.Data)

	case domain.EventSendMessage, domain.EventSendVoiceMessage, domain.EventSendFileMessage:
		h.handleChatSend(c, ev.Name, ev.Data)

	case domain.EventCallUser:
		h.handleCallUser(c, ev.Data)

	case domain.EventAcceptCall:
		h.handleAcceptCall(c, ev.Data)

	case domain.EventRejectCall:
		h.handleRejectCall(c, ev.Data)

	case domain.EventEndCall:
		h.handleEndCall(c, ev.Data)

	case domain.EventWebRTCOffer, domain.EventWebRTCAnswer, domain.EventWebRTCICECandidate:
		h.relaySignal(ev.Name, ev.Data)

	default:
		log.Printf("ws: unknown event %q from %s", ev.Name, c.ID)
	}
}
