package ws

import (
	"encoding/json"
	"log"

	"github.com/palaver-chat/palaver/internal/domain"
)

// Call signaling is a stateless relay. The callee's username is
// resolved exactly once, at call_user; every later leg (accept,
// reject, end, WebRTC negotiation) is addressed by the connection id
// the clients echo back to each other. The server keeps no call table
// and applies no ordering checks; relaying to a connection that has
// since gone away is a silent no-op.

// reasonTargetNotOnline is the only domain error the relay can detect
const reasonTargetNotOnline = "target not online"

// handleCallUser resolves the callee and either relays incoming_call
// to them (acknowledging the caller with call_initiated) or answers
// the caller with call_failed.
func (h *Hub) handleCallUser(c *Client, data json.RawMessage) {
	var req domain.CallRequest
	if err := json.Unmarshal(data, &req); err != nil {
		log.Printf("ws: bad call_user payload from %s: %v", c.ID, err)
		return
	}

	target, ok := h.registry.FindByUsername(req.To)
	if !ok {
		failed, err := domain.NewEvent(domain.EventCallFailed, domain.CallFailed{Reason: reasonTargetNotOnline})
		if err != nil {
			return
		}
		h.sendTo(c.ID, failed)
		return
	}

	incoming, err := domain.NewEvent(domain.EventIncomingCall, domain.IncomingCall{
		From:         req.From,
		FromSocketID: c.ID,
		Type:         req.Type,
	})
	if err != nil {
		return
	}
	h.sendTo(target.ConnID, incoming)

	initiated, err := domain.NewEvent(domain.EventCallInitiated, domain.CallInitiated{To: req.To})
	if err != nil {
		return
	}
	h.sendTo(c.ID, initiated)
}

// handleAcceptCall relays call_accepted to the original caller. No
// check is made that an incoming_call was actually delivered; the
// relay trusts the ids the clients exchange.
func (h *Hub) handleAcceptCall(c *Client, data json.RawMessage) {
	var ans domain.CallAnswer
	if err := json.Unmarshal(data, &ans); err != nil || ans.FromSocketID == "" {
		return
	}

	accepted, err := domain.NewEvent(domain.EventCallAccepted, domain.CallAccepted{TargetSocketID: c.ID})
	if err != nil {
		return
	}
	h.sendTo(ans.FromSocketID, accepted)
}

// handleRejectCall relays call_rejected to the original caller
func (h *Hub) handleRejectCall(c *Client, data json.RawMessage) {
	var ans domain.CallAnswer
	if err := json.Unmarshal(data, &ans); err != nil || ans.FromSocketID == "" {
		return
	}

	h.sendTo(ans.FromSocketID, domain.Event{Name: domain.EventCallRejected})
}

// handleEndCall relays call_ended to the other party. Either side may
// send it, in Ringing or after acceptance. The payload is usually
// {targetSocketId} but a bare string id is accepted too.
func (h *Hub) handleEndCall(c *Client, data json.RawMessage) {
	var end domain.CallEnd
	if err := json.Unmarshal(data, &end); err != nil || end.TargetSocketID == "" {
		var target string
		if err := json.Unmarshal(data, &target); err != nil || target == "" {
			return
		}
		end.TargetSocketID = target
	}

	h.sendTo(end.TargetSocketID, domain.Event{Name: domain.EventCallEnded})
}

// relaySignal forwards a WebRTC negotiation payload (offer, answer or
// ICE candidate) verbatim to the target connection. Only the target
// field is read; the rest of the payload is opaque cargo.
func (h *Hub) relaySignal(name domain.EventName, data json.RawMessage) {
	var hdr struct {
		Target string `json:"target"`
	}
	if err := json.Unmarshal(data, &hdr); err != nil || hdr.Target == "" {
		return
	}

	h.sendTo(hdr.Target, domain.Event{Name: name, Data: data})
}
