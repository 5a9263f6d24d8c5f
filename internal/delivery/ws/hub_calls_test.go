package ws

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/palaver-chat/palaver/internal/domain"
)

// callPair wires up two announced connections ready to signal each other
func callPair(t *testing.T) (*Hub, *Client, *Client) {
	t.Helper()
	hub := startHub(t)
	a := connect(t, hub)
	b := connect(t, hub)
	announce(t, hub, a, "alice", "#111")
	announce(t, hub, b, "bob", "#222")
	drain(a)
	drain(b)
	return hub, a, b
}

func TestCallUser_TargetOffline(t *testing.T) {
	hub, a, b := callPair(t)

	hub.Dispatch(a, mustEvent(t, domain.EventCallUser, domain.CallRequest{
		From: "alice",
		To:   "ghost",
		Type: "video",
	}))

	failed := decodePayload[domain.CallFailed](t, expectEvent(t, a, domain.EventCallFailed))
	if failed.Reason != "target not online" {
		t.Errorf("Expected reason %q, got %q", "target not online", failed.Reason)
	}

	// The failure must not leak to anyone else
	expectSilence(t, b)
}

func TestCallUser_RelaysToTarget(t *testing.T) {
	hub, a, b := callPair(t)

	c := connect(t, hub)
	announce(t, hub, c, "carol", "#333")
	drain(a)
	drain(b)
	drain(c)

	hub.Dispatch(a, mustEvent(t, domain.EventCallUser, domain.CallRequest{
		From: "alice",
		To:   "bob",
		Type: "video",
	}))

	incoming := decodePayload[domain.IncomingCall](t, expectEvent(t, b, domain.EventIncomingCall))
	if incoming.From != "alice" {
		t.Errorf("Expected caller alice, got %q", incoming.From)
	}
	if incoming.FromSocketID != a.ID {
		t.Errorf("Expected caller connection id %s, got %s", a.ID, incoming.FromSocketID)
	}
	if incoming.Type != "video" {
		t.Errorf("Expected media type video, got %q", incoming.Type)
	}

	initiated := decodePayload[domain.CallInitiated](t, expectEvent(t, a, domain.EventCallInitiated))
	if initiated.To != "bob" {
		t.Errorf("Expected ack for bob, got %q", initiated.To)
	}

	// Third parties see nothing of the exchange
	expectSilence(t, c)
}

func TestAcceptCall_RelaysToCaller(t *testing.T) {
	hub, a, b := callPair(t)

	hub.Dispatch(a, mustEvent(t, domain.EventCallUser, domain.CallRequest{
		From: "alice", To: "bob", Type: "audio",
	}))
	expectEvent(t, b, domain.EventIncomingCall)
	expectEvent(t, a, domain.EventCallInitiated)

	hub.Dispatch(b, mustEvent(t, domain.EventAcceptCall, domain.CallAnswer{FromSocketID: a.ID}))

	accepted := decodePayload[domain.CallAccepted](t, expectEvent(t, a, domain.EventCallAccepted))
	if accepted.TargetSocketID != b.ID {
		t.Errorf("Expected callee connection id %s, got %s", b.ID, accepted.TargetSocketID)
	}
	expectSilence(t, b)
}

func TestRejectCall_RelaysToCaller(t *testing.T) {
	hub, a, b := callPair(t)

	hub.Dispatch(b, mustEvent(t, domain.EventRejectCall, domain.CallAnswer{FromSocketID: a.ID}))

	expectEvent(t, a, domain.EventCallRejected)
	expectSilence(t, b)
}

func TestEndCall_StructPayload(t *testing.T) {
	hub, a, b := callPair(t)

	hub.Dispatch(a, mustEvent(t, domain.EventEndCall, domain.CallEnd{TargetSocketID: b.ID}))

	expectEvent(t, b, domain.EventCallEnded)
	expectSilence(t, a)
}

func TestEndCall_BareStringPayload(t *testing.T) {
	hub, a, b := callPair(t)

	hub.Dispatch(a, domain.Event{
		Name: domain.EventEndCall,
		Data: json.RawMessage(`"` + b.ID + `"`),
	})

	expectEvent(t, b, domain.EventCallEnded)
}

func TestRelaySignal_ForwardsVerbatim(t *testing.T) {
	hub, a, b := callPair(t)

	payload := json.RawMessage(`{"target":"` + b.ID + `","sdp":"v=0 fake offer","extra":{"k":1}}`)
	hub.Dispatch(a, domain.Event{Name: domain.EventWebRTCOffer, Data: payload})

	offer := expectEvent(t, b, domain.EventWebRTCOffer)
	if string(offer.Data) != string(payload) {
		t.Errorf("Payload must be forwarded verbatim.\nwant %s\ngot  %s", payload, offer.Data)
	}
}

func TestRelaySignal_AllKinds(t *testing.T) {
	hub, a, b := callPair(t)

	kinds := []domain.EventName{
		domain.EventWebRTCOffer,
		domain.EventWebRTCAnswer,
		domain.EventWebRTCICECandidate,
	}
	for _, kind := range kinds {
		hub.Dispatch(a, domain.Event{
			Name: kind,
			Data: json.RawMessage(`{"target":"` + b.ID + `","candidate":"c"}`),
		})
		expectEvent(t, b, kind)
	}
}

func TestRelaySignal_StaleTargetIsNoop(t *testing.T) {
	hub, a, b := callPair(t)

	stale := uuid.New().String()
	hub.Dispatch(a, domain.Event{
		Name: domain.EventWebRTCOffer,
		Data: json.RawMessage(`{"target":"` + stale + `","sdp":"x"}`),
	})

	expectSilence(t, a)
	expectSilence(t, b)
}

func TestEndCall_StaleTargetIsNoop(t *testing.T) {
	hub, a, b := callPair(t)

	hub.Dispatch(a, mustEvent(t, domain.EventEndCall, domain.CallEnd{
		TargetSocketID: uuid.New().String(),
	}))

	expectSilence(t, a)
	expectSilence(t, b)
}

func TestCallUser_DuplicateUsernameRingsFirstRegistered(t *testing.T) {
	hub, a, b := callPair(t)

	// A second connection also claims "bob"
	b2 := connect(t, hub)
	announce(t, hub, b2, "bob", "#444")
	drain(a)
	drain(b)
	drain(b2)

	hub.Dispatch(a, mustEvent(t, domain.EventCallUser, domain.CallRequest{
		From: "alice", To: "bob", Type: "audio",
	}))

	// The earlier registration wins the resolve
	expectEvent(t, b, domain.EventIncomingCall)
	expectEvent(t, a, domain.EventCallInitiated)
	expectSilence(t, b2)
}
