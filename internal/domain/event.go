package domain

import "encoding/json"

// EventName identifies an event on the websocket wire
type EventName string

// Client -> server events
const (
	EventUserOnline       EventName = "user_online"
	EventSendMessage      EventName = "send_message"
	EventSendVoiceMessage EventName = "send_voice_message"
	EventSendFileMessage  EventName = "send_file_message"
	EventCallUser         EventName = "call_user"
	EventAcceptCall       EventName = "accept_call"
	EventRejectCall       EventName = "reject_call"
	EventEndCall          EventName = "end_call"
)

// Server -> client events
const (
	EventUserJoined      EventName = "user_joined"
	EventUserLeft        EventName = "user_left"
	EventUsersOnline     EventName = "users_online"
	EventNewMessage      EventName = "new_message"
	EventNewVoiceMessage EventName = "new_voice_message"
	EventNewFileMessage  EventName = "new_file_message"
	EventIncomingCall    EventName = "incoming_call"
	EventCallInitiated   EventName = "call_initiated"
	EventCallFailed      EventName = "call_failed"
	EventCallAccepted    EventName = "call_accepted"
	EventCallRejected    EventName = "call_rejected"
	EventCallEnded       EventName = "call_ended"
)

// Bidirectional events: forwarded verbatim between two connections
const (
	EventWebRTCOffer        EventName = "webrtc_offer"
	EventWebRTCAnswer       EventName = "webrtc_answer"
	EventWebRTCICECandidate EventName = "webrtc_ice_candidate"
)

// Event is the wire envelope for everything sent over a websocket
// connection. Data is left raw so relayed payloads (WebRTC offers,
// answers, ICE candidates) pass through byte for byte.
type Event struct {
	Name EventName       `json:"event"`
	Data json.RawMessage `json:"data,omitempty"`
}

// NewEvent marshals payload into an Event envelope
func NewEvent(name EventName, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{Name: name, Data: data}, nil
}
