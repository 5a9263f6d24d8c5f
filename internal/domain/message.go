package domain

import "time"

// MessageKind defines the kind of chat message
type MessageKind string

const (
	MessageKindText  MessageKind = "text"
	MessageKindVoice MessageKind = "voice"
	MessageKindFile  MessageKind = "file"
)

// Message represents one chat, voice, or file message. Only the fields
// matching Kind are populated; the rest are omitted on the wire.
type Message struct {
	ID        int64       `json:"id"`
	Sender    string      `json:"sender"`
	Kind      MessageKind `json:"type"`
	Text      string      `json:"text,omitempty"`
	VoiceURL  string      `json:"voiceUrl,omitempty"`
	Duration  float64     `json:"duration,omitempty"`
	FileName  string      `json:"fileName,omitempty"`
	FileURL   string      `json:"fileUrl,omitempty"`
	FileSize  int64       `json:"fileSize,omitempty"`
	FileType  string      `json:"fileType,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// ==== Presence payloads ====

// PresenceAnnounce is the user_online payload
type PresenceAnnounce struct {
	Username string `json:"username"`
	Color    string `json:"color"`
}

// UserPresence is one entry of the users_online snapshot. Connection
// ids are never included here.
type UserPresence struct {
	Username string `json:"username"`
	Color    string `json:"color"`
}

// UserEvent is the user_joined / user_left payload
type UserEvent struct {
	Username string `json:"username"`
}

// ==== Chat payloads (client -> server) ====

// TextMessagePayload is the send_message payload
type TextMessagePayload struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

// VoiceMessagePayload is the send_voice_message payload
type VoiceMessagePayload struct {
	Sender   string  `json:"sender"`
	VoiceURL string  `json:"voiceUrl"`
	Duration float64 `json:"duration"`
}

// FileMessagePayload is the send_file_message payload
type FileMessagePayload struct {
	Sender   string `json:"sender"`
	FileName string `json:"fileName"`
	FileURL  string `json:"fileUrl"`
	FileSize int64  `json:"fileSize"`
	FileType string `json:"fileType"`
}

// ==== Call signaling payloads ====

// CallRequest is the call_user payload. Type is the requested media
// kind (audio/video); the server never interprets it.
type CallRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
	Type string `json:"type"`
}

// IncomingCall is relayed to the callee when a call is initiated.
// FromSocketID lets the callee address every later signaling leg
// directly to the caller's connection.
type IncomingCall struct {
	From         string `json:"from"`
	FromSocketID string `json:"fromSocketId"`
	Type         string `json:"type"`
}

// CallInitiated acknowledges a successful call_user to the caller
type CallInitiated struct {
	To string `json:"to"`
}

// CallFailed tells the caller the target could not be reached
type CallFailed struct {
	Reason string `json:"reason"`
}

// CallAnswer is the accept_call / reject_call payload sent by the
// callee. FromSocketID is the original caller's connection id.
type CallAnswer struct {
	FromSocketID string `json:"fromSocketId"`
}

// CallAccepted is relayed to the caller on accept_call
type CallAccepted struct {
	TargetSocketID string `json:"targetSocketId"`
}

// CallEnd is the end_call payload
type CallEnd struct {
	TargetSocketID string `json:"targetSocketId"`
}
