package ws

import (
	"encoding/json"
	"log"

	"github.com/palaver-chat/palaver/internal/domain"
)

// handleChatSend builds a Message from an inbound send event, appends
// it to the log, and fans it out to every other connection.
//
// The sender field is taken from the payload as the client claimed it.
// When the claim differs from the registry identity bound to this
// connection the mismatch is logged, but the claimed name is kept on
// the message; overriding it is a policy change the protocol has not
// made.
func (h *Hub) handleChatSend(c *Client, name domain.EventName, data json.RawMessage) {
	var msg domain.Message
	var outName domain.EventName

	switch name {
	case domain.EventSendMessage:
		var p domain.TextMessagePayload
		if err := json.Unmarshal(data, &p); err != nil {
			log.Printf("ws: bad send_message payload from %s: %v", c.ID, err)
			return
		}
		msg = domain.Message{
			Sender: p.Sender,
			Kind:   domain.MessageKindText,
			Text:   p.Text,
		}
		outName = domain.EventNewMessage

	case domain.EventSendVoiceMessage:
		var p domain.VoiceMessagePayload
		if err := json.Unmarshal(data, &p); err != nil {
			log.Printf("ws: bad send_voice_message payload from %s: %v", c.ID, err)
			return
		}
		msg = domain.Message{
			Sender:   p.Sender,
			Kind:     domain.MessageKindVoice,
			VoiceURL: p.VoiceURL,
			Duration: p.Duration,
		}
		outName = domain.EventNewVoiceMessage

	case domain.EventSendFileMessage:
		var p domain.FileMessagePayload
		if err := json.Unmarshal(data, &p); err != nil {
			log.Printf("ws: bad send_file_message payload from %s: %v", c.ID, err)
			return
		}
		msg = domain.Message{
			Sender:   p.Sender,
			Kind:     domain.MessageKindFile,
			FileName: p.FileName,
			FileURL:  p.FileURL,
			FileSize: p.FileSize,
			FileType: p.FileType,
		}
		outName = domain.EventNewFileMessage

	default:
		return
	}

	if sess, ok := h.registry.Get(c.ID); ok && sess.Username != msg.Sender {
		log.Printf("ws: connection %s announced as %q but sent message as %q", c.ID, sess.Username, msg.Sender)
	}

	stored := h.log.Append(msg)

	ev, err := domain.NewEvent(outName, stored)
	if err != nil {
		log.Printf("ws: marshal %s: %v", outName, err)
		return
	}
	h.broadcast(ev, c.ID)
}
