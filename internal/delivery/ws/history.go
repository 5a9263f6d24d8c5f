package ws

import (
	"sync"
	"time"

	"github.com/palaver-chat/palaver/internal/domain"
)

// MessageLog is the append-only in-memory record of chat, voice and
// file messages. Entries are never mutated or evicted; everything is
// lost on restart, which is the intended lifetime.
type MessageLog struct {
	mu     sync.Mutex
	msgs   []domain.Message
	lastID int64
}

// NewMessageLog creates an empty MessageLog
func NewMessageLog() *MessageLog {
	return &MessageLog{}
}

// Append stamps the message with a time-based id and the receipt
// timestamp, stores it, and returns the stored copy. Ids are the
// receipt time in milliseconds, nudged forward on collision so they
// stay strictly increasing within the process. Append never fails and
// performs no content validation; size limits belong to the upload
// layer.
func (l *MessageLog) Append(msg domain.Message) domain.Message {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	id := now.UnixMilli()
	if id <= l.lastID {
		id = l.lastID + 1
	}
	l.lastID = id

	msg.ID = id
	msg.Timestamp = now
	l.msgs = append(l.msgs, msg)
	return msg
}

// All returns every stored message in insertion order
func (l *MessageLog) All() []domain.Message {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]domain.Message, len(l.msgs))
	copy(out, l.msgs)
	return out
}

// Len returns the number of stored messages
func (l *MessageLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.msgs)
}
