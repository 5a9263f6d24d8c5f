package ws

import (
	"testing"

	"github.com/palaver-chat/palaver/internal/domain"
)

func TestMessageLog_AppendAssignsIDAndTimestamp(t *testing.T) {
	l := NewMessageLog()

	stored := l.Append(domain.Message{
		Sender: "alice",
		Kind:   domain.MessageKindText,
		Text:   "hi",
	})

	if stored.ID == 0 {
		t.Error("Expected a non-zero id")
	}
	if stored.Timestamp.IsZero() {
		t.Error("Expected a receipt timestamp")
	}
	if stored.Sender != "alice" || stored.Text != "hi" {
		t.Errorf("Content must be preserved, got %+v", stored)
	}
}

func TestMessageLog_InsertionOrderAndMonotonicIDs(t *testing.T) {
	l := NewMessageLog()

	texts := []string{"m1", "m2", "m3"}
	for _, txt := range texts {
		l.Append(domain.Message{Sender: "alice", Kind: domain.MessageKindText, Text: txt})
	}

	all := l.All()
	if len(all) != 3 {
		t.Fatalf("Expected 3 messages, got %d", len(all))
	}

	var lastID int64
	for i, m := range all {
		if m.Text != texts[i] {
			t.Errorf("Position %d: expected %q, got %q", i, texts[i], m.Text)
		}
		if m.ID <= lastID {
			t.Errorf("Ids must be strictly increasing, got %d after %d", m.ID, lastID)
		}
		lastID = m.ID
	}
}

func TestMessageLog_RapidAppendsGetUniqueIDs(t *testing.T) {
	l := NewMessageLog()

	seen := make(map[int64]bool)
	for i := 0; i < 100; i++ {
		m := l.Append(domain.Message{Sender: "bob", Kind: domain.MessageKindText, Text: "x"})
		if seen[m.ID] {
			t.Fatalf("Duplicate id %d at append %d", m.ID, i)
		}
		seen[m.ID] = true
	}
}

func TestMessageLog_AllReturnsCopy(t *testing.T) {
	l := NewMessageLog()
	l.Append(domain.Message{Sender: "alice", Kind: domain.MessageKindText, Text: "hi"})

	first := l.All()
	first[0].Text = "tampered"

	if l.All()[0].Text != "hi" {
		t.Error("Mutating the returned slice must not affect the log")
	}
}

func TestMessageLog_VoiceAndFileKinds(t *testing.T) {
	l := NewMessageLog()

	v := l.Append(domain.Message{
		Sender:   "alice",
		Kind:     domain.MessageKindVoice,
		VoiceURL: "/uploads/voice/abc.webm",
		Duration: 3.5,
	})
	if v.VoiceURL == "" || v.Duration != 3.5 {
		t.Errorf("Voice fields must be preserved, got %+v", v)
	}

	f := l.Append(domain.Message{
		Sender:   "bob",
		Kind:     domain.MessageKindFile,
		FileName: "notes.pdf",
		FileURL:  "/uploads/files/def.pdf",
		FileSize: 1024,
		FileType: "application/pdf",
	})
	if f.FileName != "notes.pdf" || f.FileSize != 1024 {
		t.Errorf("File fields must be preserved, got %+v", f)
	}

	if l.Len() != 2 {
		t.Errorf("Expected 2 messages, got %d", l.Len())
	}
}
