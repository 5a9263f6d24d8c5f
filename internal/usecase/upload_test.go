package usecase

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestStore(t *testing.T, maxSize int64) *UploadStore {
	t.Helper()
	store, err := NewUploadStore(t.TempDir(), maxSize)
	if err != nil {
		t.Fatalf("Failed to create upload store: %v", err)
	}
	return store
}

func TestUploadStore_CreatesDirectories(t *testing.T) {
	store := newTestStore(t, 1024)

	for _, kind := range []UploadKind{UploadKindVoice, UploadKindFile} {
		info, err := os.Stat(filepath.Join(store.Dir(), string(kind)))
		if err != nil || !info.IsDir() {
			t.Errorf("Expected %s directory to exist", kind)
		}
	}
}

func TestUploadStore_SaveFile(t *testing.T) {
	store := newTestStore(t, 1024)

	content := []byte("fake pdf bytes")
	stored, err := store.Save(UploadKindFile, "notes.pdf", "application/pdf", bytes.NewReader(content))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if !strings.HasPrefix(stored.URL, "/uploads/files/") {
		t.Errorf("Unexpected URL %q", stored.URL)
	}
	if !strings.HasSuffix(stored.Name, ".pdf") {
		t.Errorf("Extension must be preserved, got %q", stored.Name)
	}
	if stored.Name == "notes.pdf" {
		t.Error("Original filename must not be used on disk")
	}
	if stored.Size != int64(len(content)) {
		t.Errorf("Expected size %d, got %d", len(content), stored.Size)
	}
	if stored.ContentType != "application/pdf" {
		t.Errorf("Unexpected content type %q", stored.ContentType)
	}

	data, err := os.ReadFile(filepath.Join(store.Dir(), "files", stored.Name))
	if err != nil {
		t.Fatalf("Stored file unreadable: %v", err)
	}
	if !bytes.Equal(data, content) {
		t.Error("Stored content differs from input")
	}
}

func TestUploadStore_VoiceGoesToVoiceBucket(t *testing.T) {
	store := newTestStore(t, 1024)

	stored, err := store.Save(UploadKindVoice, "clip.webm", "audio/webm", strings.NewReader("audio"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !strings.HasPrefix(stored.URL, "/uploads/voice/") {
		t.Errorf("Unexpected URL %q", stored.URL)
	}
}

func TestUploadStore_RejectsOversized(t *testing.T) {
	store := newTestStore(t, 10)

	_, err := store.Save(UploadKindFile, "big.bin", "application/octet-stream",
		bytes.NewReader(make([]byte, 11)))
	if !errors.Is(err, ErrUploadTooLarge) {
		t.Fatalf("Expected ErrUploadTooLarge, got %v", err)
	}

	// The partial file must not be left behind
	entries, err := os.ReadDir(filepath.Join(store.Dir(), "files"))
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no leftover files, found %d", len(entries))
	}
}

func TestUploadStore_ExactLimitAllowed(t *testing.T) {
	store := newTestStore(t, 10)

	stored, err := store.Save(UploadKindFile, "fits.bin", "application/octet-stream",
		bytes.NewReader(make([]byte, 10)))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if stored.Size != 10 {
		t.Errorf("Expected size 10, got %d", stored.Size)
	}
}
