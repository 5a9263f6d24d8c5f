package usecase

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
)

// ErrUploadTooLarge is returned when an upload exceeds the size cap
var ErrUploadTooLarge = errors.New("upload exceeds maximum size")

// UploadKind selects the storage bucket for a blob
type UploadKind string

const (
	UploadKindVoice UploadKind = "voice"
	UploadKindFile  UploadKind = "files"
)

// StoredFile describes a stored blob. URL is the opaque string that
// ends up in voiceUrl/fileUrl message fields.
type StoredFile struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
}

// UploadStore keeps voice and file uploads on local disk under
// uuid-based names, served back at /uploads/<kind>/<name>.
type UploadStore struct {
	dir     string
	maxSize int64
}

// NewUploadStore creates the storage directories if needed
func NewUploadStore(dir string, maxSize int64) (*UploadStore, error) {
	for _, kind := range []UploadKind{UploadKindVoice, UploadKindFile} {
		if err := os.MkdirAll(filepath.Join(dir, string(kind)), 0o755); err != nil {
			return nil, fmt.Errorf("create upload dir: %w", err)
		}
	}
	return &UploadStore{dir: dir, maxSize: maxSize}, nil
}

// Dir returns the storage root, for mounting the static file handler
func (s *UploadStore) Dir() string {
	return s.dir
}

// Save writes the blob to disk under a fresh uuid name, keeping the
// original extension. The original filename itself is never used on
// disk; it travels only inside the message payload.
func (s *UploadStore) Save(kind UploadKind, originalName, contentType string, r io.Reader) (StoredFile, error) {
	name := uuid.New().String() + filepath.Ext(originalName)
	dst := filepath.Join(s.dir, string(kind), name)

	f, err := os.Create(dst)
	if err != nil {
		return StoredFile{}, fmt.Errorf("create file: %w", err)
	}

	written, err := io.Copy(f, io.LimitReader(r, s.maxSize+1))
	closeErr := f.Close()
	switch {
	case err != nil:
		os.Remove(dst)
		return StoredFile{}, fmt.Errorf("write file: %w", err)
	case closeErr != nil:
		os.Remove(dst)
		return StoredFile{}, fmt.Errorf("close file: %w", closeErr)
	case written > s.maxSize:
		os.Remove(dst)
		return StoredFile{}, ErrUploadTooLarge
	}

	return StoredFile{
		Name:        name,
		URL:         path.Join("/uploads", string(kind), name),
		Size:        written,
		ContentType: contentType,
	}, nil
}
