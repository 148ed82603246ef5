package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const presignTTL = 15 * time.Minute

// ObjectStore is the storage contract the service needs.
type ObjectStore interface {
	Enabled() bool
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	PresignPut(ctx context.Context, key string, expiry time.Duration) (string, error)
	PublicURL(key string) string
}

// Result describes a stored or presigned object.
type Result struct {
	Key       string `json:"key"`
	URL       string `json:"url"`
	UploadURL string `json:"upload_url,omitempty"`
	Size      int64  `json:"size,omitempty"`
	MimeType  string `json:"mime_type"`
}

type Service struct {
	store ObjectStore
}

func NewService(store ObjectStore) *Service {
	return &Service{store: store}
}

// Store validates the file and writes it under a type-prefixed random key.
// The caller never controls the stored name; the original extension is the
// only part that survives.
func (s *Service) Store(ctx context.Context, kind, fileName, mimeType string, size int64, reader io.Reader) (*Result, error) {
	if !s.store.Enabled() {
		return nil, ErrStorageDisabled
	}
	if err := Validate(kind, fileName, mimeType, size); err != nil {
		return nil, err
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(reader, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]

	if err := VerifyContent(mimeType, head); err != nil {
		return nil, err
	}

	key := objectKey(kind, fileName)
	body := io.MultiReader(bytes.NewReader(head), io.LimitReader(reader, size-int64(n)))
	if err := s.store.Put(ctx, key, body, size, mimeType); err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	return &Result{
		Key:      key,
		URL:      s.store.PublicURL(key),
		Size:     size,
		MimeType: mimeType,
	}, nil
}

// Presign validates the declared file and hands the browser a direct PUT
// URL. Content sniffing is not possible here, so presigned uploads rely on
// the declared type plus the extension deny-list.
func (s *Service) Presign(ctx context.Context, kind, fileName, mimeType string, size int64) (*Result, error) {
	if !s.store.Enabled() {
		return nil, ErrStorageDisabled
	}
	if err := Validate(kind, fileName, mimeType, size); err != nil {
		return nil, err
	}

	key := objectKey(kind, fileName)
	uploadURL, err := s.store.PresignPut(ctx, key, presignTTL)
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}

	return &Result{
		Key:       key,
		URL:       s.store.PublicURL(key),
		UploadURL: uploadURL,
		MimeType:  mimeType,
	}, nil
}

func objectKey(kind, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return fmt.Sprintf("%s/%s%s", kind, uuid.NewString(), ext)
}
