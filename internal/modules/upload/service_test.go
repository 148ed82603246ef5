package upload

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeObjectStore struct {
	enabled bool
	putKey  string
	putBody []byte
}

func (f *fakeObjectStore) Enabled() bool { return f.enabled }

func (f *fakeObjectStore) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	body, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	f.putKey = key
	f.putBody = body
	return nil
}

func (f *fakeObjectStore) PresignPut(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return "https://bucket.example.com/" + key + "?signed", nil
}

func (f *fakeObjectStore) PublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

func pngBytes(extra int) []byte {
	head := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	return append(head, bytes.Repeat([]byte{0x01}, extra)...)
}

func TestStoreHappyPath(t *testing.T) {
	store := &fakeObjectStore{enabled: true}
	svc := NewService(store)

	data := pngBytes(600)
	res, err := svc.Store(context.Background(), KindAvatar, "me.png", "image/png", int64(len(data)), bytes.NewReader(data))
	require.NoError(t, err)

	require.Regexp(t, `^avatar/[0-9a-f-]{36}\.png$`, res.Key)
	require.Equal(t, "https://cdn.example.com/"+res.Key, res.URL)

	// sniffed head is replayed, the whole file lands in the bucket
	require.Equal(t, data, store.putBody)
}

func TestStoreContentMismatch(t *testing.T) {
	store := &fakeObjectStore{enabled: true}
	svc := NewService(store)

	jpeg := append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, bytes.Repeat([]byte{0x01}, 100)...)
	_, err := svc.Store(context.Background(), KindAvatar, "sneaky.png", "image/png", int64(len(jpeg)), bytes.NewReader(jpeg))
	require.ErrorIs(t, err, ErrContentMismatch)
	require.Empty(t, store.putKey)
}

func TestStoreDisabled(t *testing.T) {
	svc := NewService(&fakeObjectStore{enabled: false})

	_, err := svc.Store(context.Background(), KindAvatar, "me.png", "image/png", 100, bytes.NewReader(pngBytes(92)))
	require.ErrorIs(t, err, ErrStorageDisabled)
}

func TestPresignValidatesDeclaration(t *testing.T) {
	svc := NewService(&fakeObjectStore{enabled: true})
	ctx := context.Background()

	res, err := svc.Presign(ctx, KindAttachment, "brief.pdf", "application/pdf", 1024)
	require.NoError(t, err)
	require.NotEmpty(t, res.UploadURL)
	require.Regexp(t, `^attachment/[0-9a-f-]{36}\.pdf$`, res.Key)

	_, err = svc.Presign(ctx, KindAttachment, "tool.exe", "application/pdf", 1024)
	require.ErrorIs(t, err, ErrExtBlocked)
}
