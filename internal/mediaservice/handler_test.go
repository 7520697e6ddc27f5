package mediaservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeStorage struct {
	uploads map[string][]byte
	err     error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{uploads: make(map[string][]byte)}
}

func (f *fakeStorage) Upload(_ context.Context, key string, data []byte, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.uploads[key] = data
	return f.PublicURL(key), nil
}

func (f *fakeStorage) PublicURL(key string) string {
	return "https://media.test/" + key
}

func TestObjectPath(t *testing.T) {
	at := time.Date(2024, time.May, 7, 10, 30, 0, 0, time.UTC)

	got := ObjectPath(KindFeatured, "my-cool-post", at, "jpg")
	assert.Equal(t, "2024/05/my-cool-post/featured-1715077800000.jpg", got)

	got = ObjectPath(KindInline, "my-cool-post", at, "jpg")
	assert.Equal(t, "2024/05/my-cool-post/inline-1715077800000.jpg", got)
}

func TestUploadStaged(t *testing.T) {
	storage := newFakeStorage()
	s := NewMediaService(storage)
	s.now = func() time.Time { return time.Date(2024, time.May, 7, 10, 30, 0, 0, time.UTC) }

	ref := EncodeFileAsStagedReference(pngBytes(t, 1600, 800))

	url, err := s.UploadStaged(context.Background(), ref, KindInline, "my-cool-post")
	assert.NoError(t, err)
	assert.Equal(t, "https://media.test/2024/05/my-cool-post/inline-1715077800000.jpg", url)

	data, ok := storage.uploads["2024/05/my-cool-post/inline-1715077800000.jpg"]
	assert.True(t, ok)

	w, _ := decodeDims(t, data)
	assert.Equal(t, 800, w)
}

func TestUploadStagedRejectsResolvedReference(t *testing.T) {
	s := NewMediaService(newFakeStorage())

	_, err := s.UploadStaged(context.Background(), "https://media.test/2024/05/p/inline-1.jpg", KindInline, "p")
	assert.ErrorIs(t, err, ErrNotStaged)
}

func TestUploadStagedPropagatesStorageError(t *testing.T) {
	storage := newFakeStorage()
	storage.err = errors.New("bucket unavailable")
	s := NewMediaService(storage)

	ref := EncodeFileAsStagedReference(pngBytes(t, 10, 10))

	_, err := s.UploadStaged(context.Background(), ref, KindFeatured, "p")
	assert.ErrorContains(t, err, "bucket unavailable")
}
