package mediaservice

import (
	"context"
	"time"
)

// MediaService turns staged references into resolved storage URLs. Each
// UploadStaged call is independent; a failed upload affects nothing else.
type MediaService struct {
	storage ObjectStorage
	now     func() time.Time
}

func NewMediaService(storage ObjectStorage) *MediaService {
	return &MediaService{
		storage: storage,
		now:     time.Now,
	}
}

// UploadStaged decodes a staged reference, compresses it under the kind's
// policy and uploads it at the deterministic path for the post slug. It
// returns the resolved public URL.
func (s *MediaService) UploadStaged(ctx context.Context, ref string, kind Kind, slug string) (string, error) {
	_, data, err := DecodeStagedReference(ref)
	if err != nil {
		return "", err
	}

	compressed, ext, err := Compress(data, PolicyFor(kind))
	if err != nil {
		return "", err
	}

	key := ObjectPath(kind, slug, s.now(), ext)

	return s.storage.Upload(ctx, key, compressed, "image/jpeg")
}
