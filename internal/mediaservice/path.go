package mediaservice

import (
	"fmt"
	"time"
)

// ObjectPath builds the deterministic storage key for an uploaded image:
// {year}/{month}/{slug}/{kind}-{epoch-ms}.{ext}. Keys for the same post
// share a prefix, so a post's media lists as one directory.
func ObjectPath(kind Kind, slug string, t time.Time, ext string) string {
	t = t.UTC()
	return fmt.Sprintf("%d/%02d/%s/%s-%d.%s", t.Year(), int(t.Month()), slug, kind, t.UnixMilli(), ext)
}
