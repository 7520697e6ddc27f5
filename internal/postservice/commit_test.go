package postservice

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quillhaven/inkpost/internal/content"
	"github.com/quillhaven/inkpost/internal/mediaservice"
)

// fakeUploader resolves staged refs to predictable URLs and fails the refs
// listed in failing.
type fakeUploader struct {
	failing map[string]error
	calls   atomic.Int64
}

func (f *fakeUploader) UploadStaged(_ context.Context, ref string, kind mediaservice.Kind, slug string) (string, error) {
	f.calls.Add(1)
	if err, ok := f.failing[ref]; ok {
		return "", err
	}
	return fmt.Sprintf("https://media.test/%s/%s-%d", slug, kind, len(ref)), nil
}

func mediaTestService(uploader Uploader) *PostService {
	return &PostService{media: uploader}
}

func stagedDoc(refs ...string) *content.Node {
	blocks := make([]*content.Node, 0, len(refs))
	for _, ref := range refs {
		blocks = append(blocks, content.NewParagraph(content.NewImage(ref, "")))
	}
	return content.NewDoc(blocks...)
}

func TestCommitMediaResolvesAllStagedRefs(t *testing.T) {
	uploader := &fakeUploader{}
	s := mediaTestService(uploader)

	post := &BlogPost{
		Slug:             "my-post",
		Content:          stagedDoc("data:image/png;base64,aa", "data:image/png;base64,bbbb"),
		FeaturedImageURL: "data:image/png;base64,cccccc",
	}

	failures := s.commitMedia(context.Background(), post)
	assert.Empty(t, failures)
	assert.Equal(t, int64(3), uploader.calls.Load())

	for _, ref := range content.ExtractMediaRefs(post.Content) {
		assert.False(t, mediaservice.IsStaged(ref))
	}
	assert.False(t, mediaservice.IsStaged(post.FeaturedImageURL))
	assert.Equal(t, 1, post.ReadingTime)
}

func TestCommitMediaIsolatesFailures(t *testing.T) {
	bad := "data:image/png;base64,bad0"
	uploader := &fakeUploader{failing: map[string]error{bad: errors.New("bucket unavailable")}}
	s := mediaTestService(uploader)

	post := &BlogPost{
		Slug:    "my-post",
		Content: stagedDoc("data:image/png;base64,ok11", bad, "data:image/png;base64,ok222222"),
	}

	failures := s.commitMedia(context.Background(), post)

	assert.Len(t, failures, 1)
	assert.Equal(t, bad, failures[0].Ref)
	assert.Equal(t, mediaservice.KindInline, failures[0].Kind)
	assert.ErrorContains(t, failures[0], "bucket unavailable")

	refs := content.ExtractMediaRefs(post.Content)
	// The failed node keeps its staged reference; siblings are resolved.
	assert.Contains(t, refs, bad)
	for _, ref := range refs {
		if ref == bad {
			continue
		}
		assert.False(t, mediaservice.IsStaged(ref))
	}
}

func TestCommitMediaIdempotentOnResolvedTree(t *testing.T) {
	uploader := &fakeUploader{}
	s := mediaTestService(uploader)

	post := &BlogPost{
		Slug: "my-post",
		Content: stagedDoc(
			"https://media.test/2024/05/my-post/inline-1.jpg",
			"https://media.test/2024/05/my-post/inline-2.jpg",
		),
		FeaturedImageURL: "https://media.test/2024/05/my-post/featured-1.jpg",
	}

	failures := s.commitMedia(context.Background(), post)

	assert.Empty(t, failures)
	assert.Equal(t, int64(0), uploader.calls.Load(), "a fully resolved tree must trigger zero uploads")
}

func TestCommitMediaDeduplicatesRepeatedRefs(t *testing.T) {
	uploader := &fakeUploader{}
	s := mediaTestService(uploader)

	ref := "data:image/png;base64,same"
	post := &BlogPost{
		Slug:             "my-post",
		Content:          stagedDoc(ref, ref),
		FeaturedImageURL: ref,
	}

	failures := s.commitMedia(context.Background(), post)

	assert.Empty(t, failures)
	// One distinct staged reference, one upload, under the featured policy.
	assert.Equal(t, int64(1), uploader.calls.Load())
	assert.Equal(t, post.FeaturedImageURL, content.ExtractMediaRefs(post.Content)[0])
}

func TestCollectStagedRefs(t *testing.T) {
	tree := stagedDoc(
		"data:image/png;base64,inline1",
		"https://media.test/resolved.jpg",
		"data:image/png;base64,inline2",
	)

	refs := collectStagedRefs(tree, "data:image/png;base64,feat")

	assert.Equal(t, []stagedRef{
		{ref: "data:image/png;base64,feat", kind: mediaservice.KindFeatured},
		{ref: "data:image/png;base64,inline1", kind: mediaservice.KindInline},
		{ref: "data:image/png;base64,inline2", kind: mediaservice.KindInline},
	}, refs)
}

func TestCommitMediaRecomputesReadingTime(t *testing.T) {
	s := mediaTestService(&fakeUploader{})

	post := &BlogPost{
		Slug:    "my-post",
		Content: content.NewDoc(content.NewParagraph(content.NewText("a few words"))),
		// Authored value is ignored and recomputed.
		ReadingTime: 42,
	}

	s.commitMedia(context.Background(), post)
	assert.Equal(t, 1, post.ReadingTime)
}
