package postservice

import (
	"context"
	"fmt"
	"sync"

	"github.com/quillhaven/inkpost/internal/content"
	"github.com/quillhaven/inkpost/internal/mediaservice"
)

// Uploader is the media pipeline the commit protocol fans out to. Satisfied
// by mediaservice.MediaService.
type Uploader interface {
	UploadStaged(ctx context.Context, ref string, kind mediaservice.Kind, slug string) (string, error)
}

// UploadError records a single failed image upload. It is isolated: the
// other uploads and the save itself proceed, and the failed node keeps its
// staged reference in the persisted document.
type UploadError struct {
	Ref  string
	Kind mediaservice.Kind
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s image: %v", e.Kind, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

type stagedRef struct {
	ref  string
	kind mediaservice.Kind
}

// collectStagedRefs gathers the distinct staged references of a post: the
// featured image field first, then every staged image node in document
// order. A reference used both as featured and inline is uploaded once,
// under the featured policy.
func collectStagedRefs(tree *content.Node, featuredImageURL string) []stagedRef {
	seen := make(map[string]bool)
	var refs []stagedRef

	if mediaservice.IsStaged(featuredImageURL) {
		seen[featuredImageURL] = true
		refs = append(refs, stagedRef{ref: featuredImageURL, kind: mediaservice.KindFeatured})
	}

	for _, ref := range content.ExtractMediaRefs(tree) {
		if !mediaservice.IsStaged(ref) || seen[ref] {
			continue
		}
		seen[ref] = true
		refs = append(refs, stagedRef{ref: ref, kind: mediaservice.KindInline})
	}

	return refs
}

// resolveStagedMedia runs the upload fan-out of the commit protocol: one
// goroutine per distinct staged reference, joined before returning. The map
// holds old-staged -> new-resolved entries for successful uploads only;
// failures come back as UploadErrors and leave their reference out of the
// map. A fully resolved post yields an empty map and no uploads at all.
func (s *PostService) resolveStagedMedia(ctx context.Context, tree *content.Node, featuredImageURL, slug string) (map[string]string, []*UploadError) {
	staged := collectStagedRefs(tree, featuredImageURL)
	if len(staged) == 0 {
		return nil, nil
	}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		resolved = make(map[string]string, len(staged))
		failures []*UploadError
	)

	for _, sr := range staged {
		wg.Add(1)
		go func(sr stagedRef) {
			defer wg.Done()

			url, err := s.media.UploadStaged(ctx, sr.ref, sr.kind, slug)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, &UploadError{Ref: sr.ref, Kind: sr.kind, Err: err})
				return
			}
			resolved[sr.ref] = url
		}(sr)
	}

	// Hard barrier: nothing is persisted before every upload has settled.
	wg.Wait()

	return resolved, failures
}

// commitMedia applies the full deferred-upload protocol to a post in place:
// discover staged references, upload them concurrently, rewrite the tree and
// the featured field for the successful ones, and recompute the derived
// reading time. References whose upload failed stay staged rather than
// corrupting the document.
func (s *PostService) commitMedia(ctx context.Context, post *BlogPost) []*UploadError {
	resolved, failures := s.resolveStagedMedia(ctx, post.Content, post.FeaturedImageURL, post.Slug)

	if len(resolved) > 0 {
		post.Content = content.RewriteMediaRefs(post.Content, resolved)
		if url, ok := resolved[post.FeaturedImageURL]; ok {
			post.FeaturedImageURL = url
		}
	}

	post.ReadingTime = content.EstimateReadingTime(post.Content)

	return failures
}
