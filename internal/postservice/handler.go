package postservice

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/quillhaven/inkpost/internal/common"
	"github.com/quillhaven/inkpost/internal/content"
)

// NewPostService wires the persistence model, the media upload pipeline, the
// read cache and the event broker. media must not be nil; cache and broker
// may be nil to disable caching and event publishing.
func NewPostService(db *sql.DB, media Uploader, c *common.Cache, broker common.MessageProducer) *PostService {
	return &PostService{
		m:      newPostModel(db),
		media:  media,
		c:      c,
		broker: broker,
		now:    time.Now,
	}
}

type SavePostRequest struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
	// SlugEdited marks that the author has taken over the slug; until then
	// it is re-derived from the title on every save.
	SlugEdited       bool          `json:"slug_edited"`
	Excerpt          string        `json:"excerpt"`
	Content          *content.Node `json:"content"`
	FeaturedImageURL string        `json:"featured_image_url"`
	Status           Status        `json:"status"`
	CategoryID       *int          `json:"category_id"`
	TagIDs           []int         `json:"tag_ids"`
	PublishedAt      *time.Time    `json:"published_at"`
}

// SaveResult is the outcome of a save: the persisted post plus the isolated
// upload failures, whose references remain staged in the persisted content.
type SaveResult struct {
	Post         *BlogPost      `json:"post"`
	UploadErrors []*UploadError `json:"-"`
}

func (s *PostService) resolveSlug(req *SavePostRequest) string {
	if req.SlugEdited && req.Slug != "" {
		return req.Slug
	}
	return GenerateSlug(req.Title)
}

func (s *PostService) validateSave(req *SavePostRequest, slug string) error {
	v := common.NewValidator()
	validateTitle(v, req.Title)
	validateSlug(v, slug)
	validateContent(v, req.Content)
	v.Check(req.Status.Valid(), "status", "must be one of draft, published, archived")
	if v.Valid() && req.Status == StatusPublished {
		validatePublishable(v, req.Content)
	}
	if !v.Valid() {
		return v.ValidationError()
	}
	return nil
}

// CreatePost runs the full save pipeline for a new post: slug derivation and
// validation, the deferred-media commit protocol, the uniqueness check, and
// a single insert. Upload failures do not fail the save; they are returned
// in the result.
func (s *PostService) CreatePost(ctx context.Context, req *SavePostRequest) (*SaveResult, error) {
	slug := s.resolveSlug(req)
	if err := s.validateSave(req, slug); err != nil {
		return nil, err
	}

	post := &BlogPost{
		Title:            req.Title,
		Slug:             slug,
		Excerpt:          req.Excerpt,
		Content:          req.Content,
		FeaturedImageURL: req.FeaturedImageURL,
		Status:           req.Status,
		CategoryID:       req.CategoryID,
		TagIDs:           req.TagIDs,
		PublishedAt:      req.PublishedAt,
	}

	if post.Status == StatusPublished && post.PublishedAt == nil {
		at := s.now()
		post.PublishedAt = &at
	}

	failures := s.commitMedia(ctx, post)

	exists, err := s.m.slugExists(ctx, post.Slug, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateSlug
	}

	if err := s.m.insert(ctx, post); err != nil {
		return nil, err
	}

	s.invalidate()

	if post.Status == StatusPublished {
		if err := s.publishEvent(ctx, post); err != nil {
			return nil, err
		}
	}

	return &SaveResult{Post: post, UploadErrors: failures}, nil
}

// UpdatePost re-runs the save pipeline against an existing post. The status
// transition is validated against the state machine, and entering published
// stamps published_at when the author did not provide one.
func (s *PostService) UpdatePost(ctx context.Context, id int, req *SavePostRequest) (*SaveResult, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	existing, err := s.m.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	slug := s.resolveSlug(req)
	if err := s.validateSave(req, slug); err != nil {
		return nil, err
	}

	if !CanTransition(existing.Status, req.Status) {
		return nil, common.ValidationError{Errors: map[string]string{"status": fmt.Sprintf("cannot transition from %s to %s", existing.Status, req.Status)}}
	}

	post := &BlogPost{
		ID:               existing.ID,
		Title:            req.Title,
		Slug:             slug,
		Excerpt:          req.Excerpt,
		Content:          req.Content,
		FeaturedImageURL: req.FeaturedImageURL,
		Status:           req.Status,
		CategoryID:       req.CategoryID,
		TagIDs:           req.TagIDs,
		PublishedAt:      req.PublishedAt,
		Version:          existing.Version,
	}

	if post.PublishedAt == nil {
		post.PublishedAt = existing.PublishedAt
	}
	if post.Status == StatusPublished && post.PublishedAt == nil {
		at := s.now()
		post.PublishedAt = &at
	}

	failures := s.commitMedia(ctx, post)

	if post.Slug != existing.Slug {
		exists, err := s.m.slugExists(ctx, post.Slug, post.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrDuplicateSlug
		}
	}

	if err := s.m.update(ctx, post); err != nil {
		return nil, err
	}

	s.invalidate()

	if existing.Status != StatusPublished && post.Status == StatusPublished {
		if err := s.publishEvent(ctx, post); err != nil {
			return nil, err
		}
	}

	return &SaveResult{Post: post, UploadErrors: failures}, nil
}

// ChangeStatus moves a post between states without touching its content.
// Entering published is guarded by the non-empty-content rule.
func (s *PostService) ChangeStatus(ctx context.Context, id int, to Status, publishedAt *time.Time) (*BlogPost, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	v.Check(to.Valid(), "status", "must be one of draft, published, archived")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	post, err := s.m.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if to == StatusPublished {
		v := common.NewValidator()
		validatePublishable(v, post.Content)
		if !v.Valid() {
			return nil, v.ValidationError()
		}
		if publishedAt != nil {
			post.PublishedAt = publishedAt
		}
		if post.PublishedAt == nil {
			at := s.now()
			post.PublishedAt = &at
		}
	}

	from := post.Status
	post.Status = to

	if err := s.m.update(ctx, post); err != nil {
		return nil, err
	}

	s.invalidate()

	if from != StatusPublished && to == StatusPublished {
		if err := s.publishEvent(ctx, post); err != nil {
			return nil, err
		}
	}

	return post, nil
}

func (s *PostService) GetPostByID(ctx context.Context, id int) (*BlogPost, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if s.c != nil {
		if cached, ok := s.c.Get(common.CacheKeyPost(id)); ok {
			return cached.(*BlogPost), nil
		}
	}

	post, err := s.m.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.c != nil {
		s.c.Set(common.CacheKeyPost(id), post)
	}

	return post, nil
}

func (s *PostService) GetPostBySlug(ctx context.Context, slug string) (*BlogPost, error) {
	v := common.NewValidator()
	validateSlug(v, slug)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if s.c != nil {
		if cached, ok := s.c.Get(common.CacheKeyPostBySlug(slug)); ok {
			return cached.(*BlogPost), nil
		}
	}

	post, err := s.m.getBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if s.c != nil {
		s.c.Set(common.CacheKeyPostBySlug(slug), post)
	}

	return post, nil
}

// ListPosts returns posts newest first. Default limit is 10 and default
// offset is 0.
func (s *PostService) ListPosts(ctx context.Context, limit, offset *int) ([]BlogPost, error) {
	if *limit < 1 {
		*limit = 10
	}

	if *offset < 0 {
		*offset = 0
	}

	return s.m.list(ctx, *limit, *offset)
}

// DeletePost hard-deletes a post. Media objects already in storage are left
// behind; there is no storage rollback tier.
func (s *PostService) DeletePost(ctx context.Context, id int) error {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return v.ValidationError()
	}

	if err := s.m.delete(ctx, id); err != nil {
		return err
	}

	s.invalidate()

	return nil
}

type postPublishedEvent struct {
	ID          int        `json:"id"`
	Slug        string     `json:"slug"`
	PublishedAt *time.Time `json:"published_at"`
}

func (s *PostService) publishEvent(ctx context.Context, post *BlogPost) error {
	if s.broker == nil {
		return nil
	}

	msg, err := json.Marshal(postPublishedEvent{ID: post.ID, Slug: post.Slug, PublishedAt: post.PublishedAt})
	if err != nil {
		return err
	}

	return s.broker.Publish(ctx, msg, common.PostPublishedKey, common.PostExchange)
}

// Any mutation flushes the whole cache: listing keys are unbounded and the
// cache is small.
func (s *PostService) invalidate() {
	if s.c != nil {
		s.c.Flush()
	}
}
