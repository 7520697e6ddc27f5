package postservice

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quillhaven/inkpost/internal/common"
	"github.com/quillhaven/inkpost/internal/content"
)

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusDraft.Valid())
	assert.True(t, StatusPublished.Valid())
	assert.True(t, StatusArchived.Valid())
	assert.False(t, Status("deleted").Valid())
	assert.False(t, Status("").Valid())
}

func TestCanTransition(t *testing.T) {
	statuses := []Status{StatusDraft, StatusPublished, StatusArchived}

	// Every edge between valid states is permitted, including leaving
	// published without further guards.
	for _, from := range statuses {
		for _, to := range statuses {
			assert.True(t, CanTransition(from, to), "%s -> %s", from, to)
		}
	}

	assert.False(t, CanTransition(StatusDraft, Status("deleted")))
	assert.False(t, CanTransition(Status(""), StatusDraft))
}

func TestValidateSavePublishGuard(t *testing.T) {
	s := &PostService{}

	emptyDoc := content.NewDoc(content.NewParagraph(content.NewText("   ")))

	testCases := []struct {
		name    string
		req     *SavePostRequest
		wantErr bool
		field   string
	}{
		{
			name:    "publishing empty content fails",
			req:     &SavePostRequest{Title: "A Post", Content: emptyDoc, Status: StatusPublished},
			wantErr: true,
			field:   "content",
		},
		{
			name: "same content saves as draft",
			req:  &SavePostRequest{Title: "A Post", Content: emptyDoc, Status: StatusDraft},
		},
		{
			name: "publishing non-empty content passes",
			req: &SavePostRequest{
				Title:   "A Post",
				Content: content.NewDoc(content.NewParagraph(content.NewText("hello"))),
				Status:  StatusPublished,
			},
		},
		{
			name:    "missing title fails",
			req:     &SavePostRequest{Content: content.NewDoc(), Status: StatusDraft},
			wantErr: true,
			field:   "title",
		},
		{
			name:    "missing content fails",
			req:     &SavePostRequest{Title: "A Post", Status: StatusDraft},
			wantErr: true,
			field:   "content",
		},
		{
			name:    "invalid status fails",
			req:     &SavePostRequest{Title: "A Post", Content: content.NewDoc(), Status: Status("wat")},
			wantErr: true,
			field:   "status",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := s.validateSave(tc.req, s.resolveSlug(tc.req))
			if !tc.wantErr {
				assert.NoError(t, err)
				return
			}

			var vErr common.ValidationError
			assert.ErrorAs(t, err, &vErr)
			assert.Contains(t, vErr.Errors, tc.field)
		})
	}
}

func TestResolveSlug(t *testing.T) {
	s := &PostService{}

	// Auto-derived from the title until the author edits the slug.
	req := &SavePostRequest{Title: "My Cool Post!!"}
	assert.Equal(t, "my-cool-post", s.resolveSlug(req))

	req = &SavePostRequest{Title: "My Cool Post!!", Slug: "hand-picked", SlugEdited: true}
	assert.Equal(t, "hand-picked", s.resolveSlug(req))

	// An edited-but-empty slug falls back to derivation.
	req = &SavePostRequest{Title: "My Cool Post!!", SlugEdited: true}
	assert.Equal(t, "my-cool-post", s.resolveSlug(req))
}
