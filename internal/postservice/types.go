package postservice

import (
	"database/sql"
	"time"

	"github.com/quillhaven/inkpost/internal/common"
	"github.com/quillhaven/inkpost/internal/content"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

type BlogPost struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Slug    string `json:"slug"`
	Excerpt string `json:"excerpt,omitempty"`
	// Content is the editor document tree, persisted as JSONB.
	Content          *content.Node `json:"content"`
	FeaturedImageURL string        `json:"featured_image_url,omitempty"`
	Status           Status        `json:"status"`
	CategoryID       *int          `json:"category_id,omitempty"`
	TagIDs           []int         `json:"tag_ids"`
	PublishedAt      *time.Time    `json:"published_at,omitempty"`
	// ReadingTime is derived from Content on every save, never authored.
	ReadingTime int       `json:"reading_time"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Version     int       `json:"version"`
}

type PostModel struct {
	db *sql.DB
}

type PostService struct {
	m      *PostModel
	media  Uploader
	c      *common.Cache
	broker common.MessageProducer
	now    func() time.Time
}
