package commentservice

import (
	"database/sql"
	"time"
)

// Comment is a flat row as stored; threading is reconstructed on read.
type Comment struct {
	ID         int       `json:"id"`
	PostID     int       `json:"post_id"`
	ParentID   *int      `json:"parent_id,omitempty"`
	AuthorID   int       `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

// CommentNode is a comment placed in its thread, with replies nested.
type CommentNode struct {
	Comment
	IsOwner bool           `json:"is_owner"`
	Replies []*CommentNode `json:"replies"`
}

type CommentModel struct {
	db *sql.DB
}

type CommentService struct {
	m *CommentModel
}
