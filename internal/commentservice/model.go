package commentservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

var (
	ErrPostNotFound   = errors.New("post does not exist")
	ErrParentNotFound = errors.New("parent comment does not exist")
)

func newCommentModel(db *sql.DB) *CommentModel {
	return &CommentModel{db: db}
}

func foreignKeyError(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "23503" && pqErr.Constraint == name {
			return true
		}
	}

	return false
}

func (m *CommentModel) insert(ctx context.Context, c *Comment) error {
	query := `
		INSERT INTO comments (post_id, parent_id, author_id, author_name, body)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := m.db.QueryRowContext(ctx, query, c.PostID, c.ParentID, c.AuthorID, c.AuthorName, c.Body).
		Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		switch {
		case foreignKeyError(err, "comments_post_id_fkey"):
			return ErrPostNotFound
		case foreignKeyError(err, "comments_parent_id_fkey"):
			return ErrParentNotFound
		default:
			return err
		}
	}

	return nil
}

// listByPost returns a post's comments flat, in insertion order.
func (m *CommentModel) listByPost(ctx context.Context, postID int) ([]Comment, error) {
	query := `
		SELECT id, post_id, parent_id, author_id, author_name, body, created_at
		FROM comments
		WHERE post_id = $1
		ORDER BY id`

	rows, err := m.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.ParentID, &c.AuthorID, &c.AuthorName, &c.Body, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}

	return comments, rows.Err()
}
