package postservice

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/quillhaven/inkpost/internal/content"
)

var (
	ErrRecordNotFound   = errors.New("record not found")
	ErrDuplicateSlug    = errors.New("a post with this slug already exists")
	ErrCategoryNotFound = errors.New("category_id does not exist")
	ErrTagNotFound      = errors.New("tag_id does not exist")
	ErrEditConflict     = errors.New("edit conflict, the post was modified concurrently")
)

func newPostModel(db *sql.DB) *PostModel {
	return &PostModel{db: db}
}

// ForeignKeyError checks whether err is a violation of the named foreign
// key constraint.
func ForeignKeyError(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "23503" && pqErr.Constraint == name {
			return true
		}
	}

	return false
}

// UniqueViolationError checks whether err is a violation of the named
// unique constraint. The slug index is the backstop for the unguarded
// check-then-insert race between concurrent authors.
func UniqueViolationError(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "23505" && pqErr.Constraint == name {
			return true
		}
	}

	return false
}

func marshalContent(tree *content.Node) ([]byte, error) {
	data, err := json.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("marshal content tree: %w", err)
	}
	return data, nil
}

func (m *PostModel) insert(ctx context.Context, post *BlogPost) error {
	contentJSON, err := marshalContent(post.Content)
	if err != nil {
		return err
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO posts (title, slug, excerpt, content, featured_image_url, status, category_id, published_at, reading_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at, version`

	err = tx.QueryRowContext(ctx, query, post.Title, post.Slug, post.Excerpt, contentJSON, nullString(post.FeaturedImageURL), post.Status, post.CategoryID, post.PublishedAt, post.ReadingTime).
		Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt, &post.Version)
	if err != nil {
		switch {
		case UniqueViolationError(err, "posts_slug_lower_idx"):
			return ErrDuplicateSlug
		case ForeignKeyError(err, "posts_category_id_fkey"):
			return ErrCategoryNotFound
		default:
			return err
		}
	}

	if err := m.setTags(ctx, tx, post.ID, post.TagIDs); err != nil {
		return err
	}

	return tx.Commit()
}

func (m *PostModel) update(ctx context.Context, post *BlogPost) error {
	contentJSON, err := marshalContent(post.Content)
	if err != nil {
		return err
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		UPDATE posts
		SET title = $1, slug = $2, excerpt = $3, content = $4, featured_image_url = $5, status = $6, category_id = $7, published_at = $8, reading_time = $9, updated_at = now(), version = version + 1
		WHERE id = $10 AND version = $11
		RETURNING created_at, updated_at, version`

	err = tx.QueryRowContext(ctx, query, post.Title, post.Slug, post.Excerpt, contentJSON, nullString(post.FeaturedImageURL), post.Status, post.CategoryID, post.PublishedAt, post.ReadingTime, post.ID, post.Version).
		Scan(&post.CreatedAt, &post.UpdatedAt, &post.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrEditConflict
		case UniqueViolationError(err, "posts_slug_lower_idx"):
			return ErrDuplicateSlug
		case ForeignKeyError(err, "posts_category_id_fkey"):
			return ErrCategoryNotFound
		default:
			return err
		}
	}

	if err := m.setTags(ctx, tx, post.ID, post.TagIDs); err != nil {
		return err
	}

	return tx.Commit()
}

// setTags replaces the post's tag set inside the surrounding transaction.
func (m *PostModel) setTags(ctx context.Context, tx *sql.Tx, postID int, tagIDs []int) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM post_tags WHERE post_id = $1`, postID)
	if err != nil {
		return err
	}

	for _, tagID := range tagIDs {
		_, err := tx.ExecContext(ctx, `INSERT INTO post_tags (post_id, tag_id) VALUES ($1, $2)`, postID, tagID)
		if err != nil {
			if ForeignKeyError(err, "post_tags_tag_id_fkey") {
				return ErrTagNotFound
			}
			return err
		}
	}

	return nil
}

func (m *PostModel) getTagIDs(ctx context.Context, postID int) ([]int, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT tag_id FROM post_tags WHERE post_id = $1 ORDER BY tag_id`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

const postColumns = `id, title, slug, excerpt, content, COALESCE(featured_image_url, ''), status, category_id, published_at, reading_time, created_at, updated_at, version`

func (m *PostModel) scanPost(row *sql.Row) (*BlogPost, error) {
	var (
		post        BlogPost
		contentJSON []byte
	)

	err := row.Scan(&post.ID, &post.Title, &post.Slug, &post.Excerpt, &contentJSON, &post.FeaturedImageURL, &post.Status, &post.CategoryID, &post.PublishedAt, &post.ReadingTime, &post.CreatedAt, &post.UpdatedAt, &post.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	post.Content, err = content.ParseDoc(contentJSON)
	if err != nil {
		return nil, err
	}

	return &post, nil
}

func (m *PostModel) getByID(ctx context.Context, id int) (*BlogPost, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	post, err := m.scanPost(m.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}

	post.TagIDs, err = m.getTagIDs(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	return post, nil
}

func (m *PostModel) getBySlug(ctx context.Context, slug string) (*BlogPost, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE lower(slug) = lower($1)`

	post, err := m.scanPost(m.db.QueryRowContext(ctx, query, slug))
	if err != nil {
		return nil, err
	}

	post.TagIDs, err = m.getTagIDs(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	return post, nil
}

// slugExists checks for a case-insensitive slug collision, excluding the
// post's own id on update. Not serialized against the insert; the unique
// index catches the race.
func (m *PostModel) slugExists(ctx context.Context, slug string, excludeID int) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM posts WHERE lower(slug) = lower($1) AND id <> $2)`

	var exists bool
	err := m.db.QueryRowContext(ctx, query, slug, excludeID).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

// list returns posts newest first. Content trees are included; callers
// wanting a listing without bodies should project in the handler.
func (m *PostModel) list(ctx context.Context, limit, offset int) ([]BlogPost, error) {
	query := `SELECT ` + postColumns + ` FROM posts ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := m.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []BlogPost
	for rows.Next() {
		var (
			post        BlogPost
			contentJSON []byte
		)
		err := rows.Scan(&post.ID, &post.Title, &post.Slug, &post.Excerpt, &contentJSON, &post.FeaturedImageURL, &post.Status, &post.CategoryID, &post.PublishedAt, &post.ReadingTime, &post.CreatedAt, &post.UpdatedAt, &post.Version)
		if err != nil {
			return nil, err
		}

		post.Content, err = content.ParseDoc(contentJSON)
		if err != nil {
			return nil, err
		}

		posts = append(posts, post)
	}

	return posts, rows.Err()
}

func (m *PostModel) delete(ctx context.Context, id int) error {
	res, err := m.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows != 1 {
		switch {
		case rows == 0:
			return ErrRecordNotFound
		default:
			return fmt.Errorf("expected 1 row to be affected, got %d", rows)
		}
	}

	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
