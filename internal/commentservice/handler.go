package commentservice

import (
	"context"
	"database/sql"

	"github.com/quillhaven/inkpost/internal/common"
)

func NewCommentService(db *sql.DB) *CommentService {
	return &CommentService{m: newCommentModel(db)}
}

type AddCommentRequest struct {
	PostID     int    `json:"post_id"`
	ParentID   *int   `json:"parent_id"`
	AuthorID   int    `json:"author_id"`
	AuthorName string `json:"author_name"`
	Body       string `json:"body"`
}

func (s *CommentService) validateAdd(req *AddCommentRequest) error {
	v := common.NewValidator()
	v.Check(req.PostID > 0, "post_id", "must be a positive integer")
	v.Check(req.AuthorID > 0, "author_id", "must be a positive integer")
	v.Check(req.AuthorName != "", "author_name", "must be provided")
	v.Check(req.Body != "", "body", "must be provided")
	v.Check(len(req.Body) <= 10000, "body", "must not be more than 10000 characters")
	if !v.Valid() {
		return v.ValidationError()
	}
	return nil
}

func (s *CommentService) AddComment(ctx context.Context, req *AddCommentRequest) (*Comment, error) {
	if err := s.validateAdd(req); err != nil {
		return nil, err
	}

	c := &Comment{
		PostID:     req.PostID,
		ParentID:   req.ParentID,
		AuthorID:   req.AuthorID,
		AuthorName: req.AuthorName,
		Body:       req.Body,
	}

	if err := s.m.insert(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

// GetThread loads a post's comments and reconstructs the reply forest.
// ownerID is the post author, used to flag their own replies.
func (s *CommentService) GetThread(ctx context.Context, postID, ownerID int) ([]*CommentNode, error) {
	v := common.NewValidator()
	v.Check(postID > 0, "post_id", "must be a positive integer")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	comments, err := s.m.listByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	return BuildThread(comments, ownerID), nil
}
