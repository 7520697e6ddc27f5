package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/quillhaven/inkpost/internal/commentservice"
	"github.com/quillhaven/inkpost/internal/common"
	"github.com/quillhaven/inkpost/internal/postservice"
)

// uploadErrorsPayload flattens isolated upload failures for the response
// body so the author can retry the still-staged images.
func uploadErrorsPayload(failures []*postservice.UploadError) []map[string]string {
	if len(failures) == 0 {
		return nil
	}

	payload := make([]map[string]string, 0, len(failures))
	for _, f := range failures {
		payload = append(payload, map[string]string{
			"ref":   f.Ref,
			"kind":  string(f.Kind),
			"error": f.Err.Error(),
		})
	}

	return payload
}

func (app *application) savePostErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, postservice.ErrRecordNotFound):
		app.notFoundErrorResponse(w, r)
	case errors.Is(err, postservice.ErrDuplicateSlug):
		app.conflictErrorResponse(w, r, "a post with this slug already exists")
	case errors.Is(err, postservice.ErrEditConflict):
		app.conflictErrorResponse(w, r, "the post was modified concurrently, please retry")
	case errors.Is(err, postservice.ErrCategoryNotFound):
		app.failedValidationErrorResponse(w, r, map[string]string{"category_id": "does not exist"})
	case errors.Is(err, postservice.ErrTagNotFound):
		app.failedValidationErrorResponse(w, r, map[string]string{"tag_ids": "contains a tag that does not exist"})
	case errors.As(err, &common.ValidationError{}):
		validationErr := err.(common.ValidationError)
		app.failedValidationErrorResponse(w, r, validationErr.Errors)
	default:
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) createPostHandler(w http.ResponseWriter, r *http.Request) {
	var input postservice.SavePostRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	result, err := app.postService.CreatePost(r.Context(), &input)
	if err != nil {
		app.savePostErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"post": result.Post, "upload_errors": uploadErrorsPayload(result.UploadErrors)}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) updatePostHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	var input postservice.SavePostRequest

	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	result, err := app.postService.UpdatePost(r.Context(), id, &input)
	if err != nil {
		app.savePostErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"post": result.Post, "upload_errors": uploadErrorsPayload(result.UploadErrors)}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

type changeStatusRequest struct {
	Status      postservice.Status `json:"status"`
	PublishedAt *time.Time         `json:"published_at"`
}

func (app *application) changePostStatusHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	var input changeStatusRequest

	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	post, err := app.postService.ChangeStatus(r.Context(), id, input.Status, input.PublishedAt)
	if err != nil {
		app.savePostErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"post": post}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) getPostHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	post, err := app.postService.GetPostByID(r.Context(), id)
	if err != nil {
		app.savePostErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"post": post}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) getPostBySlugHandler(w http.ResponseWriter, r *http.Request) {
	slug := app.readSlugParam(r)

	post, err := app.postService.GetPostBySlug(r.Context(), slug)
	if err != nil {
		app.savePostErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"post": post}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) listPostsHandler(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := app.readLimitOffsetParams(r)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	posts, err := app.postService.ListPosts(r.Context(), limit, offset)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"posts": posts}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) deletePostHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	err = app.postService.DeletePost(r.Context(), id)
	if err != nil {
		app.savePostErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "post successfully deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) getCommentThreadHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	var ownerID int
	if raw := r.URL.Query().Get("owner_id"); raw != "" {
		ownerID, err = strconv.Atoi(raw)
		if err != nil {
			app.badRequestErrorResponse(w, r, errors.New("invalid owner_id parameter"))
			return
		}
	}

	thread, err := app.commentService.GetThread(r.Context(), id, ownerID)
	if err != nil {
		switch {
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"comments": thread}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

type addCommentRequest struct {
	ParentID   *int   `json:"parent_id"`
	AuthorID   int    `json:"author_id"`
	AuthorName string `json:"author_name"`
	Body       string `json:"body"`
}

func (app *application) addCommentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	var input addCommentRequest

	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	comment, err := app.commentService.AddComment(r.Context(), &commentservice.AddCommentRequest{
		PostID:     id,
		ParentID:   input.ParentID,
		AuthorID:   input.AuthorID,
		AuthorName: input.AuthorName,
		Body:       input.Body,
	})
	if err != nil {
		switch {
		case errors.Is(err, commentservice.ErrPostNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.Is(err, commentservice.ErrParentNotFound):
			app.failedValidationErrorResponse(w, r, map[string]string{"parent_id": "does not exist"})
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"comment": comment}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}
