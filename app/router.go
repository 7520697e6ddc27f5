package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundErrorResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedErrorResponse)

	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", app.healthCheckHandler)

	// post service
	router.HandlerFunc(http.MethodGet, "/v1/posts", app.listPostsHandler)
	router.HandlerFunc(http.MethodPost, "/v1/posts", app.createPostHandler)
	router.HandlerFunc(http.MethodGet, "/v1/slugs/:slug", app.getPostBySlugHandler)
	router.HandlerFunc(http.MethodGet, "/v1/posts/:id", app.getPostHandler)
	router.HandlerFunc(http.MethodPut, "/v1/posts/:id", app.updatePostHandler)
	router.HandlerFunc(http.MethodPatch, "/v1/posts/:id/status", app.changePostStatusHandler)
	router.HandlerFunc(http.MethodDelete, "/v1/posts/:id", app.deletePostHandler)

	// comment service
	router.HandlerFunc(http.MethodGet, "/v1/posts/:id/comments", app.getCommentThreadHandler)
	router.HandlerFunc(http.MethodPost, "/v1/posts/:id/comments", app.addCommentHandler)

	return app.recoverPanic(app.rateLimit(app.logRequest(router)))
}
