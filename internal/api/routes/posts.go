package routes

import (
	"Roost/internal/api/handlers/posts"
	postsCore "Roost/internal/core/posts"

	"github.com/go-chi/chi/v5"
)

// RegisterPostRoutes registers post store endpoints on the router
func RegisterPostRoutes(r chi.Router, service postsCore.Service) {
	createHandler := posts.NewCreateHandler(service)
	getHandler := posts.NewGetHandler(service)
	deleteHandler := posts.NewDeleteHandler(service)

	// POST /posts - store a post and fan it out to follower timelines
	r.Post("/posts", createHandler.HandleCreate)

	// GET /posts/{postID}
	r.Get("/posts/{postID}", getHandler.HandleGet)

	// DELETE /posts/{postID}?author=A - authors only
	r.Delete("/posts/{postID}", deleteHandler.HandleDelete)
}
