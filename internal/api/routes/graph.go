package routes

import (
	"Roost/internal/api/handlers/graph"
	graphCore "Roost/internal/core/graph"

	"github.com/go-chi/chi/v5"
)

// RegisterGraphRoutes registers follow graph endpoints on the router
func RegisterGraphRoutes(r chi.Router, service graphCore.Service) {
	followHandler := graph.NewFollowHandler(service)
	unfollowHandler := graph.NewUnfollowHandler(service)
	listHandler := graph.NewListFollowsHandler(service)

	// PUT /graph/follows - create a follow edge (idempotent)
	r.Put("/graph/follows", followHandler.HandleFollow)

	// DELETE /graph/follows - remove an edge and invalidate the
	// follower's cached timeline
	r.Delete("/graph/follows", unfollowHandler.HandleUnfollow)

	// GET /graph/following?user=U and /graph/followers?user=U
	r.Get("/graph/following", listHandler.HandleFollowing)
	r.Get("/graph/followers", listHandler.HandleFollowers)
}
