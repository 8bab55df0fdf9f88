package routes

import (
	"Roost/internal/api/handlers/timeline"

	"github.com/go-chi/chi/v5"
)

// RegisterTimelineRoutes registers timeline read endpoints
func RegisterTimelineRoutes(r chi.Router, service timeline.Service) {
	getHomeHandler := timeline.NewGetHomeHandler(service)

	// GET /timeline/home?user=U&limit=N
	r.Get("/timeline/home", getHomeHandler.HandleGetHome)
}
