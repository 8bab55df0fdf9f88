package graph

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"Roost/internal/core/graph"
)

type listResponse struct {
	Users []string `json:"users"`
}

// ListFollowsHandler handles follow graph listing requests
type ListFollowsHandler struct {
	service graph.Service
}

// NewListFollowsHandler creates a new follow listing handler
func NewListFollowsHandler(service graph.Service) *ListFollowsHandler {
	return &ListFollowsHandler{
		service: service,
	}
}

// HandleFollowing handles GET /graph/following?user=U
func (h *ListFollowsHandler) HandleFollowing(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.service.Following)
}

// HandleFollowers handles GET /graph/followers?user=U
func (h *ListFollowsHandler) HandleFollowers(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.service.Followers)
}

func (h *ListFollowsHandler) list(w http.ResponseWriter, r *http.Request, fetch func(ctx context.Context, userID string) ([]string, error)) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := r.URL.Query().Get("user")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "user query parameter is required")
		return
	}

	users, err := fetch(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	// Encode an empty list, never null, for users with no edges
	if users == nil {
		users = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(listResponse{Users: users}); err != nil {
		log.Printf("Failed to encode follow list response: %v", err)
	}
}
