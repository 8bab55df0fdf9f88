package graph

import (
	"encoding/json"
	"net/http"

	"Roost/internal/core/graph"
)

type followRequest struct {
	FollowerID string `json:"followerId"`
	FolloweeID string `json:"followeeId"`
}

// FollowHandler handles follow edge creation
type FollowHandler struct {
	service graph.Service
}

// NewFollowHandler creates a new follow handler
func NewFollowHandler(service graph.Service) *FollowHandler {
	return &FollowHandler{
		service: service,
	}
}

// HandleFollow handles PUT /graph/follows
// Idempotent: re-following an already followed user also answers 204
func (h *FollowHandler) HandleFollow(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	req, ok := decodeFollowRequest(w, r)
	if !ok {
		return
	}

	if err := h.service.Follow(r.Context(), req.FollowerID, req.FolloweeID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// decodeFollowRequest parses the shared follow/unfollow body, writing
// the error response itself when the body is malformed
func decodeFollowRequest(w http.ResponseWriter, r *http.Request) (followRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, 64*1024)

	var req followRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return followRequest{}, false
	}
	return req, true
}
