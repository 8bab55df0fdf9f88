package graph

import (
	"net/http"

	"Roost/internal/core/graph"
)

// UnfollowHandler handles follow edge removal
type UnfollowHandler struct {
	service graph.Service
}

// NewUnfollowHandler creates a new unfollow handler
func NewUnfollowHandler(service graph.Service) *UnfollowHandler {
	return &UnfollowHandler{
		service: service,
	}
}

// HandleUnfollow handles DELETE /graph/follows
// Removing the edge also invalidates the follower's cached timeline so
// the removed author's posts stop appearing on the next read.
func (h *UnfollowHandler) HandleUnfollow(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	req, ok := decodeFollowRequest(w, r)
	if !ok {
		return
	}

	if err := h.service.Unfollow(r.Context(), req.FollowerID, req.FolloweeID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
