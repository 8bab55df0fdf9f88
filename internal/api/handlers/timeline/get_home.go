package timeline

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"Roost/internal/core/timeline"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Service is the slice of the timeline assembler this handler consumes
type Service interface {
	GetHomeTimeline(ctx context.Context, userID string, limit int) (*timeline.HomeTimeline, error)
}

// GetHomeHandler handles home timeline retrieval
type GetHomeHandler struct {
	service Service
}

// NewGetHomeHandler creates a new home timeline handler
func NewGetHomeHandler(service Service) *GetHomeHandler {
	return &GetHomeHandler{
		service: service,
	}
}

// HandleGetHome handles GET /timeline/home?user=U&limit=N
// Returns the newest posts from the users U follows. A degraded feed
// (unreachable followee, cold cache under graph failure) still answers
// 200 with degraded set; only invalid input is a client error.
func (h *GetHomeHandler) HandleGetHome(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := r.URL.Query().Get("user")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "user query parameter is required")
		return
	}

	limit := defaultLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "InvalidRequest", "limit must be an integer")
			return
		}
		limit = parsed
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	feed, err := h.service.GetHomeTimeline(r.Context(), userID, limit)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(feed); err != nil {
		// Log encoding errors but don't return error response (headers already sent)
		log.Printf("Failed to encode timeline response: %v", err)
	}
}
