package posts

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"Roost/internal/core/posts"
)

// GetHandler handles single post retrieval
type GetHandler struct {
	service posts.Service
}

// NewGetHandler creates a new get handler
func NewGetHandler(service posts.Service) *GetHandler {
	return &GetHandler{
		service: service,
	}
}

// HandleGet handles GET /posts/{postID}
func (h *GetHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	postID := chi.URLParam(r, "postID")
	if postID == "" {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "post id is required")
		return
	}

	post, err := h.service.GetPost(r.Context(), postID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(post); err != nil {
		log.Printf("Failed to encode post response: %v", err)
	}
}
