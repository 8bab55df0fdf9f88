package posts

import (
	"encoding/json"
	"log"
	"net/http"

	"Roost/internal/core/posts"
)

// CreateHandler handles post creation requests
type CreateHandler struct {
	service posts.Service
}

// NewCreateHandler creates a new create handler
func NewCreateHandler(service posts.Service) *CreateHandler {
	return &CreateHandler{
		service: service,
	}
}

// HandleCreate handles POST /posts
// Stores the post and triggers fan-out to follower timelines before
// responding; a partial fan-out still answers 201 since dropped
// followers recover through the pull path.
func (h *CreateHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Limit request body size; bodies carry an author id and a payload
	// reference, so 64KB is already generous
	r.Body = http.MaxBytesReader(w, r.Body, 64*1024)

	var req posts.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}

	post, err := h.service.CreatePost(r.Context(), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(post); err != nil {
		// Log encoding errors but don't return error response (headers already sent)
		log.Printf("Failed to encode post creation response: %v", err)
	}
}
