package posts

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"Roost/internal/core/posts"
)

// DeleteHandler handles post deletion requests
type DeleteHandler struct {
	service posts.Service
}

// NewDeleteHandler creates a new delete handler
func NewDeleteHandler(service posts.Service) *DeleteHandler {
	return &DeleteHandler{
		service: service,
	}
}

// HandleDelete handles DELETE /posts/{postID}?author=A
// Only the author may delete their post. Cached timeline entries
// referencing it are not purged; they age out with the cache TTL while
// the pull path stops returning the post immediately.
func (h *DeleteHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	postID := chi.URLParam(r, "postID")
	if postID == "" {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "post id is required")
		return
	}

	authorID := r.URL.Query().Get("author")
	if authorID == "" {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "author query parameter is required")
		return
	}

	if err := h.service.DeletePost(r.Context(), postID, authorID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
