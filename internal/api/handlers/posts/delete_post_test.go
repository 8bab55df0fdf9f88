package posts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"Roost/internal/core/posts"
)

// withPostID attaches a chi route parameter to the request, as the
// router would when serving /posts/{postID}
func withPostID(r *http.Request, postID string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("postID", postID)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestDeleteHandler_Success(t *testing.T) {
	var gotPostID, gotAuthorID string
	service := &mockPostService{
		deleteFunc: func(ctx context.Context, postID, authorID string) error {
			gotPostID = postID
			gotAuthorID = authorID
			return nil
		},
	}
	handler := NewDeleteHandler(service)

	req := withPostID(httptest.NewRequest(http.MethodDelete, "/posts/p1?author=alice", nil), "p1")
	w := httptest.NewRecorder()
	handler.HandleDelete(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected status %d, got %d. Body: %s", http.StatusNoContent, w.Code, w.Body.String())
	}
	if gotPostID != "p1" || gotAuthorID != "alice" {
		t.Errorf("Expected delete of p1 by alice, got %s by %s", gotPostID, gotAuthorID)
	}
}

func TestDeleteHandler_MissingAuthor(t *testing.T) {
	handler := NewDeleteHandler(&mockPostService{})

	req := withPostID(httptest.NewRequest(http.MethodDelete, "/posts/p1", nil), "p1")
	w := httptest.NewRecorder()
	handler.HandleDelete(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestDeleteHandler_NotAuthor(t *testing.T) {
	service := &mockPostService{
		deleteFunc: func(ctx context.Context, postID, authorID string) error {
			return posts.ErrNotPostAuthor
		},
	}
	handler := NewDeleteHandler(service)

	req := withPostID(httptest.NewRequest(http.MethodDelete, "/posts/p1?author=mallory", nil), "p1")
	w := httptest.NewRecorder()
	handler.HandleDelete(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("Expected status %d, got %d", http.StatusForbidden, w.Code)
	}
	if resp := decodeErrorResponse(t, w.Body); resp.Error != "NotAuthorized" {
		t.Errorf("Expected NotAuthorized, got %s", resp.Error)
	}
}

func TestDeleteHandler_NotFound(t *testing.T) {
	service := &mockPostService{
		deleteFunc: func(ctx context.Context, postID, authorID string) error {
			return posts.ErrPostNotFound
		},
	}
	handler := NewDeleteHandler(service)

	req := withPostID(httptest.NewRequest(http.MethodDelete, "/posts/gone?author=alice", nil), "gone")
	w := httptest.NewRecorder()
	handler.HandleDelete(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}
