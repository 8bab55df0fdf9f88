package posts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"Roost/internal/core/posts"
)

func TestGetHandler_Success(t *testing.T) {
	want := &posts.Post{
		ID:         "p1",
		AuthorID:   "alice",
		PayloadRef: "blob://posts/abc",
		CreatedAt:  time.Now().UTC(),
	}
	service := &mockPostService{
		getFunc: func(ctx context.Context, postID string) (*posts.Post, error) {
			if postID != "p1" {
				t.Errorf("Expected lookup of p1, got %s", postID)
			}
			return want, nil
		},
	}
	handler := NewGetHandler(service)

	req := withPostID(httptest.NewRequest(http.MethodGet, "/posts/p1", nil), "p1")
	w := httptest.NewRecorder()
	handler.HandleGet(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d. Body: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var got posts.Post
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if got.ID != want.ID || got.AuthorID != want.AuthorID {
		t.Errorf("Expected %s by %s, got %s by %s", want.ID, want.AuthorID, got.ID, got.AuthorID)
	}
}

func TestGetHandler_NotFound(t *testing.T) {
	handler := NewGetHandler(&mockPostService{})

	req := withPostID(httptest.NewRequest(http.MethodGet, "/posts/missing", nil), "missing")
	w := httptest.NewRecorder()
	handler.HandleGet(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected status %d, got %d", http.StatusNotFound, w.Code)
	}
	if resp := decodeErrorResponse(t, w.Body); resp.Error != "PostNotFound" {
		t.Errorf("Expected PostNotFound, got %s", resp.Error)
	}
}
