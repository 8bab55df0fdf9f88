package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Roost/internal/core/posts"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "roost.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testPost(id, authorID string, createdAt time.Time) *posts.Post {
	return &posts.Post{
		ID:         id,
		AuthorID:   authorID,
		PayloadRef: "payload/" + id,
		CreatedAt:  createdAt,
	}
}

func TestPostRepo_CreateAndGet(t *testing.T) {
	repo := NewPostRepository(newTestDB(t))
	ctx := context.Background()

	created := testPost("p1", "alice", time.Now().UTC().Truncate(time.Microsecond))
	require.NoError(t, repo.Create(ctx, created))

	got, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.AuthorID, got.AuthorID)
	assert.Equal(t, created.PayloadRef, got.PayloadRef)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt),
		"created_at should round trip exactly: want %v, got %v", created.CreatedAt, got.CreatedAt)
}

func TestPostRepo_CreateIdempotent(t *testing.T) {
	repo := NewPostRepository(newTestDB(t))
	ctx := context.Background()

	post := testPost("p1", "alice", time.Now().UTC().Truncate(time.Microsecond))
	require.NoError(t, repo.Create(ctx, post))
	require.NoError(t, repo.Create(ctx, post), "replayed create should not error")

	listed, err := repo.ListRecentByAuthor(ctx, "alice", 10)
	require.NoError(t, err)
	assert.Len(t, listed, 1, "replayed create should not duplicate the post")
}

func TestPostRepo_GetByID_NotFound(t *testing.T) {
	repo := NewPostRepository(newTestDB(t))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, posts.ErrPostNotFound)
}

func TestPostRepo_SoftDelete(t *testing.T) {
	repo := NewPostRepository(newTestDB(t))
	ctx := context.Background()

	post := testPost("p1", "alice", time.Now().UTC().Truncate(time.Microsecond))
	require.NoError(t, repo.Create(ctx, post))
	require.NoError(t, repo.SoftDelete(ctx, "p1"))

	_, err := repo.GetByID(ctx, "p1")
	assert.ErrorIs(t, err, posts.ErrPostNotFound, "deleted post should not be readable")

	listed, err := repo.ListRecentByAuthor(ctx, "alice", 10)
	require.NoError(t, err)
	assert.Empty(t, listed, "deleted post should not appear in author listings")

	err = repo.SoftDelete(ctx, "p1")
	assert.ErrorIs(t, err, posts.ErrPostNotFound, "second delete should report not found")
}

func TestPostRepo_ListRecentByAuthor(t *testing.T) {
	repo := NewPostRepository(newTestDB(t))
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Microsecond).Add(-time.Hour)

	// Sub-second spacing plus a same-instant pair: ordering must hold at
	// microsecond resolution and break ties by id descending.
	require.NoError(t, repo.Create(ctx, testPost("p1", "alice", base.Add(500*time.Microsecond))))
	require.NoError(t, repo.Create(ctx, testPost("p2", "alice", base.Add(1500*time.Microsecond))))
	require.NoError(t, repo.Create(ctx, testPost("p3", "alice", base.Add(2*time.Second))))
	require.NoError(t, repo.Create(ctx, testPost("tie-a", "alice", base.Add(3*time.Second))))
	require.NoError(t, repo.Create(ctx, testPost("tie-z", "alice", base.Add(3*time.Second))))
	require.NoError(t, repo.Create(ctx, testPost("other", "bob", base.Add(4*time.Second))))

	listed, err := repo.ListRecentByAuthor(ctx, "alice", 10)
	require.NoError(t, err)

	ids := make([]string, len(listed))
	for i, p := range listed {
		ids[i] = p.ID
	}
	assert.Equal(t, []string{"tie-z", "tie-a", "p3", "p2", "p1"}, ids)

	limited, err := repo.ListRecentByAuthor(ctx, "alice", 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "tie-z", limited[0].ID)
	assert.Equal(t, "tie-a", limited[1].ID)
}
