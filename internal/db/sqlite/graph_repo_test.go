package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Roost/internal/core/graph"
)

func TestGraphRepo_FollowAndQuery(t *testing.T) {
	repo := NewGraphRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Follow(ctx, "alice", "bob"))
	require.NoError(t, repo.Follow(ctx, "carol", "bob"))
	require.NoError(t, repo.Follow(ctx, "alice", "carol"))

	following, err := repo.IsFollowing(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.True(t, following)

	notFollowing, err := repo.IsFollowing(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.False(t, notFollowing)

	followers, err := repo.GetFollowers(ctx, "bob")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "carol"}, followers)

	followees, err := repo.GetFollowees(ctx, "alice")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"bob", "carol"}, followees)

	count, err := repo.CountFollowers(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestGraphRepo_FollowIdempotent(t *testing.T) {
	repo := NewGraphRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Follow(ctx, "alice", "bob"))
	require.NoError(t, repo.Follow(ctx, "alice", "bob"), "re-following should not error")

	count, err := repo.CountFollowers(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 1, count, "re-following should not duplicate the edge")
}

func TestGraphRepo_Unfollow(t *testing.T) {
	repo := NewGraphRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Follow(ctx, "alice", "bob"))
	require.NoError(t, repo.Unfollow(ctx, "alice", "bob"))

	following, err := repo.IsFollowing(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.False(t, following)

	err = repo.Unfollow(ctx, "alice", "bob")
	assert.ErrorIs(t, err, graph.ErrFollowNotFound)
}

func TestGraphRepo_CountFollowersBatch(t *testing.T) {
	repo := NewGraphRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Follow(ctx, "f1", "a"))
	require.NoError(t, repo.Follow(ctx, "f2", "a"))
	require.NoError(t, repo.Follow(ctx, "f1", "b"))

	counts, err := repo.CountFollowersBatch(ctx, []string{"a", "b", "nobody"})
	require.NoError(t, err)
	assert.Equal(t, 2, counts["a"])
	assert.Equal(t, 1, counts["b"])

	_, present := counts["nobody"]
	assert.False(t, present, "users with no followers are absent from the batch result")

	empty, err := repo.CountFollowersBatch(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGraphRepo_SelfFollowRejected(t *testing.T) {
	repo := NewGraphRepository(newTestDB(t))

	err := repo.Follow(context.Background(), "alice", "alice")
	assert.Error(t, err, "schema check constraint should reject self follows")
}
