package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Roost/internal/api/routes"
	"Roost/internal/core/graph"
	"Roost/internal/core/posts"
	"Roost/internal/core/timeline"
	sqliteRepo "Roost/internal/db/sqlite"
)

// newTestServer wires the full stack over a real SQLite store: repos,
// cache, fan-out engine, assembler, services, and the chi router.
func newTestServer(t *testing.T, cfg timeline.Config) *httptest.Server {
	t.Helper()

	db, err := sqliteRepo.Open(filepath.Join(t.TempDir(), "roost.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	postRepo := sqliteRepo.NewPostRepository(db)
	graphRepo := sqliteRepo.NewGraphRepository(db)

	cache, err := timeline.NewMemoryCache(cfg.CacheCapacity, cfg.CacheTTL, cfg.CacheMaxRecords, nil)
	require.NoError(t, err)

	classifier := timeline.NewClassifier(graphRepo, cfg.CelebrityThreshold)
	engine := timeline.NewEngine(cache, graphRepo, classifier, cfg, nil)
	assembler := timeline.NewAssembler(cache, graphRepo, postRepo, classifier, cfg, nil)

	postService := posts.NewPostService(postRepo, engine, nil)
	graphService := graph.NewGraphService(graphRepo, cache, nil)

	r := chi.NewRouter()
	routes.RegisterPostRoutes(r, postService)
	routes.RegisterTimelineRoutes(r, assembler)
	routes.RegisterGraphRoutes(r, graphService)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig() timeline.Config {
	return timeline.Config{
		CelebrityThreshold: 3,
		CacheCapacity:      10,
		CacheTTL:           time.Minute,
		CacheMaxRecords:    100,
		FanoutConcurrency:  4,
		FanoutTimeout:      time.Second,
		PullConcurrency:    4,
		PullTimeout:        time.Second,
	}
}

func follow(t *testing.T, srv *httptest.Server, followerID, followeeID string) {
	t.Helper()
	body, err := json.Marshal(map[string]string{
		"followerId": followerID,
		"followeeId": followeeID,
	})
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/graph/follows", bytes.NewBuffer(body))
	require.NoError(t, err)

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func unfollow(t *testing.T, srv *httptest.Server, followerID, followeeID string) {
	t.Helper()
	body, err := json.Marshal(map[string]string{
		"followerId": followerID,
		"followeeId": followeeID,
	})
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/graph/follows", bytes.NewBuffer(body))
	require.NoError(t, err)

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func createPost(t *testing.T, srv *httptest.Server, authorID, payloadRef string) posts.Post {
	t.Helper()
	body, err := json.Marshal(map[string]string{
		"authorId":   authorID,
		"payloadRef": payloadRef,
	})
	require.NoError(t, err)

	resp, err := srv.Client().Post(srv.URL+"/posts", "application/json", bytes.NewBuffer(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created posts.Post
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	return created
}

func getTimeline(t *testing.T, srv *httptest.Server, userID string, limit int) timeline.HomeTimeline {
	t.Helper()
	url := fmt.Sprintf("%s/timeline/home?user=%s&limit=%d", srv.URL, userID, limit)
	resp, err := srv.Client().Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var feed timeline.HomeTimeline
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&feed))
	return feed
}

func timelinePostIDs(feed timeline.HomeTimeline) []string {
	ids := make([]string, len(feed.Entries))
	for i, e := range feed.Entries {
		ids[i] = e.PostID
	}
	return ids
}

func TestTimeline_PushedPostsAppearForFollowers(t *testing.T) {
	srv := newTestServer(t, testConfig())

	follow(t, srv, "bob", "alice")
	follow(t, srv, "carol", "alice")

	p1 := createPost(t, srv, "alice", "blob://alice/1")
	p2 := createPost(t, srv, "alice", "blob://alice/2")

	for _, reader := range []string{"bob", "carol"} {
		feed := getTimeline(t, srv, reader, 20)
		assert.Equal(t, []string{p2.ID, p1.ID}, timelinePostIDs(feed),
			"%s should see alice's posts newest first", reader)
		assert.False(t, feed.Degraded)
	}

	// A second read is served from the primed cache and must not change
	again := getTimeline(t, srv, "bob", 20)
	assert.Equal(t, []string{p2.ID, p1.ID}, timelinePostIDs(again))
}

func TestTimeline_CelebrityPostsArrivePulled(t *testing.T) {
	srv := newTestServer(t, testConfig())

	// Three followers meet the celebrity threshold
	for _, fan := range []string{"bob", "carol", "dave"} {
		follow(t, srv, fan, "celeb")
	}
	follow(t, srv, "bob", "alice")

	ordinary := createPost(t, srv, "alice", "blob://alice/1")
	famous := createPost(t, srv, "celeb", "blob://celeb/1")

	feed := getTimeline(t, srv, "bob", 20)
	assert.Equal(t, []string{famous.ID, ordinary.ID}, timelinePostIDs(feed),
		"celebrity posts merge in at read time")
	assert.False(t, feed.Degraded)
}

func TestTimeline_DeletedPostAbsentFromRegeneratedFeed(t *testing.T) {
	srv := newTestServer(t, testConfig())

	follow(t, srv, "dave", "alice")
	p1 := createPost(t, srv, "alice", "blob://alice/1")
	p2 := createPost(t, srv, "alice", "blob://alice/2")

	req, err := http.NewRequest(http.MethodDelete,
		fmt.Sprintf("%s/posts/%s?author=alice", srv.URL, p2.ID), nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// dave has never read, so this read regenerates from the store and
	// the deleted post is filtered by the pull path
	feed := getTimeline(t, srv, "dave", 20)
	assert.Equal(t, []string{p1.ID}, timelinePostIDs(feed))
}

func TestTimeline_UnfollowRemovesAuthorOnNextRead(t *testing.T) {
	srv := newTestServer(t, testConfig())

	follow(t, srv, "eve", "alice")
	follow(t, srv, "eve", "bob")

	alicePost := createPost(t, srv, "alice", "blob://alice/1")
	bobPost := createPost(t, srv, "bob", "blob://bob/1")

	first := getTimeline(t, srv, "eve", 20)
	require.Equal(t, []string{bobPost.ID, alicePost.ID}, timelinePostIDs(first))

	unfollow(t, srv, "eve", "alice")

	second := getTimeline(t, srv, "eve", 20)
	assert.Equal(t, []string{bobPost.ID}, timelinePostIDs(second),
		"unfollow invalidates the cached timeline")
}

func TestTimeline_FollowListingsReflectEdges(t *testing.T) {
	srv := newTestServer(t, testConfig())

	follow(t, srv, "bob", "alice")
	follow(t, srv, "carol", "alice")

	resp, err := srv.Client().Get(srv.URL + "/graph/followers?user=alice")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var followers struct {
		Users []string `json:"users"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&followers))
	assert.ElementsMatch(t, []string{"bob", "carol"}, followers.Users)
}

func TestTimeline_InvalidRequestsAreRejected(t *testing.T) {
	srv := newTestServer(t, testConfig())

	// Missing user parameter
	resp, err := srv.Client().Get(srv.URL + "/timeline/home")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Unknown post
	resp, err = srv.Client().Get(srv.URL + "/posts/no-such-post")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Self follow
	body, err := json.Marshal(map[string]string{
		"followerId": "alice",
		"followeeId": "alice",
	})
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPut, srv.URL+"/graph/follows", bytes.NewBuffer(body))
	require.NoError(t, err)
	resp, err = srv.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTimeline_EmptyFeedForUserWithNoFollows(t *testing.T) {
	srv := newTestServer(t, testConfig())

	feed := getTimeline(t, srv, "loner", 20)
	assert.NotNil(t, feed.Entries)
	assert.Empty(t, feed.Entries)
	assert.False(t, feed.Degraded)
}
