// Seed tool: populates a Roost store with synthetic users, follows,
// and posts for local development. Celebrities are followed by every
// other user; run the server with a lowered TIMELINE_CELEBRITY_THRESHOLD
// to see them take the pull path.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"Roost/internal/core/graph"
	"Roost/internal/core/posts"
	postgresRepo "Roost/internal/db/postgres"
	sqliteRepo "Roost/internal/db/sqlite"
)

func main() {
	var dbURL string
	var numUsers int
	var followsPerUser int
	var postsPerUser int
	var numCelebrities int
	flag.StringVar(&dbURL, "db", "roost.db", "postgres:// DSN or SQLite file path")
	flag.IntVar(&numUsers, "users", 50, "number of users")
	flag.IntVar(&followsPerUser, "follows", 10, "followees per user (beyond celebrities)")
	flag.IntVar(&postsPerUser, "posts", 5, "posts per user")
	flag.IntVar(&numCelebrities, "celebrities", 1, "users followed by everyone")
	flag.Parse()

	if numUsers < 2 {
		log.Fatalf("need at least 2 users, got %d", numUsers)
	}
	if numCelebrities >= numUsers {
		log.Fatalf("celebrities (%d) must be fewer than users (%d)", numCelebrities, numUsers)
	}

	ctx := context.Background()
	// Local RNG instance; keeps randomness explicit
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	db, postRepo, graphRepo := openStore(dbURL)
	defer db.Close()

	// Fan-out stays disabled here: the in-process timeline cache cannot
	// outlive the tool, so the server fills timelines through the pull
	// path on first read instead
	postService := posts.NewPostService(postRepo, nil, nil)

	users := make([]string, numUsers)
	for i := range users {
		users[i] = fmt.Sprintf("user-%04d", i+1)
	}
	celebrities := users[:numCelebrities]

	start := time.Now()
	log.Printf("seeding: users=%d follows=%d posts=%d celebrities=%d",
		numUsers, followsPerUser, postsPerUser, numCelebrities)

	edges := seedFollows(ctx, r, graphRepo, users, celebrities, followsPerUser)
	log.Printf("created %d follow edges", edges)

	created := seedPosts(ctx, postService, users, postsPerUser)
	log.Printf("created %d posts", created)

	log.Printf("done in %s", time.Since(start).Truncate(time.Millisecond))
}

// seedFollows makes every user follow all celebrities plus a random
// sample of ordinary users. Returns the number of edges created.
func seedFollows(ctx context.Context, r *rand.Rand, repo graph.Repository, users, celebrities []string, followsPerUser int) int {
	edges := 0
	for _, follower := range users {
		for _, celeb := range celebrities {
			if follower == celeb {
				continue
			}
			if err := repo.Follow(ctx, follower, celeb); err != nil {
				log.Fatalf("failed to follow celebrity: %v", err)
			}
			edges++
		}

		// Random distinct followees; the permutation avoids duplicates
		picked := 0
		for _, idx := range r.Perm(len(users)) {
			if picked == followsPerUser {
				break
			}
			followee := users[idx]
			if followee == follower || contains(celebrities, followee) {
				continue
			}
			if err := repo.Follow(ctx, follower, followee); err != nil {
				log.Fatalf("failed to follow: %v", err)
			}
			picked++
			edges++
		}
	}
	return edges
}

// seedPosts writes posts through the service so ids and timestamps are
// assigned exactly as in production
func seedPosts(ctx context.Context, service posts.Service, users []string, postsPerUser int) int {
	created := 0
	for i, author := range users {
		for n := 0; n < postsPerUser; n++ {
			req := posts.CreatePostRequest{
				AuthorID:   author,
				PayloadRef: fmt.Sprintf("blob://seed/%s/%d", author, n+1),
			}
			if _, err := service.CreatePost(ctx, req); err != nil {
				log.Fatalf("failed to create post for %s: %v", author, err)
			}
			created++
		}
		if (i+1)%25 == 0 {
			log.Printf("seeded posts for %d/%d users", i+1, len(users))
		}
	}
	return created
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// openStore opens the configured database and returns repositories
// backed by it. A postgres:// DSN selects PostgreSQL with goose
// migrations; anything else is an SQLite file path.
func openStore(dbURL string) (*sql.DB, posts.Repository, graph.Repository) {
	if strings.HasPrefix(dbURL, "postgres://") || strings.HasPrefix(dbURL, "postgresql://") {
		db, err := sql.Open("postgres", dbURL)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		if err := db.Ping(); err != nil {
			log.Fatalf("failed to ping database: %v", err)
		}
		if err := goose.SetDialect("postgres"); err != nil {
			log.Fatalf("failed to set goose dialect: %v", err)
		}
		if err := goose.Up(db, "internal/db/migrations"); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
		return db, postgresRepo.NewPostRepository(db), postgresRepo.NewGraphRepository(db)
	}

	db, err := sqliteRepo.Open(dbURL)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	return db, sqliteRepo.NewPostRepository(db), sqliteRepo.NewGraphRepository(db)
}
