package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sethvargo/go-retry"

	"Roost/internal/api/middleware"
	"Roost/internal/api/routes"
	"Roost/internal/core/graph"
	"Roost/internal/core/posts"
	"Roost/internal/core/timeline"
	postgresRepo "Roost/internal/db/postgres"
	sqliteRepo "Roost/internal/db/sqlite"
)

func main() {
	// Database configuration: a postgres:// DSN selects PostgreSQL,
	// anything else is treated as an SQLite file path
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		dbURL = "roost.db"
	}

	var (
		db  *sql.DB
		err error
	)
	if strings.HasPrefix(dbURL, "postgres://") || strings.HasPrefix(dbURL, "postgresql://") {
		db, err = sql.Open("postgres", dbURL)
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}

		// The database container may still be starting; retry the ping
		// with exponential backoff before giving up
		backoff := retry.WithMaxRetries(5, retry.NewExponential(500*time.Millisecond))
		err = retry.Do(context.Background(), backoff, func(ctx context.Context) error {
			if pingErr := db.PingContext(ctx); pingErr != nil {
				return retry.RetryableError(pingErr)
			}
			return nil
		})
		if err != nil {
			log.Fatal("Failed to ping database:", err)
		}

		log.Println("Connected to PostgreSQL database")

		// Run migrations
		if err := goose.SetDialect("postgres"); err != nil {
			log.Fatal("Failed to set goose dialect:", err)
		}
		if err := goose.Up(db, "internal/db/migrations"); err != nil {
			log.Fatal("Failed to run migrations:", err)
		}

		log.Println("Migrations completed successfully")
	} else {
		db, err = sqliteRepo.Open(dbURL)
		if err != nil {
			log.Fatal("Failed to open database:", err)
		}
		log.Println("Opened SQLite database at", dbURL)
	}
	defer db.Close()

	// Initialize repositories
	var (
		postRepo  posts.Repository
		graphRepo graph.Repository
	)
	if strings.HasPrefix(dbURL, "postgres") {
		postRepo = postgresRepo.NewPostRepository(db)
		graphRepo = postgresRepo.NewGraphRepository(db)
	} else {
		postRepo = sqliteRepo.NewPostRepository(db)
		graphRepo = sqliteRepo.NewGraphRepository(db)
	}

	// Timeline configuration from env, validated before anything starts
	cfg := timeline.ConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid timeline configuration:", err)
	}

	logger := slog.Default()

	cache, err := timeline.NewMemoryCache(cfg.CacheCapacity, cfg.CacheTTL, cfg.CacheMaxRecords, logger)
	if err != nil {
		log.Fatal("Failed to create timeline cache:", err)
	}

	// Wire the timeline layer: the graph repository doubles as the
	// follow graph accessor and the post repository as the post store
	classifier := timeline.NewClassifier(graphRepo, cfg.CelebrityThreshold)
	engine := timeline.NewEngine(cache, graphRepo, classifier, cfg, logger)
	assembler := timeline.NewAssembler(cache, graphRepo, postRepo, classifier, cfg, logger)

	postService := posts.NewPostService(postRepo, engine, logger)
	graphService := graph.NewGraphService(graphRepo, cache, logger)

	r := chi.NewRouter()

	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)

	// Rate limiting: 50 requests per second per IP with burst of 100
	rateLimiter := middleware.NewRateLimiter(50, 100)
	r.Use(rateLimiter.Middleware)

	routes.RegisterPostRoutes(r, postService)
	routes.RegisterTimelineRoutes(r, assembler)
	routes.RegisterGraphRoutes(r, graphService)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	port := os.Getenv("ROOST_PORT")
	if port == "" {
		port = "8080"
	}

	fmt.Printf("Roost starting on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, r))
}
