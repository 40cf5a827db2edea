// Package main is the entry point for the blog server. It loads
// configuration, connects to services, sets up routing, and starts the
// HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Johnnyallen07/johnnyallen-blog-sub000/internal/cache"
	"github.com/Johnnyallen07/johnnyallen-blog-sub000/internal/config"
	"github.com/Johnnyallen07/johnnyallen-blog-sub000/internal/database"
	"github.com/Johnnyallen07/johnnyallen-blog-sub000/internal/handlers"
	"github.com/Johnnyallen07/johnnyallen-blog-sub000/internal/middleware"
	"github.com/Johnnyallen07/johnnyallen-blog-sub000/internal/router"
	"github.com/Johnnyallen07/johnnyallen-blog-sub000/internal/store"
)

func main() {
	// Structured logger for the whole process.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey for the series tree cache.
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	treeCache := cache.NewTreeCache(valkeyClient, cache.DefaultTreeTTL)

	// Initialize data stores.
	postStore := store.NewPostStore(db)
	categoryStore := store.NewCategoryStore(db)
	seriesStore := store.NewSeriesStore(db)
	nodeStore := store.NewNodeStore(db)
	trackStore := store.NewTrackStore(db)

	// Create handler groups with their dependencies.
	postHandlers := handlers.NewPosts(postStore)
	categoryHandlers := handlers.NewCategories(categoryStore)
	seriesHandlers := handlers.NewSeries(seriesStore, nodeStore, postStore, treeCache)
	trackHandlers := handlers.NewTracks(trackStore)
	publicHandlers := handlers.NewPublic(postStore, seriesStore, nodeStore, trackStore)

	// Admin boundary: a static bearer token the fronting proxy injects.
	// Empty token means open, which Load rejects outside development.
	authn := middleware.StaticToken{Token: cfg.AdminToken}
	if cfg.AdminToken == "" {
		slog.Warn("ADMIN_TOKEN not set — admin API is open (development only)")
	}

	// Rate limit the public API per client IP.
	limiter := middleware.NewRateLimiter(120, time.Minute)
	defer limiter.Stop()

	// Set up the Chi router with all middleware and routes.
	r := router.New(authn, limiter, postHandlers, categoryHandlers, seriesHandlers, trackHandlers, publicHandlers)

	// Create the HTTP server with sensible timeouts.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
