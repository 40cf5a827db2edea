// Package router sets up all HTTP routes and middleware chains for the
// blog API. It organizes routes into public and admin groups with
// appropriate middleware stacks.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Johnnyallen07/johnnyallen-blog-sub000/internal/handlers"
	"github.com/Johnnyallen07/johnnyallen-blog-sub000/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(authn middleware.Authenticator, limiter *middleware.RateLimiter, posts *handlers.Posts, categories *handlers.Categories, series *handlers.Series, tracks *handlers.Tracks, public *handlers.Public) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	// Health check — no auth, no rate limit.
	r.Get("/health", healthHandler)

	// Admin routes — guarded by the pluggable authenticator.
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireAuth(authn))

		// Posts
		r.Route("/posts", func(r chi.Router) {
			r.Get("/", posts.List)
			r.Post("/", posts.Create)
			r.Get("/{id}", posts.Get)
			r.Put("/{id}", posts.Update)
			r.Delete("/{id}", posts.Delete)
		})

		// Categories
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categories.List)
			r.Get("/tree", categories.Tree)
			r.Post("/", categories.Create)
			r.Patch("/reorder", categories.Reorder)
			r.Put("/{id}", categories.Update)
			r.Delete("/{id}", categories.Delete)
		})

		// Series and their content trees.
		r.Route("/series", func(r chi.Router) {
			r.Get("/", series.List)
			r.Post("/", series.Create)
			r.Get("/{id}", series.Get)
			r.Put("/{id}", series.Update)
			r.Delete("/{id}", series.Delete)

			r.Get("/{id}/tree", series.Tree)
			r.Get("/{id}/available-posts", series.AvailablePosts)
			r.Post("/{id}/nodes", series.AddNode)
			r.Patch("/{id}/nodes/reorder", series.ReorderNodes)

			r.Patch("/nodes/{id}/move", series.MoveNode)
			r.Patch("/nodes/{id}", series.UpdateNode)
			r.Delete("/nodes/{id}", series.DeleteNode)
			r.Delete("/nodes/{id}/binding", series.DetachLeaf)
		})

		// Music tracks
		r.Route("/tracks", func(r chi.Router) {
			r.Get("/", tracks.List)
			r.Post("/", tracks.Create)
			r.Get("/{id}", tracks.Get)
			r.Put("/{id}", tracks.Update)
			r.Delete("/{id}", tracks.Delete)
		})
	})

	// Public read-only API — rate limited per client IP.
	r.Route("/api", func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter.Middleware)
		}
		r.Get("/posts", public.Posts)
		r.Get("/posts/{slug}", public.Post)
		r.Get("/series", public.SeriesList)
		r.Get("/series/{slug}/tree", public.SeriesTree)
		r.Get("/tracks", public.Tracks)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
