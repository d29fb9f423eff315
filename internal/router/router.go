// Package router sets up all HTTP routes and middleware chains for the
// inkpress API. Reads are open; writes additionally pass through the
// per-client rate limiter.
package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"inkpress/internal/handlers"
	"inkpress/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. limiter may be nil to disable rate limiting.
func New(posts *handlers.Posts, categories *handlers.Categories, cacheLog *handlers.CacheLog, limiter *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecureHeaders)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", healthHandler)

	writes := func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter.Middleware)
		}
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/posts", func(r chi.Router) {
			r.Get("/", posts.List)
			r.Get("/slug/{slug}", posts.GetBySlug)

			r.Group(func(r chi.Router) {
				writes(r)
				r.Post("/", posts.Create)
				r.Put("/{id}", posts.Update)
				r.Patch("/{id}/published", posts.SetPublished)
				r.Delete("/{id}", posts.Delete)
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categories.List)
			r.Get("/{slug}", categories.GetBySlug)

			r.Group(func(r chi.Router) {
				writes(r)
				r.Post("/", categories.Create)
				r.Put("/{id}", categories.Update)
				r.Delete("/{id}", categories.Delete)
			})
		})

		// Dashboard: drafts included.
		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/posts", posts.Dashboard)
			r.Get("/posts/{id}", posts.Get)
			r.Get("/cache-log", cacheLog.Recent)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func jsonError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
