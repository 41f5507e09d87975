package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/converso/internal/httpserver/deps"
	"github.com/MrSnakeDoc/converso/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/converso/internal/httpserver/mw"
)

func init() { RegisterAPI(registerCompanions) }

func registerCompanions(r chi.Router, d deps.Deps) {
	r.Get("/companions", handlers.ListCompanions(d))
	r.Get("/companions/{id}", handlers.GetCompanion(d))
	r.Get("/permissions/companions", handlers.NewCompanionPermissions(d))

	// one limiter shared by every mutation
	mutations := r.With(mw.RateLimit(mw.RateLimitConfig{
		Burst:        d.RateLimitBurst,
		RefillPerMin: d.RateLimitPerMin,
		MaxEntries:   d.RateLimitEntries,
		TrustProxy:   d.TrustProxy,
	}))
	mutations.Post("/companions", handlers.CreateCompanion(d))
	mutations.Post("/companions/{id}/sessions", handlers.AddToSessionHistory(d))
	mutations.Post("/companions/{id}/bookmark", handlers.AddBookmark(d))
	mutations.Delete("/companions/{id}/bookmark", handlers.RemoveBookmark(d))
}
