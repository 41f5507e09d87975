package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/converso/internal/httpserver/deps"
	"github.com/MrSnakeDoc/converso/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/converso/internal/httpserver/mw"
)

func init() { RegisterAPI(registerDashboard) }

func registerDashboard(r chi.Router, d deps.Deps) {
	if d.Views != nil {
		r = r.With(mw.ViewCache(d.Views, d.Logger))
	}

	r.Get("/sessions/recent", handlers.RecentSessions(d))
	r.Get("/users/{userID}/sessions", handlers.UserSessions(d))
	r.Get("/users/{userID}/companions", handlers.UserCompanions(d))
	r.Get("/users/{userID}/bookmarks", handlers.UserBookmarks(d))
}
