package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/converso/internal/httpserver/deps"
)

// RecentSessions serves the companions of the latest sessions across all users.
func RecentSessions(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeResult(w, d.Companions.RecentSessions(r.Context(), queryInt(r, "limit")))
	}
}

// UserSessions serves the companions of a user's latest sessions.
func UserSessions(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeResult(w, d.Companions.UserSessions(r.Context(), chi.URLParam(r, "userID"), queryInt(r, "limit")))
	}
}

// UserCompanions serves the companions a user authored.
func UserCompanions(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeResult(w, d.Companions.UserCompanions(r.Context(), chi.URLParam(r, "userID")))
	}
}

// UserBookmarks serves the companions a user bookmarked.
func UserBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeResult(w, d.Companions.BookmarkedCompanions(r.Context(), chi.URLParam(r, "userID")))
	}
}
