package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/converso/internal/companion"
	"github.com/MrSnakeDoc/converso/internal/httpserver/deps"
	"github.com/MrSnakeDoc/converso/internal/httpserver/mw"
	"github.com/MrSnakeDoc/converso/internal/logger"
)

// ListCompanions serves one page of the companion library.
func ListCompanions(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		res := d.Companions.ListCompanions(r.Context(), companion.ListCompanionsParams{
			Limit:   queryInt(r, "limit"),
			Page:    queryInt(r, "page"),
			Subject: strings.TrimSpace(q.Get("subject")),
			Topic:   strings.TrimSpace(q.Get("topic")),
		})
		writeResult(w, res)
	}
}

// GetCompanion serves a single companion.
func GetCompanion(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := d.Companions.GetCompanion(r.Context(), chi.URLParam(r, "id"))
		w.Header().Set(mw.StoreStatusHeader, res.Status.String())

		switch res.Status {
		case companion.StatusOK:
			writeJSON(w, http.StatusOK, res.Value)
		case companion.StatusEmpty:
			writeError(w, http.StatusNotFound, "companion not found")
		case companion.StatusUnavailable:
			writeError(w, http.StatusServiceUnavailable, "record store unavailable")
		default:
			writeError(w, http.StatusInternalServerError, "failed to load companion")
		}
	}
}

// CreateCompanion checks the caller's quota, then creates the companion.
func CreateCompanion(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in companion.CreateCompanionInput
		if err := decodeJSON(w, r, &in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if msg := validateCreate(&in); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}

		perm := d.Companions.NewCompanionPermissions(r.Context())
		switch {
		case perm.Status == companion.StatusUnavailable:
			writeError(w, http.StatusServiceUnavailable, "record store unavailable")
			return
		case !perm.Value:
			writeError(w, http.StatusForbidden, "companion limit reached, upgrade your plan to create more")
			return
		}

		res, err := d.Companions.CreateCompanion(r.Context(), in)
		if status, ok := mutationStatus(res, err); !ok {
			writeError(w, status, "failed to create companion")
			return
		}

		refreshViews(r.Context(), d, userView(res.Value.Author, "companions"))

		d.Logger.Info("companion created",
			logger.String("id", res.Value.ID),
			logger.String("author", res.Value.Author),
			logger.String("subject", res.Value.Subject))
		writeJSON(w, http.StatusCreated, res.Value)
	}
}

func validateCreate(in *companion.CreateCompanionInput) string {
	in.Name = strings.TrimSpace(in.Name)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Topic = strings.TrimSpace(in.Topic)

	switch {
	case in.Name == "":
		return "name is required"
	case in.Subject == "":
		return "subject is required"
	case in.Topic == "":
		return "topic is required"
	case in.Duration < 0:
		return "duration must not be negative"
	}
	return ""
}

// NewCompanionPermissions reports whether the caller may create another companion.
func NewCompanionPermissions(d deps.Deps) http.HandlerFunc {
	type response struct {
		Allowed bool   `json:"allowed"`
		Status  string `json:"status"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		res := d.Companions.NewCompanionPermissions(r.Context())
		writeJSON(w, http.StatusOK, response{Allowed: res.Value, Status: res.Status.String()})
	}
}

// AddToSessionHistory records a session between the caller and the companion.
func AddToSessionHistory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := d.Companions.AddToSessionHistory(r.Context(), chi.URLParam(r, "id"))
		if status, ok := mutationStatus(res, err); !ok {
			writeError(w, status, "failed to record session")
			return
		}

		refreshViews(r.Context(), d, userView(res.Value.UserID, "sessions"), recentSessionsView)
		writeJSON(w, http.StatusCreated, res.Value)
	}
}

type bookmarkRequest struct {
	Path string `json:"path"`
}

// AddBookmark bookmarks the companion for the caller.
func AddBookmark(d deps.Deps) http.HandlerFunc {
	return bookmark(d, d.Companions.AddBookmark, http.StatusCreated)
}

// RemoveBookmark removes the caller's bookmark on the companion.
func RemoveBookmark(d deps.Deps) http.HandlerFunc {
	return bookmark(d, d.Companions.RemoveBookmark, http.StatusOK)
}

type bookmarkOp func(ctx context.Context, companionID, path string) (companion.Result[*companion.Bookmark], error)

func bookmark(d deps.Deps, op bookmarkOp, success int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bookmarkRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		// req.Path is the caller's page; the bookmarks view is refreshed regardless
		res, err := op(r.Context(), chi.URLParam(r, "id"), req.Path)
		if status, ok := mutationStatus(res, err); !ok {
			writeError(w, status, "failed to update bookmark")
			return
		}

		refreshViews(r.Context(), d, userView(res.Value.UserID, "bookmarks"))
		writeJSON(w, success, res.Value)
	}
}
