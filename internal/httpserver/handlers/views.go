package handlers

import (
	"context"

	"github.com/MrSnakeDoc/converso/internal/httpserver/deps"
	"github.com/MrSnakeDoc/converso/internal/logger"
)

// recentSessionsView is the cached render of the global session feed.
const recentSessionsView = "/api/sessions/recent"

// userView returns the path of one of userID's cached dashboard views.
func userView(userID, view string) string {
	return "/api/users/" + userID + "/" + view
}

// refreshViews drops the cached renders of paths. Failures only leave a view
// stale until its TTL, so they are logged.
func refreshViews(ctx context.Context, d deps.Deps, paths ...string) {
	if d.Views == nil {
		return
	}
	for _, path := range paths {
		if err := d.Views.Invalidate(ctx, path); err != nil {
			d.Logger.Warn("view invalidation failed",
				logger.String("path", path),
				logger.Error(err))
		}
	}
}
