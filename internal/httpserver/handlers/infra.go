package handlers

import (
	"context"
	"net/http"

	"github.com/MrSnakeDoc/converso/internal/httpserver/deps"
)

type componentStatus struct {
	OK     bool   `json:"ok"`
	Mode   string `json:"mode,omitempty"`
	Impact string `json:"impact,omitempty"`
	Error  string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports the state of each backing component and the resulting
// service mode: "optimal", "degraded" (no view cache) or "critical" (no store).
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
		defer cancel()

		components := map[string]componentStatus{
			"record_store": checkStore(ctx, d),
			"view_cache":   checkViewCache(ctx, d),
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Mode:       serviceMode(components),
			Components: components,
		})
	}
}

func serviceMode(components map[string]componentStatus) string {
	if !components["record_store"].OK {
		return "critical"
	}
	if !components["view_cache"].OK {
		return "degraded"
	}
	return "optimal"
}

func checkStore(ctx context.Context, d deps.Deps) componentStatus {
	if !d.Companions.Available() {
		return componentStatus{
			Mode:   "unconfigured",
			Impact: "reads-empty-writes-rejected",
			Error:  "record store not configured",
		}
	}
	if err := d.Companions.Ping(ctx); err != nil {
		return componentStatus{
			Mode:   "unreachable",
			Impact: "reads-empty-writes-failing",
			Error:  err.Error(),
		}
	}
	return componentStatus{OK: true, Mode: "connected"}
}

func checkViewCache(ctx context.Context, d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{
			Mode:   "disabled",
			Impact: "dashboard-views-uncached",
			Error:  "redis not configured",
		}
	}
	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{
			Mode:   "unreachable",
			Impact: "dashboard-views-uncached",
			Error:  err.Error(),
		}
	}
	return componentStatus{OK: true, Mode: "connected"}
}
