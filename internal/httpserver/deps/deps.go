package deps

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/converso/internal/auth"
	"github.com/MrSnakeDoc/converso/internal/companion"
	"github.com/MrSnakeDoc/converso/internal/logger"
)

// ViewCache stores rendered dashboard views and drops them by path.
type ViewCache interface {
	GetCachedView(ctx context.Context, key string) ([]byte, bool, error)
	CacheView(ctx context.Context, key string, body []byte) error
	Invalidate(ctx context.Context, path string) error
}

type Deps struct {
	Logger           logger.Logger
	StartTime        time.Time
	Version          string
	Commit           string
	BuildDate        string
	GoVersion        string
	AllowedHosts     []string           // Host headers allowed to reach /api, empty => any
	AllowedCIDRS     []string           // IPs allowed to access readyz/infra endpoints
	TrustProxy       bool               // true if running behind a trusted reverse proxy
	Companions       *companion.Service // companion, session history, bookmark and quota operations
	Verifier         *auth.Verifier     // bearer token verification
	Views            ViewCache          // dashboard view cache, nil when Redis is disabled
	RedisClient      *redis.Client      // nil when Redis is disabled
	RateLimitBurst   int                // mutations allowed in a burst per client IP
	RateLimitPerMin  int                // mutation tokens refilled per minute per client IP
	RateLimitEntries int                // max tracked client IPs before sweeping
}
