package mw

import (
	"bytes"
	"context"
	"net/http"

	"github.com/MrSnakeDoc/converso/internal/auth"
	"github.com/MrSnakeDoc/converso/internal/logger"
	redisstore "github.com/MrSnakeDoc/converso/internal/store/redis"
)

// StoreStatusHeader carries the record store outcome of a response. Only
// renders the store actually answered are cached.
const StoreStatusHeader = "X-Store-Status"

// ViewCacheHeader reports HIT or MISS on cached routes.
const ViewCacheHeader = "X-View-Cache"

// ViewStore is the cache backing ViewCache.
type ViewStore interface {
	GetCachedView(ctx context.Context, key string) ([]byte, bool, error)
	CacheView(ctx context.Context, key string, body []byte) error
}

// captureWriter tees the body so it can be cached after the handler returns.
type captureWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (w *captureWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *captureWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// ViewCache serves authenticated GET renders from store, keyed by path,
// user and raw query. Cache failures fall through to the handler.
func ViewCache(store ViewStore, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := auth.FromContext(r.Context())
			if r.Method != http.MethodGet || !ok {
				next.ServeHTTP(w, r)
				return
			}

			key := redisstore.ViewKey(r.URL.Path, id.UserID, r.URL.RawQuery)
			body, hit, err := store.GetCachedView(r.Context(), key)
			if err != nil {
				log.Warn("view cache read failed", logger.String("key", key), logger.Error(err))
			}
			if hit {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set(ViewCacheHeader, "HIT")
				_, _ = w.Write(body)
				return
			}

			w.Header().Set(ViewCacheHeader, "MISS")
			cw := &captureWriter{ResponseWriter: w}
			next.ServeHTTP(cw, r)

			if !cacheable(cw) {
				return
			}
			if err := store.CacheView(r.Context(), key, cw.body.Bytes()); err != nil {
				log.Warn("view cache write failed", logger.String("key", key), logger.Error(err))
			}
		})
	}
}

func cacheable(cw *captureWriter) bool {
	if cw.status != http.StatusOK {
		return false
	}
	switch cw.Header().Get(StoreStatusHeader) {
	case "ok", "empty":
		return true
	default:
		return false
	}
}
