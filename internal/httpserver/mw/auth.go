package mw

import (
	"context"
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/converso/internal/auth"
	"github.com/MrSnakeDoc/converso/internal/logger"
)

type holderKey struct{}

func withIdentityHolder(ctx context.Context, h *identityHolder) context.Context {
	return context.WithValue(ctx, holderKey{}, h)
}

// Authenticate verifies the bearer token and stores the resulting identity
// in the request context. Requests without a valid token get a 401.
func Authenticate(v *auth.Verifier, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				unauthorized(w, "missing bearer token")
				return
			}

			id, err := v.Verify(raw)
			if err != nil {
				log.Debug("bearer token rejected", logger.Error(err))
				unauthorized(w, "invalid bearer token")
				return
			}

			if h, ok := r.Context().Value(holderKey{}).(*identityHolder); ok {
				h.id = id
			}
			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="converso"`)
	writeError(w, http.StatusUnauthorized, msg)
}
