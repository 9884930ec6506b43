package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/avolkovs/artefactreg/internal/logging"
	"github.com/avolkovs/artefactreg/internal/server/auth"
)

type ctxKey int

const (
	userIDKey ctxKey = iota
	usernameKey
)

// UserIDFromContext returns the authenticated user id stored by BearerAuth.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// UsernameFromContext returns the authenticated username stored by BearerAuth.
func UsernameFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(usernameKey).(string)
	return name, ok
}

// BearerAuth verifies the Authorization header on every request and stores
// the token's identity in the request context. Tokens are validated per
// request; there is no server-side session state.
func BearerAuth(secretKey []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || token == "" {
				writeJSON(w, http.StatusUnauthorized, map[string]any{
					"message": "Invalid Token",
					"isValid": false,
				})
				return
			}

			claims, err := auth.ParseToken(token, secretKey)
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, map[string]any{
					"message": "Invalid Token",
					"isValid": false,
				})
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
			ctx = context.WithValue(ctx, usernameKey, claims.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithRequestLogging logs one line per request: method, path, status code,
// response size, and duration.
func WithRequestLogging(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Info(r.Context(), "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start).String(),
			)
		})
	}
}
