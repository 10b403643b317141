package http

import (
	"context"
	"net/http"
	"strings"

	"rentonomic-backend/internal/domain"
	"rentonomic-backend/internal/security"
)

type contextKey string

const actorContextKey contextKey = "actor"

// AuthMiddleware validates the bearer token and stores the caller identity in
// the request context. Token issuance lives elsewhere; here we only read.
func AuthMiddleware(tokens security.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
				return
			}
			claims, err := tokens.ValidateToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
				return
			}
			actor := domain.Actor{Email: claims.Email, Admin: claims.Admin}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorContextKey, actor)))
		})
	}
}

func actorFrom(r *http.Request) domain.Actor {
	actor, _ := r.Context().Value(actorContextKey).(domain.Actor)
	return actor
}
