package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/xavierca1/lead-outreach/internal/infra/auth"
)

type contextKey string

const userIDKey contextKey = "user_id"

type TokenParser interface {
	Parse(token string) (string, error)
}

// RequireAuth rejects requests without a valid token and stores the user id
// in the request context.
func RequireAuth(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := auth.ExtractToken(r)
			if token == "" {
				writeJSONError(w, http.StatusUnauthorized, "Not authorized, no token")
				return
			}

			userID, err := tokens.Parse(token)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "Not authorized, token failed")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
