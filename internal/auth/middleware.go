package auth

import (
	"context"
	"net/http"

	resp "github.com/parleychat/parley/internal/lib/api/response"
)

const SessionCookie = "session"

type userIDKeyType struct{}

var userIDKey = userIDKeyType{}

// WithUser reads the session cookie, validates the JWT and puts the user id
// into the request context.
func WithUser(tm *TokenManager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(SessionCookie)
			if err != nil || c.Value == "" {
				resp.WriteError(w, r, http.StatusUnauthorized, "not_authenticated", "not authenticated")
				return
			}

			claims, err := tm.Validate(c.Value)
			if err != nil || claims.UserID <= 0 {
				resp.WriteError(w, r, http.StatusUnauthorized, "not_authenticated", "not authenticated")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID returns the user id stored by WithUser, 0 when absent.
func UserID(r *http.Request) int64 {
	id, _ := r.Context().Value(userIDKey).(int64)
	return id
}
