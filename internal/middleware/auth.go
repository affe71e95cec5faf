package middleware

import (
	"context"
	"net/http"

	"github.com/Saketh0903/Chat-Application-groups-full/internal/auth"
)

type contextKey string

const UserIDKey contextKey = "user_id"

// AuthMiddleware resolves the authenticated user id from the signed session
// cookie and puts it on the request context. Everything downstream consumes
// the id and never authenticates directly.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := UserIDFromRequest(r)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserIDFromRequest verifies the session cookie and returns the user id.
func UserIDFromRequest(r *http.Request) (string, error) {
	cookie, err := r.Cookie("user_id")
	if err != nil {
		return "", err
	}
	return auth.VerifyCookie(cookie.Value)
}

// UserID reads the resolved user id from the request context.
func UserID(r *http.Request) string {
	userID, _ := r.Context().Value(UserIDKey).(string)
	return userID
}
