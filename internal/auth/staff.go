package auth

import (
	"net/http"
	"os"
	"strings"
)

// StaffAuthMiddleware guards the /admin routes with a shared staff token.
func StaffAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		staffToken := os.Getenv("STAFF_TOKEN")
		token := r.Header.Get("Authorization")
		if staffToken == "" || !strings.HasPrefix(token, "Bearer ") || strings.TrimPrefix(token, "Bearer ") != staffToken {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
