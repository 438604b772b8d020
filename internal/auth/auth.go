// Package auth guards the admin API with a shared bearer token.
package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// RequireToken returns middleware that rejects requests whose
// Authorization header does not carry the admin token. With no token
// configured, admin routes are disabled entirely rather than left
// open.
func RequireToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				http.Error(w, `{"error":"admin access disabled: no admin token configured"}`, http.StatusServiceUnavailable)
				return
			}
			got := bearerToken(r)
			if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}
