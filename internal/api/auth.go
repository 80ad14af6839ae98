package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// RequireToken guards battle control routes with a bearer token.
// An empty token leaves the routes open, for local use.
func RequireToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !validToken(r, token) {
				RecordConnectionRejected("unauthorized")
				w.Header().Set("WWW-Authenticate", `Bearer realm="battle"`)
				writeError(w, "Authentication required", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func validToken(r *http.Request, token string) bool {
	got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(strings.TrimSpace(got)), []byte(token)) == 1
}
