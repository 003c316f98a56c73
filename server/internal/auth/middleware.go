package auth

import (
	"encoding/json"
	"net/http"
)

// HTTPMiddleware guards HTTP handlers with the same rules as
// APIKeyInterceptor. A missing or wrong key gets 401 with a JSON error body.
func HTTPMiddleware(mode, header, key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled(mode, key) || keyMatches(r.Header.Get(header), key) {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid api key"})
		})
	}
}
