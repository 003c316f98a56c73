package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func TestHTTPMiddleware(t *testing.T) {
	tests := []struct {
		name string
		mode string
		key  string
		sent string
		want int
	}{
		{"mode none", "none", "secret", "", http.StatusNoContent},
		{"key unset", "apikey", "", "", http.StatusNoContent},
		{"correct key", "apikey", "secret", "secret", http.StatusNoContent},
		{"wrong key", "apikey", "secret", "guess", http.StatusUnauthorized},
		{"missing key", "apikey", "secret", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := HTTPMiddleware(tt.mode, "X-Api-Key", tt.key)(okHandler)
			req := httptest.NewRequest(http.MethodPatch, "/api/v1/users/u1/level", nil)
			if tt.sent != "" {
				req.Header.Set("x-api-key", tt.sent)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("status: got %d, want %d", w.Code, tt.want)
			}
			if tt.want == http.StatusUnauthorized && !strings.Contains(w.Body.String(), "invalid api key") {
				t.Errorf("body: got %q, want error message", w.Body.String())
			}
		})
	}
}
