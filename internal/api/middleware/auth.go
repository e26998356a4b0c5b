package middleware

import (
	"encoding/json"
	"net/http"
)

// APIKeyHeader carries the shared secret on every analytics request.
const APIKeyHeader = "X-API-KEY"

// KeyVerifier decides whether a presented API key is valid.
type KeyVerifier interface {
	Verify(key string) bool
}

// respondError writes a JSON error response
func respondError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// APIKeyMiddleware rejects requests whose X-API-KEY header is missing or wrong.
// Rejected requests never reach the wrapped handler.
func APIKeyMiddleware(verifier KeyVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(APIKeyHeader)
			if key == "" || !verifier.Verify(key) {
				respondError(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
