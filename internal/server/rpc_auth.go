package server

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
)

const bearerPrefix = "Bearer "

// unauthorizedResponse is the JSON-RPC 2.0 error body written on auth
// failure, so RPC clients get a parseable error instead of plain HTTP.
var unauthorizedResponse = map[string]any{
	"jsonrpc": "2.0",
	"error": map[string]any{
		"code":    -32600,
		"message": "Unauthorized",
	},
	"id": nil,
}

// requireToken wraps an http.Handler with Bearer secret authentication.
// An empty secret rejects every request; the bridge must be explicitly
// opted into.
func requireToken(secret string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !validToken(secret, r.Header.Get("Authorization")) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(unauthorizedResponse)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// validToken reports whether the Authorization header carries the
// configured secret. Constant-time comparison keeps the secret safe
// from timing probes.
func validToken(secret, authHeader string) bool {
	if secret == "" {
		return false
	}
	token, ok := strings.CutPrefix(authHeader, bearerPrefix)
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(secret)) == 1
}
