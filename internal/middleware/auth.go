package middleware

import (
	"net/http"
	"strings"
)

// TokenVerifier validates a session token and returns the authenticated
// subject. Defined here (in the consumer package) so tests can inject a stub
// without touching the auth service.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// NewAuthHandler returns a middleware that guards console endpoints: requests
// must carry a valid "Authorization: Bearer <token>" header or receive 401.
func NewAuthHandler(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				unauthorized(w)
				return
			}
			if _, err := verifier.Verify(token); err != nil {
				unauthorized(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// unauthorized writes the API's standard error envelope. The body is a fixed
// literal so the console's error handling sees the same shape here as on
// every handler-level error.
func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":{"code":"unauthorized","message":"missing or invalid bearer token"}}`))
}
