// Package middleware provides reusable HTTP middleware for the Voyage CMS API.
package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// NewCORSHandler returns a middleware that applies CORS headers based on allowedOrigins.
// Each entry in allowedOrigins must be a full origin (scheme + host, no trailing slash).
// Authorization is allowed so the admin console can send its Bearer token
// cross-origin; preflight results are cached for an hour to keep the editor's
// chatty save traffic from doubling in OPTIONS requests.
func NewCORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         3600,
	})
	return func(next http.Handler) http.Handler {
		return c.Handler(next)
	}
}
