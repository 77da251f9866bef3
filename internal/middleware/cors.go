// Package middleware provides reusable HTTP middleware for the route roster API.
package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// NewCORSHandler builds the CORS layer from the configured allowed origins
// (each a full scheme + host, no trailing slash). The method list matches
// what the router serves, and X-Volunteer-ID is in the header allowlist so
// browser clients can send the volunteer identity cross-origin.
func NewCORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Volunteer-ID"},
	})
	return c.Handler
}
