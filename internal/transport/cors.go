package transport

import (
	"net/http"

	"github.com/rs/cors"
)

// WithCORS allows any origin to issue GET and POST requests with a Content-Type header.
func WithCORS(next http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(next)
}
