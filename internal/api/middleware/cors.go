package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// DefaultCORS returns a CORS middleware configured for the marketing
// site and local development origins, plus any extra origins from
// configuration
func DefaultCORS(extraOrigins []string) func(http.Handler) http.Handler {
	allowedOrigins := []string{
		"https://ezseobasics.com",
		"https://www.ezseobasics.com",
		"http://localhost:3000",
		"http://localhost:5173",
	}
	allowedOrigins = append(allowedOrigins, extraOrigins...)

	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
