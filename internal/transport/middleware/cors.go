package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS allows the browser client from the configured origins. Content-Disposition
// is exposed so the CSV download keeps its file name.
func CORS(origins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", TraceHeader},
		ExposedHeaders:   []string{"Content-Disposition", TraceHeader},
		AllowCredentials: false,
		MaxAge:           300,
	})
}
