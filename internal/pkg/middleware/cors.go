package middleware

import (
	"net/http"

	"github.com/gamma-omg/lexi-annotate/internal/pkg/router"
	"github.com/rs/cors"
)

// CORS allows browser clients served from origins to call the API. An empty
// list disables cross origin requests.
func CORS(origins []string) router.Middleware {
	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           600,
	})

	return c.Handler
}
