package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/angelmondragon/sellerbazaar-backend/pkg/config"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/types"
)

var corsMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodOptions,
}

// CORS lets the storefront origins call the API with bearer tokens. Cookies
// are never used for auth, so credentials stay disabled.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	opts := cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: corsMethods,
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			idempotencyHeader,
			types.RequestIDHeader,
		},
		// Browsers hide response headers unless they are listed here.
		ExposedHeaders: []string{types.RequestIDHeader, replayedHeader, "Retry-After"},
		MaxAge:         cfg.MaxAge,
	}
	return cors.Handler(opts)
}
