package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORSConfig holds cross-origin settings for the dashboard front end.
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int // seconds
}

// DefaultCORSConfig allows any origin to call the API.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		// the export and reminder download names travel in Content-Disposition
		ExposedHeaders: []string{"Content-Disposition", "X-Request-ID", "Retry-After"},
		MaxAge:         300,
	}
}

// CORS returns the go-chi/cors handler for config. Empty fields fall back
// to DefaultCORSConfig.
func CORS(config CORSConfig) func(http.Handler) http.Handler {
	def := DefaultCORSConfig()
	if len(config.AllowedOrigins) == 0 {
		config.AllowedOrigins = def.AllowedOrigins
	}
	if len(config.AllowedMethods) == 0 {
		config.AllowedMethods = def.AllowedMethods
	}
	if len(config.AllowedHeaders) == 0 {
		config.AllowedHeaders = def.AllowedHeaders
	}
	if len(config.ExposedHeaders) == 0 {
		config.ExposedHeaders = def.ExposedHeaders
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   config.AllowedOrigins,
		AllowedMethods:   config.AllowedMethods,
		AllowedHeaders:   config.AllowedHeaders,
		ExposedHeaders:   config.ExposedHeaders,
		AllowCredentials: config.AllowCredentials,
		MaxAge:           config.MaxAge,
	})
}

//Personal.AI order the ending
