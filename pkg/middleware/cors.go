package middleware

import (
	"github.com/rs/cors"

	"github.com/propmanagement/backend/pkg/config"
)

// NewCORS builds the CORS handler for the browser frontend
func NewCORS(cfg config.CORSConfig) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{RequestIDHeader},
		AllowCredentials: cfg.AllowCredentials,
	})
}
