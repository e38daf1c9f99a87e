// Package config loads the service configuration from the environment.
//
// All external collaborators — the identity provider's signing secret, the
// store location, the frontend origins — are configuration inputs, not
// logic. A .env file is loaded if present (local development); real
// deployments set the variables directly.
package config

import (
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

type Config struct {
	Port           string
	JWTSecret      string // shared signing secret of the identity provider
	DBPath         string
	AllowedOrigins []string
}

// Load reads configuration from the environment, preferring an ENV_FILE
// (default .env) when one exists.
func Load(logger *slog.Logger) Config {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		logger.Info("no env file found, using process environment", slog.String("file", envFile))
	}

	return Config{
		Port:           getEnv("PORT", "8080"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		DBPath:         getEnv("DB_PATH", "data/devconnect.db"),
		AllowedOrigins: splitOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")),
	}
}

// CorsOptions builds the CORS policy for the configured frontend origins.
// Credentials are allowed because the frontend sends the bearer token.
func (c Config) CorsOptions() cors.Options {
	return cors.Options{
		AllowedOrigins:   c.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}
}

// getEnv returns the env value by key or the fallback.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
