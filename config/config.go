package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config contains runtime configuration values.
type Config struct {
	Port                 string
	DatabasePath         string
	FrontendURL          string
	BackendURL           string
	AirtableClientID     string
	AirtableClientSecret string
	AirtableRedirectURI  string
	JWTSecret            string
	SessionTTL           time.Duration
	UseHTTPS             bool
}

// Load reads configuration from environment variables. A .env file is
// loaded first when present so local development matches production.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:                 getEnv("PORT", "8080"),
		DatabasePath:         getEnv("DATABASE_PATH", "formflow.db"),
		FrontendURL:          strings.TrimRight(os.Getenv("FRONTEND_URL"), "/"),
		BackendURL:           strings.TrimRight(os.Getenv("BACKEND_URL"), "/"),
		AirtableClientID:     os.Getenv("AIRTABLE_CLIENT_ID"),
		AirtableClientSecret: os.Getenv("AIRTABLE_CLIENT_SECRET"),
		AirtableRedirectURI:  os.Getenv("AIRTABLE_REDIRECT_URI"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		SessionTTL:           getDuration("SESSION_TTL", 5*24*time.Hour),
		UseHTTPS:             os.Getenv("USE_HTTPS") == "true",
	}

	required := []struct {
		name  string
		value string
	}{
		{"AIRTABLE_CLIENT_ID", cfg.AirtableClientID},
		{"AIRTABLE_CLIENT_SECRET", cfg.AirtableClientSecret},
		{"AIRTABLE_REDIRECT_URI", cfg.AirtableRedirectURI},
		{"FRONTEND_URL", cfg.FrontendURL},
		{"BACKEND_URL", cfg.BackendURL},
		{"JWT_SECRET", cfg.JWTSecret},
	}
	var missing []string
	for _, entry := range required {
		if entry.value == "" {
			missing = append(missing, entry.name)
		}
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
