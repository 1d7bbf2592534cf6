package main

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// config is read from the environment (populated from .env by godotenv in main).
type config struct {
	DBURL          string
	Port           string
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	OpenAIModel    string
	AllowedOrigins []string
	// Location is the calendar used for day boundaries (local midnight).
	Location *time.Location
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// loadConfig reads settings with defaults. DB_URL is required; a missing
// OPENAI_API_KEY only disables meal analysis.
func loadConfig() (config, error) {
	cfg := config{
		DBURL:         os.Getenv("DB_URL"),
		Port:          getEnv("PORT", "3000"),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: strings.TrimRight(getEnv("OPENAI_BASE_URL", "https://api.openai.com"), "/"),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
	}
	if cfg.DBURL == "" {
		return config{}, fmt.Errorf("DB_URL not set")
	}

	for _, o := range strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	tz := getEnv("APP_TIMEZONE", "UTC")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return config{}, fmt.Errorf("load APP_TIMEZONE %q: %w", tz, err)
	}
	cfg.Location = loc
	return cfg, nil
}
