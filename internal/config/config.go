package config

import (
	"os"
	"strconv"
)

// Config holds the core runtime configuration for the service.
// Values are primarily sourced from environment variables, with
// sensible defaults where appropriate. See .env.example.
type Config struct {
	ListenAddr string

	// DatabaseURL selects the PostgreSQL-backed log when set.
	DatabaseURL string

	// DataDir selects the local BadgerDB-backed log when set and no
	// database URL is configured. With neither, the log lives in memory
	// and is lost on restart (the mock data path).
	DataDir string

	// RetentionDays bounds how long postgres-backed interactions are
	// kept. 0 keeps them forever. Ignored by the local and in-memory
	// stores, whose logs are one deployment's worth of data anyway.
	RetentionDays int
}

// Load reads configuration from environment variables and applies defaults.
func Load() *Config {
	cfg := &Config{
		ListenAddr:    getenv("APP_LISTEN_ADDR", ":8080"),
		DatabaseURL:   os.Getenv("APP_DATABASE_URL"),
		DataDir:       os.Getenv("APP_DATA_DIR"),
		RetentionDays: 0,
	}

	if v := os.Getenv("APP_RETENTION_DAYS"); v != "" {
		if days, err := strconv.Atoi(v); err == nil && days > 0 {
			cfg.RetentionDays = days
		}
	}

	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
