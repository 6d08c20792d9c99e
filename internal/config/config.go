package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server  ServerConfig
	Catalog CatalogConfig
	Session SessionConfig
	Lookup  LookupConfig
	Ingest  IngestConfig
	DB      DatabaseConfig
	Logging LoggingConfig
	API     APIConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type CatalogConfig struct {
	CSVPath           string
	MaxRejectFraction float64
}

type SessionConfig struct {
	TTL           time.Duration
	PruneInterval time.Duration
}

type LookupConfig struct {
	Enabled   bool
	BaseURL   string
	Timeout   time.Duration
	CacheSize int
}

type IngestConfig struct {
	Workers    int
	BufferSize int
}

type DatabaseConfig struct {
	Path string
}

type LoggingConfig struct {
	Level string
}

type APIConfig struct {
	RateLimitRPS int
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "localhost"),
			Port: getEnvInt("SERVER_PORT", 8080),
		},
		Catalog: CatalogConfig{
			CSVPath:           getEnv("CATALOG_CSV_PATH", "./data/Global_Landslide_Catalog_Export.csv"),
			MaxRejectFraction: getEnvFloat("LOAD_MAX_REJECT_FRACTION", 0.5),
		},
		Session: SessionConfig{
			TTL:           getEnvDuration("SESSION_TTL", 30*time.Minute),
			PruneInterval: getEnvDuration("SESSION_PRUNE_INTERVAL", 5*time.Minute),
		},
		Lookup: LookupConfig{
			Enabled:   getEnvBool("LOOKUP_ENABLED", true),
			BaseURL:   getEnv("LOOKUP_BASE_URL", "https://en.wikipedia.org/api/rest_v1/page/summary"),
			Timeout:   getEnvDuration("LOOKUP_TIMEOUT", 5*time.Second),
			CacheSize: getEnvInt("LOOKUP_CACHE_SIZE", 200),
		},
		Ingest: IngestConfig{
			Workers:    getEnvInt("INGEST_WORKERS", 2),
			BufferSize: getEnvInt("INGEST_BUFFER_SIZE", 100),
		},
		DB: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/landslides.db"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		API: APIConfig{
			RateLimitRPS: getEnvInt("RATE_LIMIT_RPS", 20),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.Catalog.MaxRejectFraction <= 0 || c.Catalog.MaxRejectFraction > 1 {
		return fmt.Errorf("LOAD_MAX_REJECT_FRACTION must be in (0, 1], got %v", c.Catalog.MaxRejectFraction)
	}
	if c.Session.TTL < time.Minute {
		return fmt.Errorf("session TTL must be at least 1 minute")
	}
	if c.Session.PruneInterval < time.Second {
		return fmt.Errorf("session prune interval must be at least 1 second")
	}
	if c.API.RateLimitRPS < 1 {
		return fmt.Errorf("rate limit must be at least 1 req/s")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
