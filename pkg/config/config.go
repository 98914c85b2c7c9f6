// Package config loads application settings from environment variables
// with the BOUSSOLE_ prefix, applying sensible defaults for every option.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all settings for the boussole services.
type Config struct {
	Server   ServerConfig
	Maps     MapsConfig
	Cache    CacheConfig
	Database DatabaseConfig
	Log      LogConfig
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string        // Listen host (default: 127.0.0.1)
	Port            int           // Listen port (default: 8080)
	ReadTimeout     time.Duration // Request read timeout (default: 10s)
	WriteTimeout    time.Duration // Response write timeout (default: 30s)
	ShutdownTimeout time.Duration // Graceful shutdown grace period (default: 10s)
	RateLimitPerSec float64       // Per-client request rate (default: 5)
	RateLimitBurst  int           // Per-client burst allowance (default: 10)
}

// MapsConfig contains mapping provider settings.
type MapsConfig struct {
	APIKey string // Google Maps API key; empty disables geo intelligence
}

// CacheConfig contains in-process cache settings.
type CacheConfig struct {
	MaxEntries      int           // Cache capacity (default: 4096)
	PlacesTTL       time.Duration // Place search TTL (default: 1h)
	TrafficTTL      time.Duration // Traffic estimate TTL (default: 10m)
	ScoreTTL        time.Duration // Activity score TTL (default: 30m)
	IntelligenceTTL time.Duration // Area bundle TTL (default: 30m)
}

// DatabaseConfig contains relational storage settings. An empty DSN means
// no database; the services fall back to their built-in static data.
type DatabaseConfig struct {
	Driver string // Database driver: postgres or sqlite (default: postgres)
	DSN    string // Connection string
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string // Log level: debug, info, warn, error (default: info)
}

// Load builds a Config from environment variables with defaults. All
// variables use the BOUSSOLE_ prefix.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("BOUSSOLE_HOST", "127.0.0.1"),
			Port:            getEnvInt("BOUSSOLE_PORT", 8080),
			ReadTimeout:     getEnvDuration("BOUSSOLE_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvDuration("BOUSSOLE_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvDuration("BOUSSOLE_SHUTDOWN_TIMEOUT", 10*time.Second),
			RateLimitPerSec: getEnvFloat("BOUSSOLE_RATE_LIMIT", 5),
			RateLimitBurst:  getEnvInt("BOUSSOLE_RATE_LIMIT_BURST", 10),
		},
		Maps: MapsConfig{
			APIKey: getEnv("BOUSSOLE_MAPS_API_KEY", os.Getenv("GOOGLE_MAPS_API_KEY")),
		},
		Cache: CacheConfig{
			MaxEntries:      getEnvInt("BOUSSOLE_CACHE_MAX_ENTRIES", 4096),
			PlacesTTL:       getEnvDuration("BOUSSOLE_CACHE_PLACES_TTL", time.Hour),
			TrafficTTL:      getEnvDuration("BOUSSOLE_CACHE_TRAFFIC_TTL", 10*time.Minute),
			ScoreTTL:        getEnvDuration("BOUSSOLE_CACHE_SCORE_TTL", 30*time.Minute),
			IntelligenceTTL: getEnvDuration("BOUSSOLE_CACHE_INTELLIGENCE_TTL", 30*time.Minute),
		},
		Database: DatabaseConfig{
			Driver: getEnv("BOUSSOLE_DB_DRIVER", "postgres"),
			DSN:    getEnv("BOUSSOLE_DB_DSN", ""),
		},
		Log: LogConfig{
			Level: getEnv("BOUSSOLE_LOG_LEVEL", "info"),
		},
	}

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return nil, fmt.Errorf("config: port %d out of range", cfg.Server.Port)
	}
	switch cfg.Database.Driver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("config: unsupported database driver %q", cfg.Database.Driver)
	}
	return cfg, nil
}

// Addr returns the host:port listen address for the server.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv retrieves a string environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable. Unparseable values
// fall back to the default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat retrieves a float environment variable. Unparseable values
// fall back to the default.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable in Go duration
// syntax ("90s", "10m"). Unparseable values fall back to the default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
