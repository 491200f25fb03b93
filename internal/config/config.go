// Package config provides configuration for the application
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Database   DatabaseConfig
	Redis      RedisConfig
	Server     ServerConfig
	Logging    LoggingConfig
	CORS       CORSConfig
	Migrations MigrationsConfig
}

// DatabaseConfig holds MongoDB connection settings
type DatabaseConfig struct {
	URI  string
	Name string
	// OperationTimeout bounds every single store operation
	OperationTimeout time.Duration
}

// RedisConfig holds leaderboard cache settings.
// An empty Host disables the cache.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	TTL      time.Duration
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port               int
	MaxUploadSizeMB    int64
	RateLimitPerMinute int
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string
}

// MigrationsConfig holds the location of the index migrations
type MigrationsConfig struct {
	Path string
}

// Load reads configuration from the optional .env file and environment variables
func Load() (*Config, error) {
	// .env is optional, environment variables always win
	_ = godotenv.Load()

	cfg := &Config{}
	var err error

	// Database configuration
	cfg.Database.URI = os.Getenv("MONGO_URI")
	if cfg.Database.URI == "" {
		return nil, fmt.Errorf("MONGO_URI is required")
	}
	cfg.Database.Name = getEnv("MONGO_DATABASE", "game_assets_db")
	if cfg.Database.OperationTimeout, err = getDuration("DB_OPERATION_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}

	// Redis configuration
	cfg.Redis.Host = os.Getenv("REDIS_HOST")
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	if cfg.Redis.Port, err = getInt("REDIS_PORT", 6379); err != nil {
		return nil, err
	}
	if cfg.Redis.DB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.Redis.TTL, err = getDuration("LEADERBOARD_CACHE_TTL", 30*time.Second); err != nil {
		return nil, err
	}

	// Server configuration
	if cfg.Server.Port, err = getInt("SERVER_PORT", 8080); err != nil {
		return nil, err
	}
	maxUpload, err := getPositiveInt("MAX_UPLOAD_SIZE_MB", 50)
	if err != nil {
		return nil, err
	}
	cfg.Server.MaxUploadSizeMB = int64(maxUpload)
	if cfg.Server.RateLimitPerMinute, err = getPositiveInt("RATE_LIMIT_PER_MINUTE", 100); err != nil {
		return nil, err
	}

	// Logging configuration
	cfg.Logging.Level = getEnv("LOG_LEVEL", "info")

	// CORS configuration
	cfg.CORS.AllowedOrigins = parseOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"))

	cfg.Migrations.Path = getEnv("MIGRATIONS_PATH", "migrations")

	return cfg, nil
}

// MaxUploadBytes returns the request body limit in bytes
func (c *Config) MaxUploadBytes() int64 {
	return c.Server.MaxUploadSizeMB << 20
}

// RedisAddr returns host:port of the cache, or "" if the cache is disabled
func (c *Config) RedisAddr() string {
	if c.Redis.Host == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return n, nil
}

// getPositiveInt is getInt for settings where zero would reject every request
func getPositiveInt(key string, fallback int) (int, error) {
	n, err := getInt(key, fallback)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}

// parseOrigins splits a comma-separated origin list, defaulting to all origins
func parseOrigins(raw string) []string {
	origins := make([]string, 0)
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
