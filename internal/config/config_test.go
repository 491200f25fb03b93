package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"MONGO_URI", "MONGO_DATABASE", "DB_OPERATION_TIMEOUT",
	"REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD", "REDIS_DB", "LEADERBOARD_CACHE_TTL",
	"SERVER_PORT", "MAX_UPLOAD_SIZE_MB", "RATE_LIMIT_PER_MINUTE",
	"LOG_LEVEL", "CORS_ALLOWED_ORIGINS", "MIGRATIONS_PATH",
}

// clearEnv blanks every variable Load reads; t.Setenv restores them after the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "mongodb://localhost:27017", cfg.Database.URI)
	assert.Equal(t, "game_assets_db", cfg.Database.Name)
	assert.Equal(t, 30*time.Second, cfg.Database.OperationTimeout)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, int64(50<<20), cfg.MaxUploadBytes())
	assert.Equal(t, 100, cfg.Server.RateLimitPerMinute)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "migrations", cfg.Migrations.Path)
	assert.Empty(t, cfg.RedisAddr())
	assert.Equal(t, 30*time.Second, cfg.Redis.TTL)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("MONGO_URI", "mongodb://db:27017")
	t.Setenv("MONGO_DATABASE", "arcade")
	t.Setenv("DB_OPERATION_TIMEOUT", "5s")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("LEADERBOARD_CACHE_TTL", "1m")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("MAX_UPLOAD_SIZE_MB", "8")
	t.Setenv("CORS_ALLOWED_ORIGINS", " http://a.local , ,http://b.local")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "arcade", cfg.Database.Name)
	assert.Equal(t, 5*time.Second, cfg.Database.OperationTimeout)
	assert.Equal(t, "cache:6380", cfg.RedisAddr())
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, time.Minute, cfg.Redis.TTL)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, int64(8<<20), cfg.MaxUploadBytes())
	assert.Equal(t, []string{"http://a.local", "http://b.local"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{name: "missing uri", env: map[string]string{}, want: "MONGO_URI is required"},
		{name: "bad port", env: map[string]string{"MONGO_URI": "mongodb://x", "SERVER_PORT": "http"}, want: "invalid SERVER_PORT"},
		{name: "bad timeout", env: map[string]string{"MONGO_URI": "mongodb://x", "DB_OPERATION_TIMEOUT": "30"}, want: "invalid DB_OPERATION_TIMEOUT"},
		{name: "zero timeout", env: map[string]string{"MONGO_URI": "mongodb://x", "DB_OPERATION_TIMEOUT": "0s"}, want: "invalid DB_OPERATION_TIMEOUT"},
		{name: "zero upload size", env: map[string]string{"MONGO_URI": "mongodb://x", "MAX_UPLOAD_SIZE_MB": "0"}, want: "invalid MAX_UPLOAD_SIZE_MB: must be positive"},
		{name: "zero rate limit", env: map[string]string{"MONGO_URI": "mongodb://x", "RATE_LIMIT_PER_MINUTE": "0"}, want: "invalid RATE_LIMIT_PER_MINUTE: must be positive"},
		{name: "negative upload size", env: map[string]string{"MONGO_URI": "mongodb://x", "MAX_UPLOAD_SIZE_MB": "-1"}, want: "invalid MAX_UPLOAD_SIZE_MB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
