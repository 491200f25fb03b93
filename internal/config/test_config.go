package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

const defaultTestTimeout = 10 * time.Second

// LoadTestConfig loads the database settings for integration tests.
// An empty Database.URI means no test database is configured.
func LoadTestConfig() (*Config, error) {
	// .env is optional, try the repository root as well
	_ = godotenv.Load("./../../.env")
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.Database.URI = os.Getenv("TEST_MONGO_URI")
	cfg.Database.Name = getEnv("TEST_MONGO_DATABASE", "game_assets_test")

	timeout, err := getDuration("DB_OPERATION_TIMEOUT", defaultTestTimeout)
	if err != nil {
		return nil, err
	}
	cfg.Database.OperationTimeout = timeout
	cfg.Migrations.Path = getEnv("MIGRATIONS_PATH", "./../../migrations")

	return cfg, nil
}
