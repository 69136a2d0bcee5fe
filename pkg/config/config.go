// Package config loads application configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv   string
	LogLevel string

	// Local SQLite database (session slot, outbox, standalone history)
	DBPath string

	// Clinic-side stores. All optional: with none configured the CLI runs
	// fully standalone on SQLite.
	DatabaseURL    string
	RemoteStoreURL string
	RedisURL       string
	RabbitMQURL    string

	// History cache
	HistoryCacheTTL time.Duration

	// Outbox
	OutboxPollInterval    time.Duration
	OutboxBatchSize       int
	OutboxMaxRetries      int
	OutboxRetention       time.Duration
	OutboxCleanupInterval time.Duration

	// Worker
	WorkerHealthAddr string
}

// Load loads configuration from environment variables. A .env file in the
// working directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:   getEnv("CMAS_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DBPath: getEnv("CMAS_DB_PATH", ""),

		DatabaseURL:    getEnv("DATABASE_URL", ""),
		RemoteStoreURL: getEnv("REMOTE_STORE_URL", ""),
		RedisURL:       getEnv("REDIS_URL", ""),
		RabbitMQURL:    getEnv("RABBITMQ_URL", ""),

		HistoryCacheTTL: getDurationEnv("HISTORY_CACHE_TTL", 5*time.Minute),

		OutboxPollInterval:    getDurationEnv("OUTBOX_POLL_INTERVAL", 2*time.Second),
		OutboxBatchSize:       getIntEnv("OUTBOX_BATCH_SIZE", 50),
		OutboxMaxRetries:      getIntEnv("OUTBOX_MAX_RETRIES", 5),
		OutboxRetention:       getDurationEnv("OUTBOX_RETENTION", 14*24*time.Hour),
		OutboxCleanupInterval: getDurationEnv("OUTBOX_CLEANUP_INTERVAL", 24*time.Hour),

		WorkerHealthAddr: getEnv("WORKER_HEALTH_ADDR", "0.0.0.0:8081"),
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
