// Package config provides configuration for the marketplace service.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// SQLiteOptions are the connection parameters appended to file DSNs. Writers
// wait on a busy database instead of failing.
const SQLiteOptions = "_busy_timeout=5000&_journal_mode=WAL&mode=rwc"

// Config holds the service configuration.
type Config struct {
	// Server settings
	HTTPPort     int
	InternalPort int

	// Database
	DatabaseURL    string
	BackendTimeout time.Duration
	SeedDemoData   bool

	// Realtime settings
	FeedBufferSize int
	PingInterval   time.Duration
	WriteTimeout   time.Duration
	ReadTimeout    time.Duration
}

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		HTTPPort:       getEnvInt("HTTP_PORT", 8080),
		InternalPort:   getEnvInt("INTERNAL_PORT", 8081),
		DatabaseURL:    getEnv("DATABASE_URL", "file:bountyboard.db?"+SQLiteOptions),
		BackendTimeout: time.Duration(getEnvInt("BACKEND_TIMEOUT_MS", 5000)) * time.Millisecond,
		SeedDemoData:   getEnvBool("SEED_DEMO_DATA", false),
		FeedBufferSize: getEnvInt("FEED_BUFFER_SIZE", 64),
		PingInterval:   time.Duration(getEnvInt("WS_PING_INTERVAL_MS", 30000)) * time.Millisecond,
		WriteTimeout:   time.Duration(getEnvInt("WS_WRITE_TIMEOUT_MS", 10000)) * time.Millisecond,
		ReadTimeout:    time.Duration(getEnvInt("WS_READ_TIMEOUT_MS", 60000)) * time.Millisecond,
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(val)); err == nil {
			return b
		}
	}
	return defaultVal
}
