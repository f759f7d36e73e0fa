package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, 8081, cfg.InternalPort)
	assert.Equal(t, "file:bountyboard.db?_busy_timeout=5000&_journal_mode=WAL&mode=rwc", cfg.DatabaseURL)
	assert.NotContains(t, cfg.DatabaseURL, "cache=shared")
	assert.Equal(t, 5*time.Second, cfg.BackendTimeout)
	assert.False(t, cfg.SeedDemoData)
	assert.Equal(t, 64, cfg.FeedBufferSize)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("BACKEND_TIMEOUT_MS", "250")
	t.Setenv("SEED_DEMO_DATA", "true")
	t.Setenv("FEED_BUFFER_SIZE", "not-a-number")

	cfg := Load()

	assert.Equal(t, 9000, cfg.HTTPPort)
	assert.Equal(t, 250*time.Millisecond, cfg.BackendTimeout)
	assert.True(t, cfg.SeedDemoData)
	assert.Equal(t, 64, cfg.FeedBufferSize, "invalid values fall back to the default")
}
