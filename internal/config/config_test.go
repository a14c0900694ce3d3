package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("EDUBOT_API_URL", "http://api.local/api/")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("SEARCH_DEBOUNCE", "")
	t.Setenv("WORKSPACE_SWEEP_INTERVAL", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://api.local/api", cfg.EdubotAPIURL)
	assert.Equal(t, 400*time.Millisecond, cfg.Console.SearchDebounce)
	assert.Equal(t, 100, cfg.Console.DirectoryBatchSize)
	assert.Equal(t, 10, cfg.Console.DefaultPageSize)
	assert.Equal(t, 5*time.Minute, cfg.Console.WorkspaceSweep)
	assert.Empty(t, cfg.KafkaBrokers)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("EDUBOT_API_URL", "http://api.local")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("SESSION_SECURE", "true")
	t.Setenv("DIRECTORY_BATCH_SIZE", "50")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.True(t, cfg.Session.Secure)
	assert.Equal(t, 50, cfg.Console.DirectoryBatchSize)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	t.Setenv("EDUBOT_API_URL", "http://api.local")
	t.Setenv("SESSION_TTL", "forever")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "SESSION_TTL")
}
