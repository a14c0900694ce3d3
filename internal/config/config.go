package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	EdubotAPIURL     string
	EdubotAPITimeout time.Duration

	DatabaseURL string
	RedisURL    string

	KafkaBrokers       []string
	KafkaActivityTopic string

	Session SessionConfig
	Console ConsoleConfig
}

type SessionConfig struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// ConsoleConfig tunes the server-held screen controllers
type ConsoleConfig struct {
	SearchDebounce     time.Duration
	DirectoryBatchSize int
	DefaultPageSize    int
	// WorkspaceSweep is how often workspaces of ended sessions are dropped
	WorkspaceSweep time.Duration
}

// LoadConfig reads .env when present, then the process environment
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		Environment:        getEnv("ENVIRONMENT", "development"),
		LogLevel:           parseLevel(getEnv("LOG_LEVEL", "info")),
		EdubotAPIURL:       strings.TrimRight(getEnv("EDUBOT_API_URL", "http://localhost:3000/api"), "/"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379/0"),
		KafkaBrokers:       splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaActivityTopic: getEnv("KAFKA_ACTIVITY_TOPIC", "edubot.admin.activity"),
		Session: SessionConfig{
			CookieName: getEnv("SESSION_COOKIE", "edubot_admin_session"),
		},
	}

	var err error
	if cfg.EdubotAPITimeout, err = getDuration("EDUBOT_API_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.Session.TTL, err = getDuration("SESSION_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.Session.Secure, err = getBool("SESSION_SECURE", false); err != nil {
		return nil, err
	}
	if cfg.Console.SearchDebounce, err = getDuration("SEARCH_DEBOUNCE", 400*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.Console.DirectoryBatchSize, err = getInt("DIRECTORY_BATCH_SIZE", 100); err != nil {
		return nil, err
	}
	if cfg.Console.DefaultPageSize, err = getInt("DEFAULT_PAGE_SIZE", 10); err != nil {
		return nil, err
	}
	if cfg.Console.WorkspaceSweep, err = getDuration("WORKSPACE_SWEEP_INTERVAL", 5*time.Minute); err != nil {
		return nil, err
	}

	if cfg.EdubotAPIURL == "" {
		return nil, fmt.Errorf("EDUBOT_API_URL is required")
	}
	if cfg.Console.DirectoryBatchSize <= 0 || cfg.Console.DefaultPageSize <= 0 {
		return nil, fmt.Errorf("DIRECTORY_BATCH_SIZE and DEFAULT_PAGE_SIZE must be positive")
	}
	if cfg.Console.WorkspaceSweep <= 0 {
		return nil, fmt.Errorf("WORKSPACE_SWEEP_INTERVAL must be positive")
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, defaultValue int) (int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getBool(key string, defaultValue bool) (bool, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
