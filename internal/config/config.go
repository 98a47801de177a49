// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Upstream defaults. Yahoo serves chart, quote summary and search from the same hosts.
const (
	DefaultYahooBaseURL   = "https://query1.finance.yahoo.com"
	DefaultYahooSearchURL = "https://query2.finance.yahoo.com"
	DefaultNewsFeedURL    = "https://news.google.com/rss/search"
)

// Config holds application configuration
type Config struct {
	DataDir     string // Base directory for the portfolio database (always absolute)
	LogLevel    string
	Port        int
	DevMode     bool
	MarketData  MarketDataConfig
	NewsFeedURL string
	// MaintenanceSchedule is a cron spec (seconds field allowed) for WAL checkpoints
	MaintenanceSchedule string
}

// MarketDataConfig tunes the outbound market data client
type MarketDataConfig struct {
	BaseURL     string
	SearchURL   string
	Timeout     time.Duration // Per-call timeout
	RateLimit   int           // Requests per second shared by all callers
	Concurrency int           // Max concurrent price lookups per valuation
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	absDataDir, err := filepath.Abs(getEnv("DATA_DIR", "./data"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:  absDataDir,
		Port:     getEnvAsInt("PORT", 8000),
		DevMode:  getEnvAsBool("DEV_MODE", false),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		MarketData: MarketDataConfig{
			BaseURL:     getEnv("YAHOO_BASE_URL", DefaultYahooBaseURL),
			SearchURL:   getEnv("YAHOO_SEARCH_URL", DefaultYahooSearchURL),
			Timeout:     getEnvAsDuration("MARKET_DATA_TIMEOUT", 10*time.Second),
			RateLimit:   getEnvAsInt("MARKET_DATA_RATE_LIMIT", 5),
			Concurrency: getEnvAsInt("MARKET_DATA_CONCURRENCY", 8),
		},
		NewsFeedURL:         getEnv("NEWS_FEED_URL", DefaultNewsFeedURL),
		MaintenanceSchedule: getEnv("MAINTENANCE_SCHEDULE", "@every 1h"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DatabasePath returns the location of the portfolio database
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "portfolio.db")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}

	for name, raw := range map[string]string{
		"YAHOO_BASE_URL":   c.MarketData.BaseURL,
		"YAHOO_SEARCH_URL": c.MarketData.SearchURL,
		"NEWS_FEED_URL":    c.NewsFeedURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid %s %q", name, raw)
		}
	}

	if c.MarketData.Timeout <= 0 {
		return fmt.Errorf("MARKET_DATA_TIMEOUT must be positive")
	}
	if c.MarketData.RateLimit <= 0 {
		return fmt.Errorf("MARKET_DATA_RATE_LIMIT must be positive")
	}
	if c.MarketData.Concurrency <= 0 {
		return fmt.Errorf("MARKET_DATA_CONCURRENCY must be positive")
	}

	parser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(c.MaintenanceSchedule); err != nil {
		return fmt.Errorf("invalid MAINTENANCE_SCHEDULE %q: %w", c.MaintenanceSchedule, err)
	}

	return nil
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as int with a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvAsBool gets an environment variable as bool with a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("15s") or a bare number of seconds
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
