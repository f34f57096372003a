package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// HTTP API settings
	APIAddr string
	APIKey  string
	DevMode bool

	// Redis settings
	RedisAddr string

	// ClickHouse settings
	ClickHouseAddr     string
	ClickHouseDatabase string
	ClickHouseUsername string
	ClickHousePassword string

	// Smart-order-router backend
	RouterURL    string
	RouterAPIKey string

	// Portion service settings
	PortionURL         string
	PortionAPIKey      string
	PortionPositiveTTL time.Duration
	PortionNegativeTTL time.Duration
	PortionFlagKey     string
	PortionCacheBypass bool

	// HTTP client settings
	HTTPTimeout time.Duration
}

func Load() *Config {
	return &Config{
		// API
		APIAddr: getEnv("API_ADDR", ":8090"),
		APIKey:  getEnv("API_KEY", ""),
		DevMode: getBoolEnv("DEV_MODE", false),

		// Redis
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),

		// ClickHouse
		ClickHouseAddr:     getEnv("CLICKHOUSE_ADDR", "localhost:9000"),
		ClickHouseDatabase: getEnv("CLICKHOUSE_DATABASE", "quotes"),
		ClickHouseUsername: getEnv("CLICKHOUSE_USERNAME", "default"),
		ClickHousePassword: getEnv("CLICKHOUSE_PASSWORD", ""),

		// Router backend
		RouterURL:    getEnv("ROUTER_URL", ""),
		RouterAPIKey: getEnv("ROUTER_API_KEY", ""),

		// Portion service. Positive entries (a fee was found) live longer than
		// negative ones so a newly configured fee shows up within a minute.
		PortionURL:         getEnv("PORTION_URL", ""),
		PortionAPIKey:      getEnv("PORTION_API_KEY", ""),
		PortionPositiveTTL: getDurationEnv("PORTION_POSITIVE_TTL", 600*time.Second),
		PortionNegativeTTL: getDurationEnv("PORTION_NEGATIVE_TTL", 60*time.Second),
		PortionFlagKey:     getEnv("PORTION_FLAG_KEY", "ENABLE_PORTION"),
		PortionCacheBypass: getBoolEnv("PORTION_CACHE_BYPASS", false),

		// HTTP
		HTTPTimeout: getDurationEnv("HTTP_TIMEOUT", 12*time.Second),
	}
}

func (c *Config) Validate() error {
	if c.APIAddr == "" {
		return fmt.Errorf("API_ADDR is required")
	}
	if c.RouterURL != "" {
		if _, err := url.Parse(c.RouterURL); err != nil {
			return fmt.Errorf("invalid ROUTER_URL: %w", err)
		}
	}
	if c.PortionURL != "" {
		if _, err := url.Parse(c.PortionURL); err != nil {
			return fmt.Errorf("invalid PORTION_URL: %w", err)
		}
	}
	if c.PortionPositiveTTL <= 0 || c.PortionNegativeTTL <= 0 {
		return fmt.Errorf("portion cache TTLs must be positive")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getBoolEnv(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

// getDurationEnv accepts Go duration syntax ("10m") or a bare integer,
// which is read as seconds.
func getDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		if secs, err := strconv.Atoi(val); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultVal
}
