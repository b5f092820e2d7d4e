package ratelimit

import (
	"os"
	"strconv"
	"time"
)

// Requests fall into two classes: generation calls are expensive and get a
// tight budget, everything else shares a lenient read budget. Health and
// metrics probes are never limited.
const (
	classGenerate = "generate"
	classRead     = "read"
)

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	GenerateLimit   int           // generation requests per window
	GenerateWindow  time.Duration
	GenerateBurst   int
	ReadLimit       int // read requests per window
	ReadWindow      time.Duration
	CleanupInterval time.Duration
}

// LoadConfig reads rate limiting configuration from environment variables.
func LoadConfig() *Config {
	if !getEnvBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	cfg := defaultConfig()
	cfg.GenerateLimit = getEnvInt("RATE_LIMIT_GENERATE_LIMIT", cfg.GenerateLimit)
	cfg.GenerateWindow = getEnvDuration("RATE_LIMIT_GENERATE_WINDOW", cfg.GenerateWindow)
	cfg.GenerateBurst = getEnvInt("RATE_LIMIT_GENERATE_BURST", cfg.GenerateBurst)
	cfg.ReadLimit = getEnvInt("RATE_LIMIT_READ_LIMIT", cfg.ReadLimit)
	cfg.ReadWindow = getEnvDuration("RATE_LIMIT_READ_WINDOW", cfg.ReadWindow)
	cfg.CleanupInterval = getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", cfg.CleanupInterval)
	return cfg
}

func defaultConfig() *Config {
	return &Config{
		Enabled:         true,
		GenerateLimit:   30,
		GenerateWindow:  time.Minute,
		GenerateBurst:   5,
		ReadLimit:       300,
		ReadWindow:      time.Minute,
		CleanupInterval: 5 * time.Minute,
	}
}

// classify maps a request to its limit class.
func classify(path, method string) string {
	if method == "POST" && path == "/generate" {
		return classGenerate
	}
	return classRead
}

// resolve returns the limit parameters for a request, and whether the
// request is limited at all.
func (c *Config) resolve(path, method string) (limit int, window time.Duration, burst int, limited bool) {
	if method == "GET" && (path == "/health" || path == "/metrics") {
		return 0, 0, 0, false
	}

	switch classify(path, method) {
	case classGenerate:
		burst = c.GenerateBurst
		if burst <= 0 {
			burst = c.GenerateLimit
		}
		return c.GenerateLimit, c.GenerateWindow, burst, c.GenerateLimit > 0
	default:
		return c.ReadLimit, c.ReadWindow, c.ReadLimit, c.ReadLimit > 0
	}
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
