package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the application configuration
type Config struct {
	Server      ServerConfig
	StockFeed   StockFeedConfig
	Cache       CacheConfig
	Logging     LoggingConfig
	CORS        CORSConfig
	Environment string
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// StockFeedConfig represents the upstream stock price feed configuration
type StockFeedConfig struct {
	BaseURL   string
	Token     string
	Timeout   time.Duration
	RateLimit int // requests per minute, 0 disables limiting
}

// CacheConfig represents price history cache configuration
type CacheConfig struct {
	HistoryTTL    time.Duration
	MaxEntries    int64
	SweepSchedule string
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string
	Format     string
	Output     string
	Filename   string
	MaxSize    int
	MaxAge     int
	MaxBackups int
	Compress   bool
}

// CORSConfig represents CORS configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// Load loads configuration from an optional .env file and environment variables with defaults
func Load() *Config {
	// a missing .env file is fine, the environment still applies
	_ = godotenv.Load()

	return &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", "30s"),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", "30s"),
			IdleTimeout:     getEnvAsDuration("SERVER_IDLE_TIMEOUT", "60s"),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", "30s"),
		},
		StockFeed: StockFeedConfig{
			BaseURL:   getEnv("STOCK_API_BASE_URL", "http://20.244.56.144/evaluation-service"),
			Token:     getEnv("STOCK_API_TOKEN", ""),
			Timeout:   getEnvAsDuration("UPSTREAM_TIMEOUT", "10s"),
			RateLimit: getEnvAsInt("UPSTREAM_RATE_LIMIT", 0),
		},
		Cache: CacheConfig{
			HistoryTTL:    getEnvAsDuration("HISTORY_CACHE_TTL", "300s"),
			MaxEntries:    getEnvAsInt64("CACHE_MAX_ENTRIES", 0),
			SweepSchedule: getEnv("CACHE_SWEEP_SCHEDULE", "@every 1m"),
		},
		Logging: LoggingConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			Output:     getEnv("LOG_OUTPUT", "stdout"),
			Filename:   getEnv("LOG_FILE", ""),
			MaxSize:    getEnvAsInt("LOG_MAX_SIZE", 100),
			MaxAge:     getEnvAsInt("LOG_MAX_AGE", 30),
			MaxBackups: getEnvAsInt("LOG_MAX_BACKUPS", 5),
			Compress:   getEnvAsBool("LOG_COMPRESS", true),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
	}
}

// Validate checks the configuration for values the service cannot run with
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.StockFeed.BaseURL == "" {
		return fmt.Errorf("STOCK_API_BASE_URL is required")
	}
	if c.StockFeed.RateLimit < 0 {
		return fmt.Errorf("UPSTREAM_RATE_LIMIT must not be negative")
	}
	if c.Cache.HistoryTTL <= 0 {
		return fmt.Errorf("HISTORY_CACHE_TTL must be positive")
	}
	if c.IsProduction() && c.StockFeed.Token == "" {
		return fmt.Errorf("STOCK_API_TOKEN is required in production")
	}
	return nil
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if int64Value, err := strconv.ParseInt(value, 10, 64); err == nil {
			return int64Value
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	if duration, err := time.ParseDuration(defaultValue); err == nil {
		return duration
	}
	return time.Second * 30 // Fallback
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return defaultValue
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsTest returns true if running in test environment
func (c *Config) IsTest() bool {
	return c.Environment == "test"
}
