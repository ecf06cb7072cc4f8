package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Card engine policy parameters
	Cards CardsConfig

	// API rate limiting
	RateLimit RateLimitConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// CardsConfig holds policy parameters for the card engine.
// The lookback window and composite weights are product decisions per card,
// not derivable constants, so they live in configuration.
type CardsConfig struct {
	// LookbackDays bounds how far back the trading-date resolver probes
	// when the requested or latest date has no data.
	LookbackDays int

	// CatalogTTL is how long a catalog snapshot is served before a
	// background refresh is triggered.
	CatalogTTL time.Duration

	// ResponseCacheTTL is the Redis TTL for rendered card payloads.
	// EOD rows never change once written, so this can be long.
	ResponseCacheTTL time.Duration

	// UsageQueueSize bounds the telemetry queue; a full queue drops entries.
	UsageQueueSize int

	// UsageRetentionDays controls the scheduled usage-log purge.
	UsageRetentionDays int

	// Summary holds the market_summary composite weights.
	Summary SummaryWeights
}

// SummaryWeights are the market_summary component weights.
// 가중치 합은 1.0이어야 함
type SummaryWeights struct {
	Breadth    float64
	Regime     float64
	Volatility float64
	Trend      float64
}

// RateLimitConfig holds API token-bucket settings
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8087"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		// Card engine policy
		Cards: CardsConfig{
			LookbackDays:       getEnvAsInt("CARDS_LOOKBACK_DAYS", 10),
			CatalogTTL:         getEnvAsDuration("CARDS_CATALOG_TTL", "60s"),
			ResponseCacheTTL:   getEnvAsDuration("CARDS_CACHE_TTL", "24h"),
			UsageQueueSize:     getEnvAsInt("CARDS_USAGE_QUEUE_SIZE", 1024),
			UsageRetentionDays: getEnvAsInt("CARDS_USAGE_RETENTION_DAYS", 90),
			Summary: SummaryWeights{
				Breadth:    getEnvAsFloat("CARDS_SUMMARY_W_BREADTH", 0.40),
				Regime:     getEnvAsFloat("CARDS_SUMMARY_W_REGIME", 0.30),
				Volatility: getEnvAsFloat("CARDS_SUMMARY_W_VOLATILITY", 0.20),
				Trend:      getEnvAsFloat("CARDS_SUMMARY_W_TREND", 0.10),
			},
		},

		// Rate limiting
		RateLimit: RateLimitConfig{
			RequestsPerSecond: getEnvAsFloat("RATE_LIMIT_RPS", 50),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 100),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Cards.LookbackDays < 1 {
		return fmt.Errorf("CARDS_LOOKBACK_DAYS must be at least 1")
	}

	w := c.Cards.Summary
	total := w.Breadth + w.Regime + w.Volatility + w.Trend
	if total < 0.999 || total > 1.001 {
		return fmt.Errorf("market_summary weights must sum to 1.0, got %.3f", total)
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
