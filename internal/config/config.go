package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the application
type Config struct {
	Port               string
	AllowedOrigins     []string
	LogLevel           string
	Environment        string
	RedisURL           string
	DatabaseURL        string
	DBMaxConns         int
	DBMinConns         int
	DBConnectTimeout   time.Duration
	SessionSecret      string
	SessionTTL         time.Duration
	CookieSecure       bool
	LoginRatePerMinute int
	GoogleClientID     string
	GoogleClientSecret string
	ServerURL          string // Backend base URL used by the harapan CLI
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:               getEnv("PORT", "8080"),
		AllowedOrigins:     parseOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:6004,http://localhost:8080")),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		Environment:        getEnv("ENVIRONMENT", "production"),
		RedisURL:           getEnv("REDIS_URL", ""),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		DBMaxConns:         getIntEnv("DB_MAX_CONNS", 10),
		DBMinConns:         getIntEnv("DB_MIN_CONNS", 1),
		DBConnectTimeout:   getDurationEnv("DB_CONNECT_TIMEOUT", 5*time.Second),
		SessionSecret:      getEnv("SESSION_SECRET", ""),
		SessionTTL:         getDurationEnv("SESSION_TTL", 24*time.Hour),
		CookieSecure:       getBoolEnv("COOKIE_SECURE", true),
		LoginRatePerMinute: getIntEnv("LOGIN_RATE_PER_MINUTE", 30),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		ServerURL:          getEnv("HARAPAN_SERVER_URL", "http://localhost:8080"),
	}, nil
}

// IsDevelopment reports whether the app runs in a local development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// parseOrigins parses comma-separated origins into a slice
func parseOrigins(origins string) []string {
	if origins == "" {
		return []string{}
	}

	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))

	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// getBoolEnv gets a boolean environment variable with a fallback value
func getBoolEnv(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

// getIntEnv gets a positive integer environment variable with a fallback value
func getIntEnv(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}

// getDurationEnv gets a duration environment variable (e.g. "12h") with a fallback value
func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}
