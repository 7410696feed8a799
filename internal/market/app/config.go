package app

import (
	"os"
	"strconv"
	"time"

	"github.com/northmarket/bazaar/pkg/tokenx"
)

type Config struct {
	SecretKey string        // Required in prod: HMAC secret for identity tokens (dev generates an ephemeral one)
	Issuer    string        // Optional: issuer claim for tokens (default: bazaar)
	TokenTTL  time.Duration // Optional: identity token lifetime (default: 72h)

	DatabaseFile        string        // Optional: path to SQLite database file (default: ./bazaar.db)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		SecretKey:           os.Getenv("BAZAAR_SECRET_KEY"),
		Issuer:              getEnvOrDefault("BAZAAR_ISSUER", "bazaar"),
		TokenTTL:            getEnvDurationOrDefault("BAZAAR_TOKEN_TTL", tokenx.DefaultTTL),
		DatabaseFile:        getEnvOrDefault("BAZAAR_DATABASE_FILE", "bazaar.db"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
