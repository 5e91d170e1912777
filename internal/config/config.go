package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Cache    CacheConfig
	API      APIConfig
	Client   ClientConfig
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// CacheConfig holds list cache configuration (Redis)
type CacheConfig struct {
	RedisURL string
	Key      string
	TTL      time.Duration
}

// APIConfig holds API server configuration
type APIConfig struct {
	Port int
}

// ClientConfig holds console client configuration
type ClientConfig struct {
	// BaseURL of the customer-accounts API. Defaults to the local
	// server when unset.
	BaseURL string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	apiPort, err := strconv.Atoi(getEnv("API_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid API_PORT: %w", err)
	}

	cacheTTL, err := strconv.Atoi(getEnv("CACHE_TTL_SECONDS", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL_SECONDS: %w", err)
	}

	return &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "customer_console"),
			Password: getEnv("DB_PASSWORD", "customer_console"),
			DBName:   getEnv("DB_NAME", "customer_console"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Cache: CacheConfig{
			RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),
			Key:      getEnv("CACHE_KEY", "customer_accounts:list"),
			TTL:      time.Duration(cacheTTL) * time.Second,
		},
		API: APIConfig{
			Port: apiPort,
		},
		Client: ClientConfig{
			BaseURL: getEnv("CUSTOMER_API_URL", "http://localhost:8080"),
		},
	}, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
