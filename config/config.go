// Package config loads application configuration from environment variables.
// Loading collects every problem it finds and reports them together, so a
// misconfigured deployment fails fast with a complete list instead of one
// error per restart. The resulting structs are immutable after load and are
// injected into services at construction.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DBConfig holds settings for the PostgreSQL connection pool.
type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	MaxConns int
}

// AuthConfig holds the token-signing secret and token lifetime.
type AuthConfig struct {
	JWTSecret string
	// TokenTTL is the lifetime of issued access tokens. There is no refresh
	// mechanism: an expired token requires a fresh login.
	TokenTTL time.Duration
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port string
}

// AppConfig is the top-level configuration for the service.
type AppConfig struct {
	DB     *DBConfig
	Auth   *AuthConfig
	Server *ServerConfig
}

func getRequiredEnv(key string, errs *[]string) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		*errs = append(*errs, fmt.Sprintf("missing required environment variable: %s", key))
		return ""
	}
	return value
}

func getOptionalEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getOptionalEnvInt(key string, defaultValue int, errs *[]string) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid value for %s: expected integer, got %q: %v", key, valueStr, err))
		return defaultValue
	}
	return valueInt
}

func getOptionalEnvDuration(key string, defaultValue time.Duration, errs *[]string) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return defaultValue
	}
	valueDuration, err := time.ParseDuration(valueStr)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid value for %s: expected duration string, got %q: %v", key, valueStr, err))
		return defaultValue
	}
	return valueDuration
}

// LoadConfig reads and validates the configuration from the environment.
// All collected errors are returned as a single aggregated error.
func LoadConfig() (*AppConfig, error) {
	var errs []string

	dbUser := getRequiredEnv("DB_USER", &errs)
	dbPassword := getRequiredEnv("DB_PASSWORD", &errs)
	dbName := getRequiredEnv("DB_NAME", &errs)
	dbHost := getOptionalEnv("DB_HOST", "localhost")
	dbPort := getOptionalEnvInt("DB_PORT", 5432, &errs)
	dbMaxConns := getOptionalEnvInt("DB_POOL_SIZE", 10, &errs)
	if dbMaxConns < 1 {
		errs = append(errs, fmt.Sprintf("DB_POOL_SIZE must be at least 1, got %d", dbMaxConns))
		dbMaxConns = 1
	}

	jwtSecret := getRequiredEnv("JWT_SECRET", &errs)
	tokenTTL := getOptionalEnvDuration("TOKEN_TTL", 30*time.Minute, &errs)
	if tokenTTL <= 0 {
		errs = append(errs, fmt.Sprintf("TOKEN_TTL must be positive, got %s", tokenTTL))
	}

	serverPort := getOptionalEnv("PORT", "8080")

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration errors:\n- %s", strings.Join(errs, "\n- "))
	}

	return &AppConfig{
		DB: &DBConfig{
			Host:     dbHost,
			Port:     dbPort,
			User:     dbUser,
			Password: dbPassword,
			DBName:   dbName,
			MaxConns: dbMaxConns,
		},
		Auth: &AuthConfig{
			JWTSecret: jwtSecret,
			TokenTTL:  tokenTTL,
		},
		Server: &ServerConfig{
			Port: serverPort,
		},
	}, nil
}
