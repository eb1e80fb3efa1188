// Package config builds the immutable process configuration from the
// environment. The struct is constructed once at startup and handed by
// reference to each component; nothing reads ambient globals afterwards.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// DatabaseConfig holds connection settings for the target database server.
type DatabaseConfig struct {
	Driver   string `validate:"required,oneof=mysql postgres"`
	Host     string `validate:"required"`
	Port     int    `validate:"required,min=1,max=65535"`
	User     string `validate:"required"`
	Password string
	Name     string `validate:"required"`
}

// LLMConfig holds settings for the OpenAI-compatible completion endpoint.
type LLMConfig struct {
	APIKey     string `validate:"required"`
	BaseURL    string `validate:"omitempty,url"`
	Model      string `validate:"required"`
	MaxRetries int    `validate:"min=0,max=10"`
	Timeout    time.Duration
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port     string `validate:"required"`
	LogLevel int    `validate:"min=1,max=4"`
}

// RedisConfig holds optional rate-limiter settings. Rate limiting is
// enabled only when URL is non-empty.
type RedisConfig struct {
	URL        string
	RateLimit  int `validate:"min=1"`
	RateWindow time.Duration
}

// Config is the root configuration object.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	LLM      LLMConfig
	Redis    RedisConfig
}

// Load reads configuration from environment variables and validates it.
// Callers are expected to have loaded .env files beforehand (see the CLI's
// LoadEnvFiles); system environment variables always win.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:     getEnv("PORT", "8080"),
			LogLevel: getEnvInt("LOG_LEVEL", 3),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "mysql"),
			Host:     getEnv("MYSQL_HOST", "localhost"),
			Port:     getEnvInt("MYSQL_PORT", 3306),
			User:     os.Getenv("MYSQL_USER"),
			Password: os.Getenv("MYSQL_PASSWORD"),
			Name:     os.Getenv("MYSQL_DATABASE"),
		},
		LLM: LLMConfig{
			APIKey:     os.Getenv("LLM_API_KEY"),
			BaseURL:    os.Getenv("LLM_BASE_URL"),
			Model:      getEnv("LLM_MODEL", "llama3-70b-8192"),
			MaxRetries: getEnvInt("LLM_MAX_RETRIES", 3),
			Timeout:    time.Duration(getEnvInt("LLM_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Redis: RedisConfig{
			URL:        os.Getenv("REDIS_URL"),
			RateLimit:  getEnvInt("RATE_LIMIT", 60),
			RateWindow: time.Duration(getEnvInt("RATE_WINDOW_SECONDS", 60)) * time.Second,
		},
	}

	if err := validator.New().Struct(cfg); err != nil {
		if validationErrs, ok := err.(validator.ValidationErrors); ok {
			for _, fieldErr := range validationErrs {
				return nil, fmt.Errorf("invalid configuration: %s failed %q validation", fieldErr.Namespace(), fieldErr.Tag())
			}
		}
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// DSN returns the connection string for the configured default database.
func (d *DatabaseConfig) DSN() string {
	return d.DSNFor(d.Name)
}

// DSNFor returns the connection string for a specific database on the
// configured server. Used when a request targets a non-default database.
func (d *DatabaseConfig) DSNFor(database string) string {
	switch d.Driver {
	case "postgres":
		return fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
			url.QueryEscape(d.User), url.QueryEscape(d.Password), d.Host, d.Port, database)
	default:
		// parseTime so DATETIME columns scan as time.Time
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
			d.User, d.Password, d.Host, d.Port, database)
	}
}

// getEnv returns the value of an environment variable or a default
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvInt returns the integer value of an environment variable or a default
func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
