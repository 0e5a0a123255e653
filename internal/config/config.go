// Package config loads application configuration from environment
// variables, with optional .env support for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all configuration for the agent.
type Config struct {
	Storage StorageConfig
	LLM     LLMConfig
	Search  SearchConfig
	App     AppConfig
}

type StorageConfig struct {
	Driver  string `validate:"oneof=memory sqlite postgres"`
	DataDir string

	Host     string
	Port     int
	Name     string
	User     string
	Password string
	SSLMode  string
}

type LLMConfig struct {
	APIKey      string  `validate:"required"`
	BaseURL     string  `validate:"omitempty,url"`
	Model       string  `validate:"required"`
	Temperature float64 `validate:"gte=0,lte=2"`
}

type SearchConfig struct {
	ResumePath  string `validate:"required"`
	Concurrency int    `validate:"gte=0"`
	SettleDelay time.Duration
	FetchDelay  time.Duration
}

type AppConfig struct {
	LogLevel       string
	ConsoleLog     bool
	ServerPort     int `validate:"gt=0,lte=65535"`
	RequestTimeout time.Duration
}

// Load reads configuration from the environment. A .env file is honored
// when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Storage: StorageConfig{
			Driver:   getEnvWithDefault("STORAGE_DRIVER", DriverSQLite),
			DataDir:  getEnvWithDefault("STORAGE_DATA_DIR", "./data"),
			Host:     getEnvWithDefault("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			Name:     getEnvWithDefault("DB_NAME", "headhunter"),
			User:     getEnvWithDefault("DB_USER", "postgres"),
			Password: getEnvWithDefault("DB_PASSWORD", ""),
			SSLMode:  getEnvWithDefault("DB_SSL_MODE", "disable"),
		},
		LLM: LLMConfig{
			APIKey:      getEnvWithDefault("LLM_API_KEY", os.Getenv("OPENAI_API_KEY")),
			BaseURL:     getEnvWithDefault("LLM_BASE_URL", ""),
			Model:       getEnvWithDefault("LLM_MODEL", "gpt-4o-mini"),
			Temperature: getEnvAsFloat("LLM_TEMPERATURE", 0.7),
		},
		Search: SearchConfig{
			ResumePath:  getEnvWithDefault("RESUME_PATH", "resume.txt"),
			Concurrency: getEnvAsInt("SEARCH_CONCURRENCY", 4),
			SettleDelay: getEnvAsDuration("SEARCH_SETTLE_DELAY", 15*time.Second),
			FetchDelay:  getEnvAsDuration("SEARCH_FETCH_DELAY", 2*time.Second),
		},
		App: AppConfig{
			LogLevel:       getEnvWithDefault("LOG_LEVEL", "info"),
			ConsoleLog:     getEnvAsBool("LOG_CONSOLE", true),
			ServerPort:     getEnvAsInt("SERVER_PORT", 8080),
			RequestTimeout: getEnvAsDuration("REQUEST_TIMEOUT", 30*time.Second),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for use.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if c.Storage.Driver == DriverPostgres && c.Storage.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required for the postgres driver")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Storage.Host,
		c.Storage.Port,
		c.Storage.User,
		c.Storage.Password,
		c.Storage.Name,
		c.Storage.SSLMode,
	)
}

// Helper functions for environment variable parsing

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if valueStr := os.Getenv(key); valueStr != "" {
		if value, err := strconv.Atoi(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if valueStr := os.Getenv(key); valueStr != "" {
		if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if valueStr := os.Getenv(key); valueStr != "" {
		if value, err := strconv.ParseBool(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if valueStr := os.Getenv(key); valueStr != "" {
		if value, err := time.ParseDuration(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}
