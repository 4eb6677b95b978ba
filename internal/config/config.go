// Package config provides configuration management for the creative studio service.
// It loads configuration from environment variables and .env files.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	GenAI     GenAIConfig
	Credits   CreditsConfig
	Studio    StudioConfig
	Video     VideoConfig
	RateLimit RateLimitConfig
	Budget    BudgetConfig
	Analytics AnalyticsConfig
	Logging   LoggingConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Postgres   PostgresConfig
	ClickHouse ClickHouseConfig
	Redis      RedisConfig
}

// PostgresConfig holds Postgres configuration
type PostgresConfig struct {
	Host           string
	Port           string
	Database       string
	User           string
	Password       string
	MaxConnections int
}

// URL returns the postgres:// connection URL used by migrations
func (c PostgresConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", c.User, c.Password, c.Host, c.Port, c.Database)
}

// ClickHouseConfig holds ClickHouse configuration
type ClickHouseConfig struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host           string
	Port           string
	Password       string
	DB             int
	MaxConnections int
}

// GenAIConfig holds the generative content API configuration
type GenAIConfig struct {
	APIKey      string
	BaseURL     string
	TextModel   string
	ImageModel  string
	VideoModel  string
	Temperature float64
}

// CreditsConfig holds the simulated credit economy
type CreditsConfig struct {
	Starting          int64
	AdReward          int64
	CostPerGeneration int64 // displayed only, never deducted
}

// StudioConfig holds per-panel state settings
type StudioConfig struct {
	HistoryLimit int
	HistoryTTL   time.Duration
	OutputTTL    time.Duration
	GuardTTL     time.Duration
}

// VideoConfig holds video job settings
type VideoConfig struct {
	PollInterval time.Duration
	Timeout      time.Duration
	Workers      int
	InProcess    bool // run video workers inside the API server
}

// RateLimitConfig holds rate limiting configuration (requests per second)
type RateLimitConfig struct {
	FreeTier int
	ProTier  int
}

// BudgetConfig holds the shared generator call budget. Units are spent per
// generator call; Reserved of them are kept for interactive requests.
type BudgetConfig struct {
	Enabled  bool
	Units    int
	Reserved int
	Window   time.Duration
	MaxWait  time.Duration
}

// AnalyticsConfig toggles the ClickHouse generation event log
type AnalyticsConfig struct {
	Enabled bool
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// LoadConfig loads configuration from .env file and environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env file is optional - environment variables can be set directly
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", 3*time.Minute),
		},
		Database: DatabaseConfig{
			Postgres: PostgresConfig{
				Host:           getEnv("POSTGRES_HOST", "localhost"),
				Port:           getEnv("POSTGRES_PORT", "5432"),
				Database:       getEnv("POSTGRES_DB", "creative_studio"),
				User:           getEnv("POSTGRES_USER", "studio"),
				Password:       getEnv("POSTGRES_PASSWORD", ""),
				MaxConnections: getEnvAsInt("POSTGRES_MAX_CONNECTIONS", 20),
			},
			ClickHouse: ClickHouseConfig{
				Host:     getEnv("CLICKHOUSE_HOST", "localhost"),
				Port:     getEnv("CLICKHOUSE_PORT", "9000"),
				Database: getEnv("CLICKHOUSE_DB", "creative_studio"),
				User:     getEnv("CLICKHOUSE_USER", "default"),
				Password: getEnv("CLICKHOUSE_PASSWORD", ""),
			},
			Redis: RedisConfig{
				Host:           getEnv("REDIS_HOST", "localhost"),
				Port:           getEnv("REDIS_PORT", "6379"),
				Password:       getEnv("REDIS_PASSWORD", ""),
				DB:             getEnvAsInt("REDIS_DB", 0),
				MaxConnections: getEnvAsInt("REDIS_MAX_CONNECTIONS", 50),
			},
		},
		GenAI: GenAIConfig{
			APIKey:      firstNonEmpty(os.Getenv("GEMINI_API_KEY"), os.Getenv("API_KEY")),
			BaseURL:     getEnv("GENAI_BASE_URL", ""),
			TextModel:   getEnv("GENAI_TEXT_MODEL", "gemini-2.5-flash"),
			ImageModel:  getEnv("GENAI_IMAGE_MODEL", "gemini-2.5-flash-image"),
			VideoModel:  getEnv("GENAI_VIDEO_MODEL", "veo-3.1-fast-generate-preview"),
			Temperature: getEnvAsFloat("GENAI_TEMPERATURE", 0.7),
		},
		Credits: CreditsConfig{
			Starting:          int64(getEnvAsInt("CREDITS_STARTING", 100)),
			AdReward:          int64(getEnvAsInt("CREDITS_AD_REWARD", 50)),
			CostPerGeneration: int64(getEnvAsInt("CREDITS_COST_PER_GENERATION", 5)),
		},
		Studio: StudioConfig{
			HistoryLimit: getEnvAsInt("STUDIO_HISTORY_LIMIT", 50),
			HistoryTTL:   getEnvAsDuration("STUDIO_HISTORY_TTL", 24*time.Hour),
			OutputTTL:    getEnvAsDuration("STUDIO_OUTPUT_TTL", 24*time.Hour),
			GuardTTL:     getEnvAsDuration("STUDIO_GUARD_TTL", 2*time.Minute),
		},
		Video: VideoConfig{
			PollInterval: getEnvAsDuration("VIDEO_POLL_INTERVAL", 5*time.Second),
			Timeout:      getEnvAsDuration("VIDEO_TIMEOUT", 10*time.Minute),
			Workers:      getEnvAsInt("VIDEO_WORKERS", 2),
			InProcess:    getEnvAsBool("VIDEO_IN_PROCESS", true),
		},
		RateLimit: RateLimitConfig{
			FreeTier: getEnvAsInt("RATE_LIMIT_FREE_TIER", 5),
			ProTier:  getEnvAsInt("RATE_LIMIT_PRO_TIER", 50),
		},
		Budget: BudgetConfig{
			Enabled:  getEnvAsBool("GENAI_BUDGET_ENABLED", true),
			Units:    getEnvAsInt("GENAI_BUDGET_UNITS", 120),
			Reserved: getEnvAsInt("GENAI_BUDGET_RESERVED", 80),
			Window:   getEnvAsDuration("GENAI_BUDGET_WINDOW", time.Minute),
			MaxWait:  getEnvAsDuration("GENAI_BUDGET_MAX_WAIT", 30*time.Second),
		},
		Analytics: AnalyticsConfig{
			Enabled: getEnvAsBool("ANALYTICS_ENABLED", false),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects settings the services cannot run with
func (c *Config) Validate() error {
	var problems []string

	if c.Credits.Starting < 0 {
		problems = append(problems, "CREDITS_STARTING must not be negative")
	}
	if c.Credits.AdReward <= 0 {
		problems = append(problems, "CREDITS_AD_REWARD must be positive")
	}
	if c.Studio.HistoryLimit <= 0 {
		problems = append(problems, "STUDIO_HISTORY_LIMIT must be positive")
	}
	if c.Studio.GuardTTL <= 0 {
		problems = append(problems, "STUDIO_GUARD_TTL must be positive")
	}
	if c.Video.PollInterval <= 0 {
		problems = append(problems, "VIDEO_POLL_INTERVAL must be positive")
	}
	if c.Video.Timeout < c.Video.PollInterval {
		problems = append(problems, "VIDEO_TIMEOUT must be at least VIDEO_POLL_INTERVAL")
	}
	if c.Video.Workers <= 0 {
		problems = append(problems, "VIDEO_WORKERS must be positive")
	}
	if c.RateLimit.FreeTier <= 0 || c.RateLimit.ProTier <= 0 {
		problems = append(problems, "rate limits must be positive")
	}
	if c.Budget.Enabled {
		if c.Budget.Units <= 0 || c.Budget.Reserved < 0 || c.Budget.Reserved > c.Budget.Units {
			problems = append(problems, "GENAI_BUDGET_RESERVED must be within [0, GENAI_BUDGET_UNITS]")
		}
		if c.Budget.Window <= 0 {
			problems = append(problems, "GENAI_BUDGET_WINDOW must be positive")
		}
	}
	if c.GenAI.Temperature < 0 || c.GenAI.Temperature > 2 {
		problems = append(problems, "GENAI_TEMPERATURE must be within [0, 2]")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsFloat gets an environment variable as a float with a default value
func getEnvAsFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsBool gets an environment variable as a boolean with a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration gets an environment variable as a duration with a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
