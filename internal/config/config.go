package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// RouterMode selects which routing strategy drives selection.
type RouterMode string

const (
	RouterModeHeuristic RouterMode = "heuristic"
	RouterModeLLM       RouterMode = "llm"
)

// StoreKind selects the agent directory backend.
type StoreKind string

const (
	StorePostgres StoreKind = "postgres"
	StoreMemory   StoreKind = "memory"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Store    StoreKind
	Database DatabaseConfig
	Redis    RedisConfig
	Server   ServerConfig
	Router   RouterConfig
	Slack    SlackConfig
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string
}

// RouterConfig selects and tunes the routing strategy.
type RouterConfig struct {
	Mode             RouterMode
	LLMBaseURL       string
	LLMAPIKey        string
	LLMModel         string
	LLMTimeout       time.Duration
	AvgHandleMinutes int
}

// SlackConfig holds the optional assignment-notification settings.
type SlackConfig struct {
	BotToken     string
	OpsRecipient string // email notified when an escalation is queued
}

// Load reads configuration from environment variables. Defaults are safe
// for local development only.
func Load() (*Config, error) {
	dbPort, err := getEnvInt("HANDOFF_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	dbMaxConns, err := getEnvInt("HANDOFF_DB_MAX_CONNS", 25)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	redisDB, err := getEnvInt("HANDOFF_REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	readTimeout, err := getEnvDuration("HANDOFF_SERVER_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	writeTimeout, err := getEnvDuration("HANDOFF_SERVER_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	llmTimeout, err := getEnvDuration("HANDOFF_LLM_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	avgHandle, err := getEnvInt("HANDOFF_QUEUE_AVG_HANDLE_MINUTES", 15)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	cfg := &Config{
		Store: StoreKind(getEnv("HANDOFF_STORE", string(StorePostgres))),
		Database: DatabaseConfig{
			Host:     getEnv("HANDOFF_DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("HANDOFF_DB_USER", "handoff"),
			Password: getEnv("HANDOFF_DB_PASSWORD", ""),
			DBName:   getEnv("HANDOFF_DB_NAME", "handoff_dev"),
			SSLMode:  getEnv("HANDOFF_DB_SSLMODE", "disable"),
			MaxConns: dbMaxConns,
		},
		Redis: RedisConfig{
			Addr:     getEnv("HANDOFF_REDIS_ADDR", "localhost:6379"),
			Password: getEnv("HANDOFF_REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Server: ServerConfig{
			Addr:         getEnv("HANDOFF_SERVER_ADDR", ":8080"),
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			CORSOrigins:  getEnvList("HANDOFF_CORS_ORIGINS", []string{"http://localhost:5173"}),
		},
		Router: RouterConfig{
			Mode:             RouterMode(getEnv("HANDOFF_ROUTER_MODE", string(RouterModeHeuristic))),
			LLMBaseURL:       getEnv("HANDOFF_LLM_BASE_URL", "https://api.openai.com/v1"),
			LLMAPIKey:        getEnv("HANDOFF_LLM_API_KEY", ""),
			LLMModel:         getEnv("HANDOFF_LLM_MODEL", "gpt-4o-mini"),
			LLMTimeout:       llmTimeout,
			AvgHandleMinutes: avgHandle,
		},
		Slack: SlackConfig{
			BotToken:     getEnv("HANDOFF_SLACK_BOT_TOKEN", ""),
			OpsRecipient: getEnv("HANDOFF_SLACK_OPS_RECIPIENT", ""),
		},
	}

	err = cfg.validate()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return cfg, nil
}

// validate checks required fields and value bounds.
func (c *Config) validate() error {
	if c.Store != StorePostgres && c.Store != StoreMemory {
		return fmt.Errorf("HANDOFF_STORE must be 'postgres' or 'memory', got %q", c.Store)
	}
	if c.Router.Mode != RouterModeHeuristic && c.Router.Mode != RouterModeLLM {
		return fmt.Errorf("HANDOFF_ROUTER_MODE must be 'heuristic' or 'llm', got %q", c.Router.Mode)
	}
	if c.Router.Mode == RouterModeLLM && c.Router.LLMAPIKey == "" {
		return fmt.Errorf("HANDOFF_LLM_API_KEY is required when HANDOFF_ROUTER_MODE=llm")
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("HANDOFF_DB_PORT must be 1-65535, got %d", c.Database.Port)
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("HANDOFF_DB_MAX_CONNS must be >= 1, got %d", c.Database.MaxConns)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("HANDOFF_SERVER_READ_TIMEOUT must be positive, got %s", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("HANDOFF_SERVER_WRITE_TIMEOUT must be positive, got %s", c.Server.WriteTimeout)
	}
	if c.Router.LLMTimeout <= 0 {
		return fmt.Errorf("HANDOFF_LLM_TIMEOUT must be positive, got %s", c.Router.LLMTimeout)
	}
	if c.Router.AvgHandleMinutes < 1 {
		return fmt.Errorf("HANDOFF_QUEUE_AVG_HANDLE_MINUTES must be >= 1, got %d", c.Router.AvgHandleMinutes)
	}

	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as int: %w", key, v, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as duration: %w", key, v, err)
	}
	return d, nil
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
