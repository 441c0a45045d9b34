package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var ErrEmptyEnvironmentVariable = errors.New("empty environment variable")

// Config holds all application configuration
type Config struct {
	Agent    AgentConfig
	Services ServicesConfig
	Redis    RedisConfig
	Server   ServerConfig
}

// AgentConfig identifies the conversational agent every call is bridged to
type AgentConfig struct {
	AgentID string
	BaseURL string
}

// ServicesConfig holds external service API keys and configuration
type ServicesConfig struct {
	SearchAPIKey       string
	SearchAPIBaseURL   string
	ResendAPIKey       string
	DefaultEmailSender string
	CheckoutAPIKey     string
}

// RedisConfig configures the optional catalog search cache
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	CacheTTL time.Duration
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int
	// PublicHost is used in the stream URL when an inbound call request carries no Host
	PublicHost     string
	AllowedOrigins []string
}

const (
	DefaultAgentBaseURL   = "wss://api.elevenlabs.io/v1/convai/conversation"
	DefaultSearchBaseURL  = "https://www.searchapi.io/api/v1/search"
	DefaultEmailSender    = "Saratoga Store <onboarding@resend.dev>"
	DefaultPort           = 8000
	DefaultPublicHost     = "localhost:8000"
	DefaultSearchCacheTTL = 10 * time.Minute
)

// Load reads and validates all required environment variables
func Load() (*Config, error) {
	// Load env.local in non-production environments
	if os.Getenv("GO_ENV") != "production" {
		if err := godotenv.Load("env.local"); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env.local: %w", err)
		}
	}

	return FromEnv()
}

// FromEnv builds the configuration from the process environment only
func FromEnv() (*Config, error) {
	cfg := &Config{}

	var err error
	if cfg.Agent.AgentID, err = requireEnv("ELEVENLABS_AGENT_ID"); err != nil {
		return nil, err
	}
	cfg.Agent.BaseURL = getEnvWithDefault("ELEVENLABS_WS_URL", DefaultAgentBaseURL)

	cfg.Services.SearchAPIKey = os.Getenv("SEARCHAPI_KEY")
	cfg.Services.SearchAPIBaseURL = getEnvWithDefault("SEARCHAPI_BASE_URL", DefaultSearchBaseURL)
	cfg.Services.ResendAPIKey = os.Getenv("RESEND_API_KEY")
	cfg.Services.DefaultEmailSender = getEnvWithDefault("DEFAULT_EMAIL_SENDER_ADDRESS", DefaultEmailSender)
	// CROSSMINT_API_KEY is the name older deployments use
	cfg.Services.CheckoutAPIKey = getEnvWithDefault("CHECKOUT_API_KEY", os.Getenv("CROSSMINT_API_KEY"))

	// Redis configuration
	cfg.Redis.Enabled, err = strconv.ParseBool(getEnvWithDefault("REDIS_ENABLED", "false"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse REDIS_ENABLED: %w", err)
	}
	cfg.Redis.Addr = getEnvWithDefault("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	cfg.Redis.DB, err = strconv.Atoi(getEnvWithDefault("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse REDIS_DB: %w", err)
	}
	cfg.Redis.CacheTTL, err = time.ParseDuration(getEnvWithDefault("SEARCH_CACHE_TTL", DefaultSearchCacheTTL.String()))
	if err != nil {
		return nil, fmt.Errorf("failed to parse SEARCH_CACHE_TTL: %w", err)
	}

	// Server configuration
	cfg.Server.Port, err = strconv.Atoi(getEnvWithDefault("PORT", strconv.Itoa(DefaultPort)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse PORT: %w", err)
	}
	cfg.Server.PublicHost = getEnvWithDefault("PUBLIC_HOST", DefaultPublicHost)
	cfg.Server.AllowedOrigins = splitList(getEnvWithDefault("CORS_ALLOWED_ORIGINS", "*"))

	return cfg, nil
}

// requireEnv retrieves an environment variable or returns an error if empty
func requireEnv(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s is not set: %w", key, ErrEmptyEnvironmentVariable)
	}
	return value, nil
}

// getEnvWithDefault retrieves an environment variable or returns a default value
func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
