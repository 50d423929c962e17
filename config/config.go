package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings, sourced from the environment.
type Config struct {
	Port    string
	GinMode string
	DevMode bool
	DataDir string

	AIAPIKey    string
	AIEndpoint  string
	AIModel     string
	AIModelFast string

	SearchBaseURL string

	RateLimitEnabled bool
	RateLimitPerIP   int
	RateLimitBurst   int
}

// Load reads configuration from .env files and the environment.
// A development override file wins over the base file; both are optional.
func Load() (*Config, error) {
	_ = godotenv.Load(".env.development")
	_ = godotenv.Load()

	cfg := &Config{
		Port:    getEnv("PORT", "8082"),
		GinMode: getEnv("GIN_MODE", "release"),
		DevMode: getEnvBool("DEV_MODE", false),
		DataDir: getEnv("DATA_DIR", "./data"),

		AIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		AIEndpoint:  getEnv("AI_ENDPOINT", "https://api.openai.com/v1/chat/completions"),
		AIModel:     getEnv("AI_MODEL", "gpt-4"),
		AIModelFast: getEnv("AI_MODEL_FAST", "gpt-3.5-turbo"),

		SearchBaseURL: getEnv("SEARCH_BASE_URL", "https://www.google.com/search"),

		RateLimitEnabled: getEnvBool("RATE_LIMIT_ENABLED", true),
		RateLimitPerIP:   getEnvInt("RATE_LIMIT_PER_IP", 60),
		RateLimitBurst:   getEnvInt("RATE_LIMIT_BURST", 10),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects settings the server can't run with.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if c.RateLimitEnabled && c.RateLimitPerIP <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_IP must be greater than 0")
	}
	if c.RateLimitEnabled && c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be greater than 0")
	}
	if c.SearchBaseURL == "" {
		return fmt.Errorf("SEARCH_BASE_URL must not be empty")
	}
	return nil
}

// AIConfigured reports whether the language-model integration can be used.
func (c *Config) AIConfigured() bool {
	return c.AIAPIKey != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	value = strings.ToLower(strings.TrimSpace(value))
	return value == "true" || value == "1" || value == "yes"
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intVal
}
