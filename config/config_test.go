package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("RATE_LIMIT_ENABLED", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "8082" {
		t.Errorf("Expected default port 8082, got %q", cfg.Port)
	}
	if cfg.AIEndpoint != "https://api.openai.com/v1/chat/completions" {
		t.Errorf("Unexpected default endpoint: %q", cfg.AIEndpoint)
	}
	if !cfg.RateLimitEnabled {
		t.Error("Expected rate limiting on by default")
	}
	if cfg.AIConfigured() {
		t.Error("AI should not be configured without a key")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("RATE_LIMIT_ENABLED", "no")
	t.Setenv("RATE_LIMIT_PER_IP", "120")
	t.Setenv("DEV_MODE", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "9999" {
		t.Errorf("Expected port override, got %q", cfg.Port)
	}
	if !cfg.AIConfigured() {
		t.Error("Expected AI to be configured")
	}
	if cfg.RateLimitEnabled {
		t.Error("Expected rate limiting disabled")
	}
	if cfg.RateLimitPerIP != 120 {
		t.Errorf("Expected per-IP limit 120, got %d", cfg.RateLimitPerIP)
	}
	if !cfg.DevMode {
		t.Error("Expected dev mode enabled")
	}
}

func TestLoadBadInteger(t *testing.T) {
	t.Setenv("RATE_LIMIT_PER_IP", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.RateLimitPerIP != 60 {
		t.Errorf("Expected fallback to default 60, got %d", cfg.RateLimitPerIP)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Port:             "8082",
			SearchBaseURL:    "https://www.google.com/search",
			RateLimitEnabled: true,
			RateLimitPerIP:   60,
			RateLimitBurst:   10,
		}
	}

	if err := base().Validate(); err != nil {
		t.Errorf("Valid config rejected: %v", err)
	}

	cfg := base()
	cfg.Port = ""
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for empty port")
	}

	cfg = base()
	cfg.RateLimitPerIP = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for zero rate limit")
	}

	cfg = base()
	cfg.RateLimitEnabled = false
	cfg.RateLimitPerIP = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("Rate limit bounds should not apply when disabled: %v", err)
	}

	cfg = base()
	cfg.SearchBaseURL = ""
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for empty search base URL")
	}
}
