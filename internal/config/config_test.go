package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_PATH", "GEMINI_API_KEY", "API_KEY", "EXPLAINER_ADDR", "FRONTEND_URL"} {
		t.Setenv(k, "")
	}
	t.Setenv("PORT", "8080")
	t.Setenv("DB_PATH", "./data/quadlab.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Explain.Model != "gemini-2.5-flash" {
		t.Errorf("model = %q", cfg.Explain.Model)
	}
	if cfg.AIEnabled() {
		t.Error("AI should be disabled without key or sidecar")
	}
	if !cfg.IsDevelopment() {
		t.Error("empty FRONTEND_URL should be development")
	}
	if got := cfg.AllowedOrigins(); len(got) != 1 || got[0] != "*" {
		t.Errorf("origins = %v", got)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "legacy-key")
	t.Setenv("EXPLAIN_TIMEOUT", "15s")
	t.Setenv("RATE_LIMIT_REQUESTS", "3")
	t.Setenv("RATE_LIMIT_WINDOW", "not-a-duration")
	t.Setenv("FRONTEND_URL", "https://quad.example/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Explain.APIKey != "legacy-key" || !cfg.AIEnabled() {
		t.Errorf("api key = %q", cfg.Explain.APIKey)
	}
	if cfg.Explain.Timeout != 15*time.Second {
		t.Errorf("timeout = %v", cfg.Explain.Timeout)
	}
	if cfg.RateLimit.Requests != 3 || cfg.RateLimit.Window != time.Minute {
		t.Errorf("rate limit = %+v", cfg.RateLimit)
	}
	if got := cfg.AllowedOrigins(); got[0] != "https://quad.example" {
		t.Errorf("origins = %v", got)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("RATE_LIMIT_REQUESTS", "0")
	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "RATE_LIMIT_REQUESTS") {
		t.Errorf("err = %v", err)
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Port:      "8080",
		DBPath:    "x.db",
		Explain:   ExplainConfig{Timeout: time.Second},
		RateLimit: RateLimitConfig{Requests: 1, Window: time.Second},
		Retention: RetentionConfig{History: time.Hour, Interval: time.Minute},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	cfg.DBPath = ""
	if err := cfg.Validate(); err == nil {
		t.Error("empty DB_PATH accepted")
	}
}
