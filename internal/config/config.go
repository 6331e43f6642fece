// Package config provides application configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port        string
	FrontendURL string
	DBPath      string
	DefaultLang string
	Explain     ExplainConfig
	RateLimit   RateLimitConfig
	Retention   RetentionConfig
}

// ExplainConfig selects and tunes the explanation backend. Addr takes
// precedence over APIKey: when set, explanations go to the gRPC sidecar.
type ExplainConfig struct {
	APIKey  string
	Model   string
	Addr    string
	Listen  string
	Timeout time.Duration
}

// RateLimitConfig bounds explanation requests per user.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// RetentionConfig controls pruning of history and cached explanations.
type RetentionConfig struct {
	History  time.Duration
	Interval time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	apiKey := getEnv("GEMINI_API_KEY", "")
	if apiKey == "" {
		apiKey = getEnv("API_KEY", "")
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", ""),
		DBPath:      getEnv("DB_PATH", "./data/quadlab.db"),
		DefaultLang: getEnv("DEFAULT_LANG", "vi"),
		Explain: ExplainConfig{
			APIKey:  apiKey,
			Model:   getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			Addr:    getEnv("EXPLAINER_ADDR", ""),
			Listen:  getEnv("EXPLAINER_LISTEN", ":50051"),
			Timeout: getEnvDuration("EXPLAIN_TIMEOUT", 60*time.Second),
		},
		RateLimit: RateLimitConfig{
			Requests: getEnvInt("RATE_LIMIT_REQUESTS", 10),
			Window:   getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
		Retention: RetentionConfig{
			History:  getEnvDuration("HISTORY_RETENTION", 30*24*time.Hour),
			Interval: getEnvDuration("RETENTION_INTERVAL", time.Hour),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return errors.New("DB_PATH cannot be empty")
	}
	if c.Explain.Timeout <= 0 {
		return errors.New("EXPLAIN_TIMEOUT must be > 0")
	}
	if c.RateLimit.Requests <= 0 {
		return errors.New("RATE_LIMIT_REQUESTS must be > 0")
	}
	if c.RateLimit.Window <= 0 {
		return errors.New("RATE_LIMIT_WINDOW must be > 0")
	}
	if c.Retention.History <= 0 {
		return errors.New("HISTORY_RETENTION must be > 0")
	}
	if c.Retention.Interval <= 0 {
		return errors.New("RETENTION_INTERVAL must be > 0")
	}
	return nil
}

// AIEnabled reports whether any explanation backend is configured.
func (c *Config) AIEnabled() bool {
	return c.Explain.Addr != "" || c.Explain.APIKey != ""
}

// AllowedOrigins returns the CORS origins. Development allows any origin.
func (c *Config) AllowedOrigins() []string {
	if c.IsDevelopment() {
		return []string{"*"}
	}
	return []string{strings.TrimRight(c.FrontendURL, "/")}
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}
