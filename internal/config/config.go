// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings (serve mode)
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// Content directory holding the .md pages served in serve mode.
	ContentDir string

	// Valkey (Redis-compatible cache). Optional: an empty host disables
	// the L2 page cache.
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// Remote plugin directory index URL. Optional.
	PluginDirURL string

	// Conversion settings
	HighlightStyle string
	PrettyHTML     bool

	// Rate limiting (requests per window, serve mode)
	RateLimit       int
	RateLimitWindow int // seconds
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing or malformed.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		ContentDir: envOrDefault("CONTENT_DIR", "content"),

		ValkeyHost:     os.Getenv("VALKEY_HOST"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		PluginDirURL: os.Getenv("PLUGIN_DIR_URL"),

		HighlightStyle: envOrDefault("HIGHLIGHT_STYLE", "monokai"),
		PrettyHTML:     envBool("PRETTY_HTML", true),
	}

	var err error
	if cfg.RateLimit, err = envInt("RATE_LIMIT", 120); err != nil {
		return nil, err
	}
	if cfg.RateLimitWindow, err = envInt("RATE_LIMIT_WINDOW", 60); err != nil {
		return nil, err
	}

	if cfg.Env == "production" {
		if _, err := os.Stat(cfg.ContentDir); err != nil {
			return nil, fmt.Errorf("CONTENT_DIR %q must exist in production: %w", cfg.ContentDir, err)
		}
	}

	return cfg, nil
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// ValkeyAddr returns the Valkey address (host:port).
func (c *Config) ValkeyAddr() string {
	return fmt.Sprintf("%s:%s", c.ValkeyHost, c.ValkeyPort)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// CacheEnabled reports whether the Valkey L2 page cache is configured.
func (c *Config) CacheEnabled() bool {
	return c.ValkeyHost != ""
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envBool reads a boolean environment variable, tolerating any value
// strconv.ParseBool accepts.
func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// envInt reads an integer environment variable, failing loudly on junk so
// a typo does not silently change limits.
func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}
