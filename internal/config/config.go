// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration. The chat token is kept in
// memory only; nothing here is persisted by the client.
type Config struct {
	APIBaseURL  string
	ChatToken   string
	HTTPTimeout time.Duration
	LogFile     string
	Debug       bool
}

// Load reads configuration from a .env file (when present) and the
// environment.
func Load() (*Config, error) {
	// Missing .env is fine; the environment alone is enough.
	_ = godotenv.Load()

	timeoutSeconds := getEnvInt("CRM_HTTP_TIMEOUT_SECONDS", 30)
	if timeoutSeconds <= 0 {
		timeoutSeconds = 30
	}

	cfg := &Config{
		APIBaseURL:  getEnv("CRM_API_BASE_URL", "http://localhost:5001"),
		ChatToken:   getEnv("CRM_CHAT_TOKEN", ""),
		HTTPTimeout: time.Duration(timeoutSeconds) * time.Second,
		LogFile:     getEnv("CRM_LOG_FILE", "./crm-tui.log"),
		Debug:       getEnvBool("CRM_DEBUG", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIBaseURL) == "" {
		return fmt.Errorf("CRM_API_BASE_URL cannot be empty")
	}
	if !strings.HasPrefix(c.APIBaseURL, "http://") && !strings.HasPrefix(c.APIBaseURL, "https://") {
		return fmt.Errorf("CRM_API_BASE_URL must be an http(s) URL")
	}
	if strings.TrimSpace(c.LogFile) == "" {
		return fmt.Errorf("CRM_LOG_FILE cannot be empty")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
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
