package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CRM_API_BASE_URL", "")
	t.Setenv("CRM_CHAT_TOKEN", "")
	t.Setenv("CRM_HTTP_TIMEOUT_SECONDS", "")
	t.Setenv("CRM_LOG_FILE", "")
	t.Setenv("CRM_DEBUG", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5001", cfg.APIBaseURL)
	assert.Empty(t, cfg.ChatToken)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "./crm-tui.log", cfg.LogFile)
	assert.False(t, cfg.Debug)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("CRM_API_BASE_URL", "https://crm.example.com")
	t.Setenv("CRM_CHAT_TOKEN", "secret")
	t.Setenv("CRM_HTTP_TIMEOUT_SECONDS", "5")
	t.Setenv("CRM_LOG_FILE", "/tmp/crm.log")
	t.Setenv("CRM_DEBUG", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://crm.example.com", cfg.APIBaseURL)
	assert.Equal(t, "secret", cfg.ChatToken)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "/tmp/crm.log", cfg.LogFile)
	assert.True(t, cfg.Debug)
}

func TestLoadNonPositiveTimeoutFallsBack(t *testing.T) {
	t.Setenv("CRM_API_BASE_URL", "")
	t.Setenv("CRM_LOG_FILE", "")
	t.Setenv("CRM_HTTP_TIMEOUT_SECONDS", "-1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
}

func TestValidateRejectsNonHTTPBaseURL(t *testing.T) {
	cfg := &Config{APIBaseURL: "ftp://example.com", LogFile: "x.log"}
	assert.Error(t, cfg.Validate())

	cfg.APIBaseURL = "http://example.com"
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsEmptyFields(t *testing.T) {
	assert.Error(t, (&Config{APIBaseURL: "", LogFile: "x.log"}).Validate())
	assert.Error(t, (&Config{APIBaseURL: "http://x", LogFile: " "}).Validate())
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("CRM_TEST_FLAG", "yes")
	assert.True(t, getEnvBool("CRM_TEST_FLAG", false))

	t.Setenv("CRM_TEST_FLAG", "off")
	assert.False(t, getEnvBool("CRM_TEST_FLAG", true))

	t.Setenv("CRM_TEST_FLAG", "maybe")
	assert.True(t, getEnvBool("CRM_TEST_FLAG", true))
}
