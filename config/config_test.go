package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	cfg := Load()

	assert.Equal(t, "8003", cfg.AppPort)
	assert.Equal(t, "sections", cfg.DBName)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, "section-service", cfg.ConsulServiceName)
	assert.Equal(t, "section-service-1", cfg.ConsulServiceID)
	assert.Equal(t, 8003, cfg.ServicePort)
	assert.Equal(t, "file-service", cfg.FileServiceName)
	assert.Equal(t, 5, cfg.FileServiceTimeoutSec)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestEnvOverrides(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	t.Setenv("APP_PORT", "9100")
	t.Setenv("DB_NAME", "forum_sections")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "30")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("CONSUL_ADDRESS", "consul:8500")
	t.Setenv("FILE_SERVICE_TIMEOUT_SEC", "2")

	cfg := Load()

	assert.Equal(t, "9100", cfg.AppPort)
	assert.Equal(t, "forum_sections", cfg.DBName)
	assert.Equal(t, 30, cfg.RateLimitPerMinute)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, "consul:8500", cfg.ConsulAddress)
	assert.Equal(t, 2, cfg.FileServiceTimeoutSec)
}

func TestGetCachesLoadedConfig(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	first := Load()
	t.Setenv("APP_PORT", "9999")
	second := Get()

	// Get never re-reads the environment once loaded
	assert.Equal(t, first.AppPort, second.AppPort)
}
