package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORTAL_PORT", "")
	t.Setenv("PORTAL_CONFIG_CACHE_TTL", "")
	t.Setenv("PORTAL_GATEWAY_TEST_MODE", "")
	t.Setenv("PORTAL_HTTP_TIMEOUT", "")

	cfg := Load()
	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, 5*time.Minute, cfg.ConfigCacheTTL)
	assert.True(t, cfg.GatewayTestMode, "test mode is on by default")
	assert.Zero(t, cfg.HTTPTimeout, "no client timeout by default")
}

func TestReadDuration(t *testing.T) {
	t.Setenv("PORTAL_CONFIG_CACHE_TTL", "90")
	assert.Equal(t, 90*time.Second, readDuration("PORTAL_CONFIG_CACHE_TTL", time.Minute))

	t.Setenv("PORTAL_CONFIG_CACHE_TTL", "2m")
	assert.Equal(t, 2*time.Minute, readDuration("PORTAL_CONFIG_CACHE_TTL", time.Minute))

	t.Setenv("PORTAL_CONFIG_CACHE_TTL", "soon")
	assert.Equal(t, time.Minute, readDuration("PORTAL_CONFIG_CACHE_TTL", time.Minute))
}

func TestReadBool(t *testing.T) {
	t.Setenv("PORTAL_GATEWAY_TEST_MODE", "false")
	assert.False(t, readBool("PORTAL_GATEWAY_TEST_MODE", true))

	t.Setenv("PORTAL_GATEWAY_TEST_MODE", "maybe")
	assert.True(t, readBool("PORTAL_GATEWAY_TEST_MODE", true))
}
