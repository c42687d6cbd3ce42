package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "https://www.cbr.ru/scripts/XML_daily.asp", cfg.CBR.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.CBR.Timeout)
	assert.Equal(t, uint64(3), cfg.CBR.RetryAttempts)
	assert.Equal(t, 2*time.Second, cfg.CBR.RetryDelay)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "8081")
	t.Setenv("CBR_BASE_URL", "http://localhost:9999/daily.asp")
	t.Setenv("CBR_RETRY_DELAY", "50ms")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "http://localhost:9999/daily.asp", cfg.CBR.BaseURL)
	assert.Equal(t, 50*time.Millisecond, cfg.CBR.RetryDelay)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfigInvalidValuesFallBack(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-port")
	t.Setenv("CBR_TIMEOUT", "soon")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.CBR.Timeout)
}
