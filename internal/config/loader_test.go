package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	config, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", config.LogLevel)
	assert.Equal(t, "http://localhost:8080", config.API.URL)
	assert.Equal(t, 30000, config.API.Timeout)
	assert.Equal(t, 5, config.Refresh.IntervalSeconds)
	assert.True(t, config.Refresh.Enabled)
	assert.False(t, config.Cache.Enabled)
	assert.Equal(t, 5*time.Second, config.Refresh.Interval())
}

func TestMiradorURLOverride(t *testing.T) {
	os.Setenv("MIRADOR_URL", "https://mirador.internal:9443/")
	defer os.Unsetenv("MIRADOR_URL")

	config, err := Load()
	require.NoError(t, err)

	// Trailing slash is stripped so path joining stays predictable.
	assert.Equal(t, "https://mirador.internal:9443", config.API.URL)
}

func TestEnvVarPrecedence(t *testing.T) {
	os.Setenv("MIRADOR_HTTPTOP_LOG_LEVEL", "debug")
	os.Setenv("MIRADOR_HTTPTOP_REFRESH_INTERVAL_SECONDS", "10")
	defer func() {
		os.Unsetenv("MIRADOR_HTTPTOP_LOG_LEVEL")
		os.Unsetenv("MIRADOR_HTTPTOP_REFRESH_INTERVAL_SECONDS")
	}()

	config, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", config.LogLevel)
	assert.Equal(t, 10, config.Refresh.IntervalSeconds)
}

func TestValidation(t *testing.T) {
	t.Run("relative api url rejected", func(t *testing.T) {
		os.Setenv("MIRADOR_URL", "not-a-url")
		defer os.Unsetenv("MIRADOR_URL")

		_, err := Load()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "absolute URL")
	})

	t.Run("bad log level rejected", func(t *testing.T) {
		os.Setenv("MIRADOR_HTTPTOP_LOG_LEVEL", "verbose")
		defer os.Unsetenv("MIRADOR_HTTPTOP_LOG_LEVEL")

		_, err := Load()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}
