package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/azcart/storefront-client/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AZCART_BASE_URL", "")
	t.Setenv("AZCART_SESSION_FILE", "")

	c, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080", c.BaseURL)
	require.Equal(t, 15*time.Second, c.Timeout)
	require.NotEmpty(t, c.SessionFile)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("AZCART_BASE_URL", "https://shop.example.com")
	t.Setenv("AZCART_TIMEOUT", "3s")
	t.Setenv("AZCART_SESSION_FILE", "/tmp/azcart-session.json")
	t.Setenv("AZCART_ENV", "DEV")

	c, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, "https://shop.example.com", c.BaseURL)
	require.Equal(t, 3*time.Second, c.Timeout)
	require.Equal(t, "/tmp/azcart-session.json", c.SessionFile)
	require.Equal(t, "DEV", c.Env)
}
