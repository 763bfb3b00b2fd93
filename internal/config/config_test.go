package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allConfigKeys lists every TACTICUSPANEL_ env var that Load() reads.
var allConfigKeys = []string{
	"TACTICUSPANEL_LISTEN_ADDR",
	"TACTICUSPANEL_DB_PATH",
	"TACTICUSPANEL_API_BASE_URL",
	"TACTICUSPANEL_REQUEST_TIMEOUT",
	"TACTICUSPANEL_SECRET_KEY",
}

// isolateConfigEnv saves and unsets all TACTICUSPANEL_ env vars so tests
// don't inherit values from the host environment (e.g. a running dev server).
// t.Cleanup restores original values after the test.
func isolateConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range allConfigKeys {
		if orig, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, orig) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolateConfigEnv(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", cfg.ListenAddr)
	assert.Equal(t, "tacticuspanel.db", cfg.DBPath)
	assert.Equal(t, "https://api.tacticusgame.com/api/v1/", cfg.APIBaseURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Len(t, cfg.SecretKey, 32)
	assert.True(t, cfg.SecretKeyEphemeral)
}

func TestLoad_Overrides(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("TACTICUSPANEL_LISTEN_ADDR", "0.0.0.0:9090")
	t.Setenv("TACTICUSPANEL_DB_PATH", "/tmp/test.db")
	t.Setenv("TACTICUSPANEL_API_BASE_URL", "http://localhost:4000/api/v1/")
	t.Setenv("TACTICUSPANEL_REQUEST_TIMEOUT", "10s")
	t.Setenv("TACTICUSPANEL_SECRET_KEY", strings.Repeat("ab", 32))

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9090", cfg.ListenAddr)
	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
	assert.Equal(t, "http://localhost:4000/api/v1/", cfg.APIBaseURL)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Len(t, cfg.SecretKey, 32)
	assert.False(t, cfg.SecretKeyEphemeral)
}

func TestLoad_InvalidTimeout(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("TACTICUSPANEL_REQUEST_TIMEOUT", "not-a-duration")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "TACTICUSPANEL_REQUEST_TIMEOUT")
}

func TestLoad_NonPositiveTimeout(t *testing.T) {
	isolateConfigEnv(t)

	// A zero or negative value would disable the HTTP client timeout
	// entirely, so it is rejected rather than passed through.
	for _, v := range []string{"0s", "-5s"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("TACTICUSPANEL_REQUEST_TIMEOUT", v)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "must be positive")
		})
	}
}

func TestLoad_InvalidSecretKey(t *testing.T) {
	isolateConfigEnv(t)

	t.Run("not hex", func(t *testing.T) {
		t.Setenv("TACTICUSPANEL_SECRET_KEY", "zzzz")
		_, err := Load()
		require.Error(t, err)
	})

	t.Run("wrong length", func(t *testing.T) {
		t.Setenv("TACTICUSPANEL_SECRET_KEY", "abcd")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "32 bytes")
	})
}
