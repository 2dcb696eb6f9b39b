package configs

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// setBaseEnv pins every configuration variable so values leaking in from the
// host environment cannot influence a test.
func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("GCHAT_SERVER_URL", "http://localhost:8000")
	t.Setenv("GCHAT_POLL_INTERVAL", "4s")
	t.Setenv("GCHAT_REQUEST_TIMEOUT", "10s")
	t.Setenv("GCHAT_TOKEN_FILE", filepath.Join(t.TempDir(), "token"))
	t.Setenv("GCHAT_LOG_FILE", filepath.Join(t.TempDir(), "client.log"))
}

func TestLoadConfig_Defaults(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("GCHAT_POLL_INTERVAL", "")
	t.Setenv("GCHAT_REQUEST_TIMEOUT", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "development", cfg.Environment)
	require.Equal(t, 4*time.Second, cfg.PollInterval)
	require.Equal(t, 10*time.Second, cfg.RequestTimeout)
}

func TestLoadConfig_TrimsTrailingSlash(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("GCHAT_SERVER_URL", "https://chat.example.com/")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "https://chat.example.com", cfg.ServerURL)
}

func TestLoadConfig_ServerURLRequiredOutsideDevelopment(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("GCHAT_SERVER_URL", "")

	_, err := LoadConfig()
	require.Error(t, err)
	require.Contains(t, err.Error(), "GCHAT_SERVER_URL")
}

func TestLoadConfig_RejectsRelativeServerURL(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("GCHAT_SERVER_URL", "chat.example.com")

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestLoadConfig_RejectsNonHTTPScheme(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("GCHAT_SERVER_URL", "ftp://chat.example.com")

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestLoadConfig_RejectsNonPositiveInterval(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("GCHAT_POLL_INTERVAL", "-4s")

	_, err := LoadConfig()
	require.Error(t, err)
	require.Contains(t, err.Error(), "GCHAT_POLL_INTERVAL")
}

func TestLoadConfig_RejectsNonPositiveTimeout(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("GCHAT_REQUEST_TIMEOUT", "0s")

	_, err := LoadConfig()
	require.Error(t, err)
	require.Contains(t, err.Error(), "GCHAT_REQUEST_TIMEOUT")
}

func TestLoadConfig_HonorsStateFileOverrides(t *testing.T) {
	setBaseEnv(t)
	tokenPath := filepath.Join(t.TempDir(), "custom", "token")
	t.Setenv("GCHAT_TOKEN_FILE", tokenPath)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, tokenPath, cfg.TokenFile)
}
