/*
Package configs is responsible for loading and parsing the application's configuration settings.

It configures the chat client by reading operating system environment variables,
including the running environment, the remote server base URL, the feed polling
interval, and the locations of the token and log files.
*/
package configs

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// AppConfig contains all configuration parameters required for the client to run.
// All configuration values are loaded from environment variables.
type AppConfig struct {
	// General Settings
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	// ServerURL is the base URL of the remote chat service, e.g. "http://localhost:8000".
	ServerURL string `env:"GCHAT_SERVER_URL"`

	// PollInterval is the fixed cadence of feed synchronization.
	PollInterval time.Duration `env:"GCHAT_POLL_INTERVAL" envDefault:"4s"`

	// RequestTimeout bounds every individual request to the server.
	RequestTimeout time.Duration `env:"GCHAT_REQUEST_TIMEOUT" envDefault:"10s"`

	// TokenFile is the path of the persisted credential. Empty means the
	// default location under the user config directory.
	TokenFile string `env:"GCHAT_TOKEN_FILE"`

	// LogFile is the path of the client log. Empty means the default
	// location under the user config directory.
	LogFile string `env:"GCHAT_LOG_FILE"`
}

// appDirName is the directory created under os.UserConfigDir for client state.
const appDirName = "gchat"

// LoadConfig reads and parses the application configuration from environment variables.
// It binds the AppConfig struct via struct tags, fills in derived defaults for the
// token and log file locations, and validates the result.
// It returns a pointer to the AppConfig struct and any error encountered.
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment configuration: %w", err)
	}

	// ServerURL
	if cfg.ServerURL == "" {
		if cfg.Environment == "development" {
			cfg.ServerURL = "http://localhost:8000"
		} else {
			return nil, fmt.Errorf("GCHAT_SERVER_URL environment variable is required in %s environment", cfg.Environment)
		}
	}

	parsed, err := url.Parse(cfg.ServerURL)
	if err != nil || !parsed.IsAbs() || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, fmt.Errorf("GCHAT_SERVER_URL %q is not an absolute http(s) URL", cfg.ServerURL)
	}
	cfg.ServerURL = strings.TrimSuffix(cfg.ServerURL, "/")

	// PollInterval
	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("GCHAT_POLL_INTERVAL must be positive, got %s", cfg.PollInterval)
	}

	// RequestTimeout
	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("GCHAT_REQUEST_TIMEOUT must be positive, got %s", cfg.RequestTimeout)
	}

	// Token and log file defaults live under the user config directory.
	if cfg.TokenFile == "" {
		cfg.TokenFile = defaultStatePath("token")
	}
	if cfg.LogFile == "" {
		cfg.LogFile = defaultStatePath("client.log")
	}

	return cfg, nil
}

// defaultStatePath returns the default location of a client state file.
// If the user config directory cannot be resolved, it falls back to the
// current working directory so the client can still start.
func defaultStatePath(name string) string {
	base, err := os.UserConfigDir()
	if err != nil {
		return name
	}
	return filepath.Join(base, appDirName, name)
}
