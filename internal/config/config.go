// Package config resolves client settings from dotenv files, the environment and flags.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// AppName is the application name.
	AppName = "taskclient"

	// DefaultBaseURL is the backend used when nothing else is configured.
	DefaultBaseURL = "http://127.0.0.1:8000"

	// DefaultTimeout bounds each backend request.
	DefaultTimeout = 10 * time.Second

	// DefaultEnvFile is loaded from the working directory when present.
	DefaultEnvFile = ".env"
)

// Environment variable names.
const (
	EnvBaseURL  = "TASKCLIENT_BASE_URL"
	EnvTimeout  = "TASKCLIENT_TIMEOUT"
	EnvUsername = "TASKCLIENT_USERNAME"
	EnvPassword = "TASKCLIENT_PASSWORD"
)

// Config holds client settings.
type Config struct {
	// BaseURL is the backend root, without a trailing slash.
	BaseURL string

	// Timeout bounds each backend request.
	Timeout time.Duration

	// Username and Password are the credentials used by commands that
	// need a session. The session itself is never persisted.
	Username string
	Password string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// New creates a Config from defaults and the environment.
// If envFile is empty, .env in the working directory is loaded when it
// exists; an explicit envFile must exist. Variables already set in the
// process environment win over dotenv values.
func New(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	} else if _, err := os.Stat(DefaultEnvFile); err == nil {
		if err := godotenv.Load(DefaultEnvFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", DefaultEnvFile, err)
		}
	}

	cfg := &Config{
		BaseURL:  DefaultBaseURL,
		Timeout:  DefaultTimeout,
		Username: os.Getenv(EnvUsername),
		Password: os.Getenv(EnvPassword),
	}

	if v := os.Getenv(EnvBaseURL); v != "" {
		if err := cfg.SetBaseURL(v); err != nil {
			return nil, err
		}
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid %s: %s", EnvTimeout, v)
		}
		cfg.Timeout = d
	}

	return cfg, nil
}

// SetBaseURL validates and stores the backend base URL.
func (c *Config) SetBaseURL(raw string) error {
	raw = strings.TrimRight(strings.TrimSpace(raw), "/")
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base url: %s", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base url: %s", raw)
	}
	c.BaseURL = raw
	return nil
}

// ErrNoCredentials is returned when a command needs a session but no
// username or password is configured.
var ErrNoCredentials = errors.New("credentials required (use --user/--password or " + EnvUsername + "/" + EnvPassword + ")")

// HasCredentials checks if both username and password are set.
func (c *Config) HasCredentials() bool {
	return c.Username != "" && c.Password != ""
}
