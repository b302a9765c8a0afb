package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"github.com/mailmemories/mail-memories/internal/localstate"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Config holds the configuration for the memories service.
// Environment variables are parsed from the MAIL_MEMORIES_ prefix.
type Config struct {
	// Build target selects high-level environment: local, cloud-dev, cloud
	BuildTarget string `envconfig:"BUILD_TARGET" default:"local"`

	// Derived or override driver for the credential store
	DBDriver string `envconfig:"DB_DRIVER" default:"auto"`

	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Postgres Configuration (cloud targets)
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`

	// SQLite Configuration (local target; derived from the data dir when empty)
	SQLitePath string `envconfig:"SQLITE_PATH" default:""`

	// Google OAuth client credentials. Both are required for token refresh;
	// their absence is never a startup error, it only makes refresh soft-fail.
	GoogleClientID     string `envconfig:"GOOGLE_CLIENT_ID" default:""`
	GoogleClientSecret string `envconfig:"GOOGLE_CLIENT_SECRET" default:""`

	// Provider endpoints, overridable for tests
	GmailBaseURL   string `envconfig:"GMAIL_BASE_URL" default:"https://gmail.googleapis.com"`
	GoogleTokenURL string `envconfig:"GOOGLE_TOKEN_URL" default:"https://oauth2.googleapis.com/token"`

	// Per-call timeout for provider requests, seconds
	ProviderTimeoutSeconds int `envconfig:"PROVIDER_TIMEOUT_SECONDS" default:"20"`

	// Health monitoring
	HealthIntervalSeconds     int `envconfig:"HEALTH_INTERVAL_SECONDS" default:"30"`
	HealthProbeTimeoutSeconds int `envconfig:"HEALTH_PROBE_TIMEOUT_SECONDS" default:"2"`
}

// ResolveDefaults validates BuildTarget and derives DBDriver and the SQLite
// path when left at "auto" or empty.
func (c *Config) ResolveDefaults() error {
	var defaultDB string

	switch c.BuildTarget {
	case "local":
		defaultDB = "sqlite"
	case "cloud-dev", "cloud":
		defaultDB = "postgres"
	default:
		return fmt.Errorf("unsupported BUILD_TARGET: %s", c.BuildTarget)
	}

	if c.DBDriver == "" || c.DBDriver == "auto" {
		c.DBDriver = defaultDB
	}

	allowedDB := map[string]bool{"postgres": true, "sqlite": true}
	if !allowedDB[c.DBDriver] {
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}

	if c.DBDriver == "sqlite" && c.SQLitePath == "" {
		path, err := localstate.DBPath()
		if err != nil {
			return fmt.Errorf("derive sqlite path: %w", err)
		}
		c.SQLitePath = path
	}
	return nil
}

// New creates a new Config by parsing environment variables.
// Example: MAIL_MEMORIES_HTTP_PORT, MAIL_MEMORIES_GOOGLE_CLIENT_ID.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("MAIL_MEMORIES", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsTesting returns true if the environment is set to testing
func (c *Config) IsTesting() bool {
	return c.Environment == EnvTesting
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
