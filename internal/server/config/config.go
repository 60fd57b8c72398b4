// Package config handles configuration for the server component,
// including defaults, JSON overlay, environment variables and command-line
// flags, followed by a validation pass.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/backoffice/internal/common"
	"github.com/dmitrijs2005/backoffice/internal/cryptox"
)

// Config holds runtime settings for the back-office server. It is built once
// at startup and treated as read-only afterwards.
//
// Fields:
//   - Environment: "development" or "production"; drives cookie security and log format.
//   - EndpointAddrHTTP / EndpointAddrGRPC: bind addresses.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty selects the in-memory user store.
//   - AccessTokenSecret / RefreshTokenSecret: independent HMAC secrets.
//   - AccessTokenExpiresIn / RefreshTokenExpiresIn: token lifetimes.
//   - CookieSecret: exactly 32 bytes, AES-256 key for sealing cookie values.
type Config struct {
	Environment           string
	EndpointAddrHTTP      string
	EndpointAddrGRPC      string
	DatabaseDSN           string
	AccessTokenSecret     string
	RefreshTokenSecret    string
	AccessTokenExpiresIn  time.Duration
	RefreshTokenExpiresIn time.Duration
	CookieSecret          string
}

// LoadDefaults populates Config with development defaults.
// NOTE: the secrets are public and must be overridden in production.
func (c *Config) LoadDefaults() {
	c.Environment = common.EnvDevelopment
	c.EndpointAddrHTTP = ":8080"
	c.EndpointAddrGRPC = ":50051"
	c.DatabaseDSN = ""
	c.AccessTokenSecret = "dev-access-secret"
	c.RefreshTokenSecret = "dev-refresh-secret"
	c.AccessTokenExpiresIn = time.Hour
	c.RefreshTokenExpiresIn = 24 * time.Hour
	c.CookieSecret = "0123456789abcdef0123456789abcdef"
}

// IsProduction reports whether the server runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Environment == common.EnvProduction
}

// Validate checks the invariants the auth core relies on. A failure here is
// meant to stop the process.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != common.EnvDevelopment && c.Environment != common.EnvProduction {
		errs = append(errs, fmt.Errorf("environment must be %q or %q, got %q", common.EnvDevelopment, common.EnvProduction, c.Environment))
	}
	if c.EndpointAddrHTTP == "" {
		errs = append(errs, errors.New("http address is required"))
	}
	if c.AccessTokenSecret == "" {
		errs = append(errs, errors.New("access token secret is required"))
	}
	if c.RefreshTokenSecret == "" {
		errs = append(errs, errors.New("refresh token secret is required"))
	}
	if c.AccessTokenExpiresIn <= 0 {
		errs = append(errs, errors.New("access token expiry must be positive"))
	}
	if c.RefreshTokenExpiresIn <= 0 {
		errs = append(errs, errors.New("refresh token expiry must be positive"))
	}
	if len(c.CookieSecret) != cryptox.KeySize {
		errs = append(errs, fmt.Errorf("cookie secret must be exactly %d characters, got %d", cryptox.KeySize, len(c.CookieSecret)))
	}

	return errors.Join(errs...)
}

// LoadConfig builds a Config from os.Args and the process environment.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJSON(cfg, args); err != nil {
		return nil, fmt.Errorf("json config: %w", err)
	}
	if err := parseEnv(cfg); err != nil {
		return nil, fmt.Errorf("env config: %w", err)
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
