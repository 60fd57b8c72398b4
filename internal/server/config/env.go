package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/dmitrijs2005/backoffice/internal/timex"
)

// envConfig lists the environment variables understood by the server.
// Durations are kept as strings so they go through the same strict parser
// as flags.
type envConfig struct {
	Environment           string `env:"APP_ENV"`
	EndpointAddrHTTP      string `env:"HTTP_ADDRESS"`
	EndpointAddrGRPC      string `env:"GRPC_ADDRESS"`
	DatabaseDSN           string `env:"DATABASE_DSN"`
	AccessTokenSecret     string `env:"ACCESS_TOKEN_SECRET"`
	RefreshTokenSecret    string `env:"REFRESH_TOKEN_SECRET"`
	AccessTokenExpiresIn  string `env:"ACCESS_TOKEN_EXPIRES_IN"`
	RefreshTokenExpiresIn string `env:"REFRESH_TOKEN_EXPIRES_IN"`
	CookieSecret          string `env:"COOKIE_SECRET"`
}

func parseEnv(config *Config) error {
	var c envConfig
	if err := env.Parse(&c); err != nil {
		return err
	}

	setString(&config.Environment, c.Environment)
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.AccessTokenSecret, c.AccessTokenSecret)
	setString(&config.RefreshTokenSecret, c.RefreshTokenSecret)
	setString(&config.CookieSecret, c.CookieSecret)

	if err := setDuration(&config.AccessTokenExpiresIn, c.AccessTokenExpiresIn); err != nil {
		return fmt.Errorf("ACCESS_TOKEN_EXPIRES_IN: %w", err)
	}
	if err := setDuration(&config.RefreshTokenExpiresIn, c.RefreshTokenExpiresIn); err != nil {
		return fmt.Errorf("REFRESH_TOKEN_EXPIRES_IN: %w", err)
	}
	return nil
}

func setDuration(dst *time.Duration, v string) error {
	if v == "" {
		return nil
	}
	d, err := timex.ParseConfigDuration(v)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}
