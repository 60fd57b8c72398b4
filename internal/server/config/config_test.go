package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"APP_ENV", "HTTP_ADDRESS", "GRPC_ADDRESS", "DATABASE_DSN",
	"ACCESS_TOKEN_SECRET", "REFRESH_TOKEN_SECRET",
	"ACCESS_TOKEN_EXPIRES_IN", "REFRESH_TOKEN_EXPIRES_IN", "COOKIE_SECRET",
}

// clearEnv blanks every variable parseEnv reads; blank means "not set".
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "development", c.Environment)
	assert.Equal(t, ":8080", c.EndpointAddrHTTP)
	assert.Equal(t, ":50051", c.EndpointAddrGRPC)
	assert.Equal(t, "", c.DatabaseDSN)
	assert.Equal(t, time.Hour, c.AccessTokenExpiresIn)
	assert.Equal(t, 24*time.Hour, c.RefreshTokenExpiresIn)
	assert.Len(t, c.CookieSecret, 32)
	assert.NoError(t, c.Validate())
	assert.False(t, c.IsProduction())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"unknown environment", func(c *Config) { c.Environment = "staging" }, "environment"},
		{"missing access secret", func(c *Config) { c.AccessTokenSecret = "" }, "access token secret"},
		{"missing refresh secret", func(c *Config) { c.RefreshTokenSecret = "" }, "refresh token secret"},
		{"zero access expiry", func(c *Config) { c.AccessTokenExpiresIn = 0 }, "access token expiry"},
		{"negative refresh expiry", func(c *Config) { c.RefreshTokenExpiresIn = -time.Minute }, "refresh token expiry"},
		{"short cookie secret", func(c *Config) { c.CookieSecret = "short" }, "exactly 32"},
		{"long cookie secret", func(c *Config) { c.CookieSecret = strings.Repeat("x", 33) }, "exactly 32"},
		{"missing http address", func(c *Config) { c.EndpointAddrHTTP = "" }, "http address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.LoadDefaults()
			tt.mutate(&c)

			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	c := Config{Environment: "development", EndpointAddrHTTP: ":1"}
	err := c.Validate()
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "access token secret")
	assert.Contains(t, msg, "refresh token secret")
	assert.Contains(t, msg, "cookie secret")
}

func TestLoad_DefaultsWithoutSources(t *testing.T) {
	clearEnv(t)

	c, err := load(nil)
	require.NoError(t, err)

	var want Config
	want.LoadDefaults()
	assert.Equal(t, &want, c)
}

func TestLoad_Precedence(t *testing.T) {
	clearEnv(t)

	path := writeTempJSON(t, map[string]any{
		"endpoint_addr_http":      ":7000",
		"access_token_secret":     "from-json",
		"access_token_expires_in": "15m",
	})
	t.Setenv("ACCESS_TOKEN_SECRET", "from-env")
	t.Setenv("REFRESH_TOKEN_EXPIRES_IN", "7d")

	c, err := load([]string{"-c", path, "-a", ":9000"})
	require.NoError(t, err)

	assert.Equal(t, ":9000", c.EndpointAddrHTTP, "flag beats json")
	assert.Equal(t, "from-env", c.AccessTokenSecret, "env beats json")
	assert.Equal(t, 15*time.Minute, c.AccessTokenExpiresIn)
	assert.Equal(t, 7*24*time.Hour, c.RefreshTokenExpiresIn)
}

func TestLoad_InvalidIsFatal(t *testing.T) {
	clearEnv(t)

	_, err := load([]string{"-k", "not-32-bytes"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")

	_, err = load([]string{"-t", "10s"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flags")

	t.Setenv("REFRESH_TOKEN_EXPIRES_IN", "soon")
	_, err = load(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REFRESH_TOKEN_EXPIRES_IN")
}
