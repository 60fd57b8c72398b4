package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/backoffice/internal/flagx"
	"github.com/dmitrijs2005/backoffice/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations use
// timex.Duration, so "15m", "1h" and "2d" are all accepted.
type JsonConfig struct {
	Environment           string          `json:"environment"`
	EndpointAddrHTTP      string          `json:"endpoint_addr_http"`
	EndpointAddrGRPC      string          `json:"endpoint_addr_grpc"`
	DatabaseDSN           string          `json:"database_dsn"`
	AccessTokenSecret     string          `json:"access_token_secret"`
	RefreshTokenSecret    string          `json:"refresh_token_secret"`
	AccessTokenExpiresIn  *timex.Duration `json:"access_token_expires_in"`
	RefreshTokenExpiresIn *timex.Duration `json:"refresh_token_expires_in"`
	CookieSecret          string          `json:"cookie_secret"`
}

// parseJSON overlays values from the file named by -c/-config. Keys absent
// from the file leave the current values untouched. No flag, no file.
func parseJSON(config *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return err
	}

	setString(&config.Environment, c.Environment)
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.AccessTokenSecret, c.AccessTokenSecret)
	setString(&config.RefreshTokenSecret, c.RefreshTokenSecret)
	setString(&config.CookieSecret, c.CookieSecret)
	if c.AccessTokenExpiresIn != nil {
		config.AccessTokenExpiresIn = c.AccessTokenExpiresIn.Duration
	}
	if c.RefreshTokenExpiresIn != nil {
		config.RefreshTokenExpiresIn = c.RefreshTokenExpiresIn.Duration
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
