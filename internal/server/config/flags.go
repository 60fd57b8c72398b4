package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/backoffice/internal/flagx"
	"github.com/dmitrijs2005/backoffice/internal/timex"
)

var serverFlags = []string{"-a", "-g", "-d", "-e", "-s", "-S", "-t", "-r", "-k"}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-g string   gRPC health bind address (e.g., ":50051")
//	-d string   PostgreSQL DSN
//	-e string   environment: development | production
//	-s string   access token secret
//	-S string   refresh token secret
//	-t string   access token lifetime, <int><m|h|d>
//	-r string   refresh token lifetime, <int><m|h|d>
//	-k string   cookie secret, exactly 32 characters
//
// Only these flags are picked out of args, so -c and flags of other
// components pass through untouched.
func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "http address and port")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "grpc health address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.Environment, "e", config.Environment, "environment")
	fs.StringVar(&config.AccessTokenSecret, "s", config.AccessTokenSecret, "access token secret")
	fs.StringVar(&config.RefreshTokenSecret, "S", config.RefreshTokenSecret, "refresh token secret")
	fs.StringVar(&config.CookieSecret, "k", config.CookieSecret, "cookie secret")

	accessExpiresIn := fs.String("t", timex.Format(config.AccessTokenExpiresIn), "access token lifetime")
	refreshExpiresIn := fs.String("r", timex.Format(config.RefreshTokenExpiresIn), "refresh token lifetime")

	if err := fs.Parse(flagx.FilterArgs(args, serverFlags)); err != nil {
		return err
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["t"] {
		if err := setDuration(&config.AccessTokenExpiresIn, *accessExpiresIn); err != nil {
			return fmt.Errorf("-t: %w", err)
		}
	}
	if set["r"] {
		if err := setDuration(&config.RefreshTokenExpiresIn, *refreshExpiresIn); err != nil {
			return fmt.Errorf("-r: %w", err)
		}
	}
	return nil
}
