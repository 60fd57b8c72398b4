// Command seeduser creates an account directly in the configured store. It is
// how the first ADMIN gets in, since registration only creates sellers.
//
//	seeduser -name Root -email admin@example.com -role ADMIN -d postgres://...
//
// Server config flags, environment variables and -c are honoured.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/dmitrijs2005/backoffice/internal/common"
	"github.com/dmitrijs2005/backoffice/internal/cryptox"
	"github.com/dmitrijs2005/backoffice/internal/flagx"
	"github.com/dmitrijs2005/backoffice/internal/logging"
	"github.com/dmitrijs2005/backoffice/internal/server/config"
	"github.com/dmitrijs2005/backoffice/internal/server/models"
	"github.com/dmitrijs2005/backoffice/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/backoffice/internal/server/services"
	"golang.org/x/term"
)

// test seams
var (
	readPassword = term.ReadPassword
	loadConfig   = config.LoadConfig
	openRepos    = repomanager.New
)

var hasher services.PasswordHasher = cryptox.DefaultHasher

var errNoDatabase = errors.New("no database configured; set -d or DATABASE_DSN")

type seedArgs struct {
	name  string
	email string
	role  models.Role
}

func parseArgs(args []string) (*seedArgs, error) {
	var a seedArgs
	var role string

	fs := flag.NewFlagSet("seeduser", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&a.name, "name", "", "display name")
	fs.StringVar(&a.email, "email", "", "login email")
	fs.StringVar(&role, "role", string(models.RoleAdmin), "ADMIN, SELLER or CLIENT")

	if err := fs.Parse(flagx.FilterArgs(args, []string{"-name", "-email", "-role"})); err != nil {
		return nil, err
	}

	a.role = models.Role(strings.ToUpper(strings.TrimSpace(role)))
	if !a.role.Valid() {
		return nil, fmt.Errorf("unknown role %q", role)
	}
	if strings.TrimSpace(a.email) == "" {
		return nil, errors.New("-email is required")
	}
	if strings.TrimSpace(a.name) == "" {
		a.name = a.email
	}
	return &a, nil
}

// promptPassword reads the password twice without echo.
func promptPassword(w io.Writer, fd int) (string, error) {
	fmt.Fprint(w, "Enter password: ")
	first, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(first)

	fmt.Fprint(w, "Repeat password: ")
	second, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(second)

	if len(first) == 0 {
		return "", errors.New("empty password")
	}
	if !bytes.Equal(first, second) {
		return "", errors.New("passwords do not match")
	}
	return string(first), nil
}

func run(ctx context.Context, args []string, w io.Writer, fd int) error {
	a, err := parseArgs(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.DatabaseDSN == "" {
		return errNoDatabase
	}

	password, err := promptPassword(w, fd)
	if err != nil {
		return err
	}

	rm, err := openRepos(ctx, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer rm.Close()

	svc := services.NewAuthService(rm, hasher, cfg, logging.NewLogger(cfg.Environment))
	user, err := svc.CreateUser(ctx, a.name, a.email, password, a.role)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "created %s %s (%s)\n", user.Role, user.Email, user.ID)
	return nil
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, int(os.Stdin.Fd())); err != nil {
		log.Fatalf("%v", err)
	}
}
