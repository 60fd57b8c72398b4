// Package server wires the session core together and runs the HTTP surface
// and the gRPC health endpoint until the process is told to stop.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/backoffice/internal/cryptox"
	"github.com/dmitrijs2005/backoffice/internal/logging"
	"github.com/dmitrijs2005/backoffice/internal/server/config"
	"github.com/dmitrijs2005/backoffice/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/backoffice/internal/server/rest"
	"github.com/dmitrijs2005/backoffice/internal/server/services"

	gs "github.com/dmitrijs2005/backoffice/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repomanager repomanager.RepositoryManager
	httpServer  *rest.HTTPServer
	grpcServer  *gs.GRPCServer
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	rm, err := repomanager.New(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	cc, err := cryptox.NewCookieCipher(c.CookieSecret)
	if err != nil {
		_ = rm.Close()
		return nil, fmt.Errorf("cookie cipher: %w", err)
	}

	as := services.NewAuthService(rm, cryptox.DefaultHasher, c, logger)
	jar := rest.NewCookieJar(cc, c.IsProduction(), c.AccessTokenExpiresIn, c.RefreshTokenExpiresIn)
	router := rest.NewRouter(as, jar, logger)

	return &App{
		config:      c,
		logger:      logger,
		repomanager: rm,
		httpServer:  rest.NewHTTPServer(c.EndpointAddrHTTP, router, logger),
		grpcServer:  gs.NewGRPCServer(c.EndpointAddrGRPC, logger),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) func() {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		if _, ok := <-sigs; ok {
			cancelFunc()
		}
	}()

	return func() {
		signal.Stop(sigs)
		close(sigs)
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.httpServer.Run(ctx); err != nil {
		app.logger.Error(ctx, "http server failed", "error", err)
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if app.config.EndpointAddrGRPC == "" {
		return
	}
	if err := app.grpcServer.Run(ctx); err != nil {
		app.logger.Error(ctx, "grpc server failed", "error", err)
		cancelFunc()
	}
}

// Run blocks until ctx is cancelled, a termination signal arrives or one of
// the servers fails. The store is closed on the way out.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "environment", app.config.Environment)

	stop := app.initSignalHandler(cancelFunc)
	defer stop()

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.repomanager.Close(); err != nil {
		app.logger.Error(ctx, "closing store failed", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
