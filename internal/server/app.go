// Package server wires storage, the user service and the HTTP API of the
// identity server and runs it until the context is cancelled.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/dmitrijs2005/gatekeeper/internal/buildinfo"
	"github.com/dmitrijs2005/gatekeeper/internal/logging"
	"github.com/dmitrijs2005/gatekeeper/internal/server/api"
	"github.com/dmitrijs2005/gatekeeper/internal/server/config"
	"github.com/dmitrijs2005/gatekeeper/internal/server/shared/db"
	"github.com/dmitrijs2005/gatekeeper/internal/server/users"
)

const gracefulShutdownTimeout = 10 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	repos  db.RepositoryManager
	server *http.Server
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.New(c.LogLevel, "json", os.Stdout)
	ctx := context.Background()

	repos, err := db.NewRepositoryManager(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	us := users.NewService(repos.Users(), c.SecretKey, c.TokenTTL)

	if _, err := users.SeedAdmin(ctx, us, c.SeedAdminEmail, c.SeedAdminPassword, logger); err != nil {
		repos.Close()
		return nil, err
	}

	srv := &http.Server{
		Addr:              c.Addr,
		Handler:           api.New(us, logger, c.Production, buildinfo.Version()).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &App{config: c, logger: logger, repos: repos, server: srv}, nil
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests
// and closes storage.
func (app *App) Run(ctx context.Context) error {
	defer app.repos.Close()

	ln, err := net.Listen("tcp", app.server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", app.server.Addr, err)
	}

	app.logger.Info(ctx, "identity server started", "address", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	if err := app.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
