package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/gatekeeper/internal/client/client"
	"github.com/dmitrijs2005/gatekeeper/internal/client/config"
	"github.com/dmitrijs2005/gatekeeper/internal/client/gate"
	"github.com/dmitrijs2005/gatekeeper/internal/client/services"
	"github.com/dmitrijs2005/gatekeeper/internal/logging"
)

type App struct {
	config *config.Config
	store  *services.SessionStore
	gate   *gate.Gate
	db     *sql.DB
	log    logging.Logger
	reader *bufio.Reader
	out    io.Writer

	// route is where the last navigation landed.
	route string
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()
	logger := logging.New(c.LogLevel, "text", os.Stderr)

	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
		return nil, err
	}

	apiClient, err := client.NewHTTPClient(c.ServerURL, c.VerifyTimeout)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	a := &App{
		config: c,
		gate:   gate.New(c.RedirectGrace),
		db:     db,
		log:    logger,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
	a.store = services.NewSessionStore(apiClient, db, services.NavigatorFunc(a.navigate), logger, nil)
	return a, nil
}

func (a *App) navigate(path string) {
	a.route = path
	fmt.Fprintf(a.out, "-> %s\n", path)
}

func (a *App) Run(ctx context.Context) {
	defer a.close()
	a.Root(ctx)
}

func (a *App) close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn(context.Background(), "close api client", "error", err)
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) isLoggedIn() bool {
	return a.store.Identity() != nil
}
