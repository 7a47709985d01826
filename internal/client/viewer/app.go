// Package viewer is the interactive command-line front end of the NoteGuard
// client. It drives the full access flow against the backend: issuing view
// sessions, rendering the watermark line, running the progress heartbeat
// while a note is open, and walking a plan purchase through checkout,
// redirect and status polling.
package viewer

import (
	"bufio"
	"context"
	"database/sql"
	"log"
	"os"

	"github.com/studyvault/noteguard/internal/client/api"
	"github.com/studyvault/noteguard/internal/client/config"
	"github.com/studyvault/noteguard/internal/client/payments"
	"github.com/studyvault/noteguard/internal/client/resume"
	"github.com/studyvault/noteguard/internal/logging"
)

type App struct {
	config *config.Config
	api    *api.Client
	store  resume.Store
	poller *payments.Poller
	logger logging.Logger
	db     *sql.DB
	reader *bufio.Reader
}

func NewApp(c *config.Config, logger logging.Logger) (*App, error) {

	ctx := context.Background()

	db, err := resume.OpenDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	apiClient := api.NewClient(c.ServerBaseURL, c.UserID)
	store := resume.NewSQLiteStore(db)
	poller := payments.NewPoller(apiClient, store, c.PollInterval, c.PollBudget, logger)

	return &App{
		config: c,
		api:    apiClient,
		store:  store,
		poller: poller,
		logger: logger,
		db:     db,
		reader: bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.db.Close()

	a.resumePending(ctx)
	a.Root(ctx)
}
