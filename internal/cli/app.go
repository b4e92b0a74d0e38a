package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"localboard/internal/live"
	"localboard/internal/logging"
	"localboard/internal/model"
	"localboard/internal/repository"
	"localboard/internal/service"
)

// App is everything one command invocation needs: the store, the commit hub
// and the services, plus the board the commands act on.
type App struct {
	Log     *logrus.Logger
	DB      *gorm.DB
	Store   *repository.Store
	Hub     *live.Hub
	Service *service.Service
	Board   *model.Board

	memory bool
}

// OpenApp opens the database, wires the services and makes sure the default
// board exists. Log output goes to logOut.
func OpenApp(ctx context.Context, opts *RootOptions, logOut io.Writer) (*App, error) {
	log := logging.New(opts.LogLevel, logOut)

	db, err := repository.Open(opts.DBPath, log)
	if err != nil {
		return nil, err
	}

	// Without a persistent backend there is no second writer, so commits
	// are delivered before the write returns.
	mode := live.DispatchAsync
	memory := repository.IsMemory(opts.DBPath)
	if memory {
		mode = live.DispatchSync
	}

	store := repository.NewStore(db)
	hub := live.NewHub(mode, log)
	app := &App{
		Log:     log,
		DB:      db,
		Store:   store,
		Hub:     hub,
		Service: service.New(store, hub, log),
		memory:  memory,
	}

	board, err := app.Service.GetOrCreateDefaultBoard(ctx, opts.Title)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to load board: %w", err)
	}
	app.Board = board
	return app, nil
}

// StartView loads a live view of the board that follows every commit.
func (a *App) StartView(ctx context.Context) (*live.View, error) {
	view := live.NewView(a.Hub, live.NewStoreLoader(a.Store), a.Log)
	if err := view.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to load board view: %w", err)
	}
	return view, nil
}

// FollowExternal republishes writes made by other processes on the same
// database file until ctx is done. It does nothing for an in-memory store.
func (a *App) FollowExternal(ctx context.Context, interval time.Duration) {
	if a.memory {
		return
	}
	go func() {
		if err := live.WatchExternal(ctx, a.Hub, a.Store.DataVersion, interval); err != nil {
			a.Log.WithError(err).Warn("external change watch stopped")
		}
	}()
}

// Close drains pending commits and closes the database.
func (a *App) Close() error {
	a.Hub.Close()
	return repository.Close(a.DB)
}
