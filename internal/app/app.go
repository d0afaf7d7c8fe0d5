package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/dori/taskhive/internal/config"
	"github.com/dori/taskhive/internal/db"
	"github.com/dori/taskhive/internal/logger"
	"github.com/dori/taskhive/internal/notify"
	"github.com/dori/taskhive/internal/snapshot"
	"github.com/dori/taskhive/internal/store"
)

// LockWait bounds how long New waits for another process to release the
// data dir
var LockWait = 2 * time.Second

// ErrAlreadyRunning means another process holds the data dir
var ErrAlreadyRunning = errors.New("another instance of taskhive is already running")

// App holds the application state and dependencies
type App struct {
	Config   *config.Config
	Store    *store.Store
	Notifier *notify.Notifier
	Log      *logger.Logger
	DataDir  string

	db       *db.DB
	lockFile *flock.Flock
}

// New creates a new application instance
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if log == nil {
		log = logger.Nop()
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	app := &App{
		Config:   cfg,
		DataDir:  cfg.DataDir,
		Notifier: notify.NewNotifier(),
		Log:      log.WithComponent("app"),
	}
	app.Notifier.SetEnabled(cfg.Notifications)

	if err := app.acquireLock(ctx); err != nil {
		return nil, err
	}

	persister, err := app.openPersister(ctx)
	if err != nil {
		app.releaseLock()
		return nil, err
	}

	s, err := store.Open(ctx, store.Options{
		AnalyticsMode: store.AnalyticsMode(cfg.Analytics.Mode),
		LoginDelay:    cfg.Auth.LoginDelay,
		GoogleDelay:   cfg.Auth.GoogleDelay,
		Persister:     persister,
		Logger:        log,
	})
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	app.Store = s

	app.Log.Debugw("application started", "data_dir", cfg.DataDir, "storage", cfg.Storage.Driver)
	return app, nil
}

// openPersister picks the snapshot backend named in the config
func (a *App) openPersister(ctx context.Context) (store.Persister, error) {
	switch a.Config.Storage.Driver {
	case config.DriverFile:
		return snapshot.New(a.DataDir, a.Config.Storage.Name), nil
	case config.DriverSQLite, "":
		database, err := db.Open(ctx, filepath.Join(a.DataDir, a.Config.Storage.Name+".db"))
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		a.db = database
		return database, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", a.Config.Storage.Driver)
}

// acquireLock takes the data dir lock, waiting up to LockWait for a
// previous command to finish
func (a *App) acquireLock(ctx context.Context) error {
	a.lockFile = flock.New(filepath.Join(a.DataDir, "taskhive.lock"))

	ctx, cancel := context.WithTimeout(ctx, LockWait)
	defer cancel()
	locked, err := a.lockFile.TryLockContext(ctx, 25*time.Millisecond)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ErrAlreadyRunning
	case err != nil:
		return fmt.Errorf("failed to acquire lock: %w", err)
	case !locked:
		return ErrAlreadyRunning
	}
	return nil
}

func (a *App) releaseLock() {
	if a.lockFile != nil {
		a.lockFile.Unlock()
	}
}

// Close closes the database and releases the lock. Mutations are persisted
// as they happen, so there is nothing left to flush.
func (a *App) Close() error {
	var err error
	if a.db != nil {
		if cerr := a.db.Close(); cerr != nil {
			err = fmt.Errorf("failed to close database: %w", cerr)
		}
		a.db = nil
	}
	a.releaseLock()
	return err
}
