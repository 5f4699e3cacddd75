package app

import (
	"fmt"
	"log/slog"

	"github.com/otpvault/otpvault/internal/vault/service"
	"github.com/otpvault/otpvault/internal/vault/store"
	"github.com/otpvault/otpvault/internal/vault/store/drivers/sqlite"
	"github.com/otpvault/otpvault/pkg/slogx"
)

// BuildVersion is overridable at build time via
// -ldflags "-X .../internal/vault/app.BuildVersion=...".
var BuildVersion = "v0.1.0"

// Application wires the credential engine together: the token store, the
// import/export services, and the logger. Commands (the CLI layer) operate
// on the exposed services.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db store.Store

	Tokens   *service.TokenService
	Transfer *service.TransferService
	Codes    *service.CodeService
	Unlock   *service.UnlockService
}

// New creates a new Application instance with all dependencies initialized.
// The vault database is opened (and created on first use) and migrations
// are applied before any service runs.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "otpvault",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	db, err := sqlite.NewStore(cfg.DatabaseFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open vault database: %w", err)
	}
	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}
	app.db = db
	app.logger.Debug("vault database ready", "file", cfg.DatabaseFile)

	app.Tokens = &service.TokenService{Store: db}
	app.Transfer = service.NewTransferService(nil)
	app.Codes = &service.CodeService{Store: db}
	app.Unlock = &service.UnlockService{Store: db}

	return app, nil
}

// Logger exposes the application logger for the command layer.
func (app *Application) Logger() *slog.Logger { return app.logger }

// Close releases the vault database.
func (app *Application) Close() error {
	if app.db == nil {
		return nil
	}
	return app.db.Close()
}
