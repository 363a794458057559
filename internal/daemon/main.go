// Package daemon wires the database, the session store and the web service together.
package daemon

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/qa-office/qa-admin/internal/config"
	"github.com/qa-office/qa-admin/internal/db"
	"github.com/qa-office/qa-admin/internal/db/dsn"
	"github.com/qa-office/qa-admin/internal/web"
	"github.com/qa-office/qa-admin/internal/web/session"
)

// sessionTable holds the fiber sessions in the mysql and postgres backends.
const sessionTable = "sessions"

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
}

// Start serves HTTP until SIGINT or SIGTERM, then shuts down gracefully.
func (d *Daemon) Start() error {
	addr := fmt.Sprintf(":%d", d.cfg.Webserver.Port)

	go func() {
		if err := d.webService.Start(addr); err != nil {
			log.Error().Err(err).Msg("web service stopped")
		}
	}()

	log.Info().Str("addr", addr).Str("url", d.cfg.Webserver.URL).Msg("web service started")

	d.webService.WaitShutdown()

	return nil
}

// Prepare opens the database, migrates the schema and seeds it.
func Prepare(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	gdb, err := db.Open(cfg)
	if err != nil {
		return nil, err
	}

	if err = db.Migrate(gdb); err != nil {
		return nil, err
	}

	if err = Seed(ctx, cfg, gdb); err != nil {
		return nil, err
	}

	return gdb, nil
}

// New creates a new Daemon instance with the provided configuration.
func New(ctx context.Context, cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, config.ErrNilConfig
	}

	gdb, err := Prepare(ctx, cfg)
	if err != nil {
		return nil, err
	}

	session.Init(sessionStorage(cfg), cfg.Webserver.Session.ExpiryTime)

	return &Daemon{
		cfg:        cfg,
		webService: web.New(cfg, gdb),
	}, nil
}

// sessionStorage picks the session backend matching the database engine.
// SQLite keeps sessions in memory.
func sessionStorage(cfg *config.Config) fiber.Storage {
	switch cfg.DB.GormEngine {
	case config.EngineMySQL:
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         sessionTable,
		})
	case config.EnginePostgres:
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         sessionTable,
		})
	default:
		return nil
	}
}
