// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/qa-office/qa-admin/internal/config"
)

// Create builds the Data Source Name for the configured gorm engine.
func Create(cfg *config.Config) string {
	switch cfg.DB.GormEngine {
	case config.EnginePostgres:
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(cfg.DB.User, cfg.DB.Password),
			Host:     net.JoinHostPort(cfg.DB.Host, strconv.Itoa(cfg.DB.Port)),
			Path:     "/" + cfg.DB.Name,
			RawQuery: cfg.DB.Extras,
		}

		return u.String()
	case config.EngineSQLite:
		path := cfg.DB.Path
		if path == "" {
			path = ":memory:"
		}

		return path + "?_pragma=foreign_keys(1)"
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
			cfg.DB.User,
			cfg.DB.Password,
			cfg.DB.Host,
			cfg.DB.Port,
			cfg.DB.Name,
			cfg.DB.Extras,
		)
	}
}
