package config

import (
	"time"

	"github.com/qa-office/qa-admin/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Auth      Auth
	Seed      Seed
}

// Webserver implement webserver settings.
type Webserver struct {
	DisableRecover bool    // disable recover middleware
	Domain         string  // domain name for the webserver
	Port           int     // listening port for the webserver
	ShutDownTime   int     // wait time for shutdown
	URL            string  // base url for the webserver
	Session        Session // session settings
}

// Auth holds authorization settings.
type Auth struct {
	PermissionCacheSize int           // max number of users whose permission set is cached, negative disables the cache
	PermissionCacheTTL  time.Duration // how long a cached permission set stays valid
}

// Seed holds the bootstrap administrator created on an empty user table.
type Seed struct {
	AdminName     string
	AdminEmail    string
	AdminPassword string
}
