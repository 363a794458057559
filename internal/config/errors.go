package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrUnsupportedGormEngine error if config db.gormengine is not one of mysql, postgres or sqlite.
	ErrUnsupportedGormEngine = errors.New("toml config db.gormengine must be mysql, postgres or sqlite")

	// ErrNilConfig error if no config was passed.
	ErrNilConfig = errors.New("config is nil")
)
