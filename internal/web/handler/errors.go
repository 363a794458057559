package handler

import "errors"

var (
	// ErrNilDeps is returned by Init when app or a dependency is nil.
	ErrNilDeps = errors.New(ErrNilDepsFatalLogMsg)

	// ErrTrailingData is returned when a JSON body holds more than one value.
	ErrTrailingData = errors.New("unexpected data after JSON body")
)
