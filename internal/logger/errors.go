package logger

import (
	"errors"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ErrAppNameIsEmpty is returned when Log.AppName is not set.
	ErrAppNameIsEmpty = errors.New("log app name must be set")

	// ErrServiceNameIsEmpty is returned when Log.ServiceName is not set.
	ErrServiceNameIsEmpty = errors.New("log service name must be set")
)

var writeErrors = promauto.NewCounter(prometheus.CounterOpts{ //nolint:gochecknoglobals
	Name: "log_write_errors_total",
	Help: "Number of log events that could not be written.",
})

// WriteErrorHandler returns the zerolog.ErrorHandler reporting dropped events on w.
func WriteErrorHandler(w io.Writer) func(error) {
	return func(err error) {
		writeErrors.Inc()

		_, _ = fmt.Fprintf(w, "logger: dropped event: %v\n", err)
	}
}
