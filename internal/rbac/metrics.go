package rbac

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var operations = promauto.NewCounterVec( //nolint:gochecknoglobals
	prometheus.CounterOpts{
		Name: "rbac_role_operations_total",
		Help: "Number of role manager operations, differentiated by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

func observe(operation string, err error) {
	outcome := "ok"

	if err != nil {
		outcome = "error"
		if kind, ok := KindOf(err); ok {
			outcome = kind.String()
		}
	}

	operations.WithLabelValues(operation, outcome).Inc()
}
