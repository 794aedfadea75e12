// Package metrics defines the custom Prometheus metrics for the Taskly API.
// It is the single source of truth for metric names, labels, and help strings.
//
// Build the set once at startup with New and hand it to the handlers and
// middleware that record into it.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "taskly"

// Label values shared by the recorders.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

type Metrics struct {
	// AuthRequestsTotal counts register and login attempts.
	// Labels:
	//   - operation: "register" or "login"
	//   - result: "success" or "failure"
	AuthRequestsTotal *prometheus.CounterVec

	// TokenRejectionsTotal counts requests the bearer guard turned away.
	// Label:
	//   - reason: "missing_header", "malformed_header" or "invalid_token"
	TokenRejectionsTotal *prometheus.CounterVec

	// TasksCreatedTotal counts task creations.
	// Label:
	//   - result: "created" or "replayed" (idempotent retry)
	TasksCreatedTotal *prometheus.CounterVec

	// TaskOperationsTotal counts task mutations other than create.
	// Labels:
	//   - operation: "update", "delete" or "toggle"
	//   - result: "success" or "failure"
	TaskOperationsTotal *prometheus.CounterVec
}

// New registers every metric with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		AuthRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "auth_requests_total",
				Help:      "Total number of registration and login attempts.",
			},
			[]string{"operation", "result"},
		),
		TokenRejectionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "token_rejections_total",
				Help:      "Total number of requests rejected by the bearer token guard.",
			},
			[]string{"reason"},
		),
		TasksCreatedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tasks_created_total",
				Help:      "Total number of task creations, including idempotent replays.",
			},
			[]string{"result"},
		),
		TaskOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "task_operations_total",
				Help:      "Total number of task updates, deletions and completion toggles.",
			},
			[]string{"operation", "result"},
		),
	}
}

// Result maps an error to the result label.
func Result(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}
