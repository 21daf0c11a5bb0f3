package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	PermissionDenied   *prometheus.CounterVec
	AuditEventsQueued  prometheus.Counter
	AuditEventsWritten prometheus.Counter
	AuditEventsDropped prometheus.Counter
	AuditWriteFailures prometheus.Counter
}

// New creates and registers all metrics on the given registerer. Passing a
// fresh registry keeps tests isolated from the default global one.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		PermissionDenied: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "muniadmin_permission_denied_total",
			Help: "Requests rejected by the permission gate, by required tag.",
		}, []string{"permission"}),
		AuditEventsQueued: factory.NewCounter(prometheus.CounterOpts{
			Name: "muniadmin_audit_events_queued_total",
			Help: "Audit events handed to the recorder queue.",
		}),
		AuditEventsWritten: factory.NewCounter(prometheus.CounterOpts{
			Name: "muniadmin_audit_events_written_total",
			Help: "Audit events durably appended to storage.",
		}),
		AuditEventsDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "muniadmin_audit_events_dropped_total",
			Help: "Audit events dropped because the queue was full.",
		}),
		AuditWriteFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "muniadmin_audit_write_failures_total",
			Help: "Audit append attempts that failed at the storage layer.",
		}),
	}
}
