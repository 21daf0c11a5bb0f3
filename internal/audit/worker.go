package audit

import (
	"context"
	"log/slog"

	"muniadmin/internal/platform/metrics"
)

// Worker consumes audit records from the recorder's queue and persists them.
// Storage failures are logged and counted, never propagated: by contract an
// audit write failure must not be observable anywhere but in diagnostics.
type Worker struct {
	store   Store
	inbox   <-chan Record
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewWorker(store Store, inbox <-chan Record, logger *slog.Logger, m *metrics.Metrics) *Worker {
	return &Worker{store: store, inbox: inbox, logger: logger, metrics: m}
}

// Run drains the queue until ctx is cancelled. Pending records already in
// the queue are flushed before returning so a graceful shutdown does not
// shed events it already accepted.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.flush()
			return ctx.Err()
		case record := <-w.inbox:
			w.append(record)
		}
	}
}

func (w *Worker) flush() {
	for {
		select {
		case record := <-w.inbox:
			w.append(record)
		default:
			return
		}
	}
}

func (w *Worker) append(record Record) {
	// The parent request is long gone; use a background context so a
	// cancelled request cannot abort the write.
	if _, err := w.store.Append(context.Background(), record); err != nil {
		if w.metrics != nil {
			w.metrics.AuditWriteFailures.Inc()
		}
		w.logger.Error("failed to append audit record",
			"error", err,
			"action_type", record.ActionType,
			"entity_type", record.EntityType,
			"user_id", record.UserID,
		)
		return
	}
	if w.metrics != nil {
		w.metrics.AuditEventsWritten.Inc()
	}
}
