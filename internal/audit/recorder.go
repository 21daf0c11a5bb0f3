package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"muniadmin/internal/platform/metrics"
)

// Recorder accepts audit events and hands them to the background worker
// through a bounded queue. Recording is best-effort and subordinate to the
// business request: no method here ever returns an error to its caller.
type Recorder struct {
	inbox   chan Record
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewRecorder(queueSize int, logger *slog.Logger, m *metrics.Metrics) *Recorder {
	if queueSize <= 0 {
		queueSize = 1024
	}
	return &Recorder{
		inbox:   make(chan Record, queueSize),
		logger:  logger,
		metrics: m,
	}
}

// Inbox exposes the queue's read side for the worker.
func (r *Recorder) Inbox() <-chan Record { return r.inbox }

// Record validates and normalizes an event, then enqueues it without
// blocking. Missing required fields or a full queue produce an internal
// diagnostic and nothing else; the parent request must never notice.
func (r *Recorder) Record(ctx context.Context, event Event) {
	if event.UserID == 0 || event.Username == "" || event.ActionType == "" || event.EntityType == "" {
		r.logger.ErrorContext(ctx, "audit event missing required fields",
			"user_id", event.UserID,
			"action_type", event.ActionType,
			"entity_type", event.EntityType,
		)
		return
	}

	record := Record{
		UserID:     event.UserID,
		Username:   event.Username,
		ActionType: event.ActionType,
		EntityType: event.EntityType,
		Timestamp:  event.Timestamp,
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}
	if event.EntityID != "" {
		entityID := event.EntityID
		record.EntityID = &entityID
	}
	if event.IPAddress != "" {
		ip := event.IPAddress
		record.IPAddress = &ip
	}

	details, err := json.Marshal(event.Details)
	if err != nil {
		// Should not happen for a Detail value; record the action anyway
		// with empty details rather than losing the entry.
		r.logger.ErrorContext(ctx, "failed to marshal audit details", "error", err)
		details = []byte("{}")
	}
	record.Details = details

	select {
	case r.inbox <- record:
		if r.metrics != nil {
			r.metrics.AuditEventsQueued.Inc()
		}
	default:
		if r.metrics != nil {
			r.metrics.AuditEventsDropped.Inc()
		}
		r.logger.ErrorContext(ctx, "audit queue full, dropping event",
			"action_type", record.ActionType,
			"entity_type", record.EntityType,
		)
	}
}
