package audit

import (
	"context"
	"encoding/json"
	"net/url"
	"time"
)

// ActionType is the coarse classification of a mutation.
type ActionType string

const (
	ActionCreate ActionType = "CREATE"
	ActionUpdate ActionType = "UPDATE"
	ActionDelete ActionType = "DELETE"
	ActionOther  ActionType = "OTHER"
)

// ActionTypeFromMethod classifies an HTTP verb. Everything that is not an
// obvious write maps to OTHER.
func ActionTypeFromMethod(method string) ActionType {
	switch method {
	case "POST":
		return ActionCreate
	case "PUT", "PATCH":
		return ActionUpdate
	case "DELETE":
		return ActionDelete
	default:
		return ActionOther
	}
}

// Detail captures the request that caused an audit entry. Body is the raw
// JSON request body (already redacted); Query holds non-empty query
// parameters only.
type Detail struct {
	Method string          `json:"method"`
	Path   string          `json:"path"`
	Body   json.RawMessage `json:"body,omitempty"`
	Query  url.Values      `json:"query,omitempty"`
}

// Event is emitted by the action-logging middleware once a wrapped request
// has produced a successful response. It is the recorder's input, not the
// persisted shape.
type Event struct {
	UserID     int64
	Username   string
	ActionType ActionType
	EntityType string
	// EntityID is empty when no id could be extracted; that is acceptable.
	EntityID  string
	Details   Detail
	IPAddress string
	Timestamp time.Time
}

// Actor is the acting principal's current identity, joined in at query time
// so reviewers see the present display name even if it changed since the
// action.
type Actor struct {
	Name     string `json:"name"`
	Username string `json:"username"`
}

// Record is one immutable row of the audit trail. Records are only ever
// appended by the recorder and read back by the query service; nothing in
// the application updates or deletes them.
type Record struct {
	ID         int64           `json:"id"`
	UserID     int64           `json:"userId"`
	Username   string          `json:"username"`
	ActionType ActionType      `json:"actionType"`
	EntityType string          `json:"entityType"`
	EntityID   *string         `json:"entityId"`
	Details    json.RawMessage `json:"details"`
	IPAddress  *string         `json:"ipAddress"`
	Timestamp  time.Time       `json:"timestamp"`
	Actor      *Actor          `json:"user,omitempty"`
}

// Query holds the optional filters for audit review. All provided filters
// are ANDed; zero values impose no constraint. The date range is inclusive
// on both ends.
type Query struct {
	UserID     int64
	ActionType ActionType
	EntityType string
	EntityID   string
	StartDate  *time.Time
	EndDate    *time.Time
}

// PageRequest is 1-based pagination input.
type PageRequest struct {
	Page  int
	Limit int
}

// Pagination describes the window a Page covers.
type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

// Page is the query service's result: newest-first records plus paging info.
type Page struct {
	Logs       []Record   `json:"logs"`
	Pagination Pagination `json:"pagination"`
}

// Store is the persistence contract for the audit trail. Implementations
// must order List results by descending timestamp.
type Store interface {
	Append(ctx context.Context, record Record) (Record, error)
	List(ctx context.Context, q Query, limit, offset int) ([]Record, error)
	Count(ctx context.Context, q Query) (int, error)
}
