package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"muniadmin/internal/audit"
)

// maxAuditBodyBytes bounds how much of a request body ends up in an audit
// detail payload. Bodies over the cap still reach the handler in full; the
// detail payload omits them rather than persist a byte-sliced fragment.
const maxAuditBodyBytes = 64 * 1024

// replayedBody feeds the captured prefix back to the handler, then hands
// over whatever remains unread in the original stream.
type replayedBody struct {
	io.Reader
	io.Closer
}

// ActionRecorder is what the action logger needs from the audit recorder.
// Record must not block and must not fail the caller.
type ActionRecorder interface {
	Record(ctx context.Context, event audit.Event)
}

// LogAction observes each request to a wrapped route and, once the handler
// has produced a successful (2xx) response, hands one audit event to the
// recorder. The emission path is queue-backed and error-isolated: nothing
// that happens to the event can reach the client-visible response, which
// has already been written by the time the event is assembled.
func LogAction(entityType string, recorder ActionRecorder, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// The handler will consume the body, so capture it up front
			// for the detail payload and entity-id fallback. The capture
			// must never change what the handler reads.
			var body []byte
			if r.Body != nil && r.Method != http.MethodGet && r.Method != http.MethodHead {
				original := r.Body
				captured, _ := io.ReadAll(io.LimitReader(original, maxAuditBodyBytes+1))
				if len(captured) <= maxAuditBodyBytes {
					body = captured
				}
				r.Body = replayedBody{
					Reader: io.MultiReader(bytes.NewReader(captured), original),
					Closer: original,
				}
			}

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			// From here on the response is final.
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			if status < 200 || status >= 300 {
				return
			}

			ctx := r.Context()
			claims, ok := GetClaims(ctx)
			if !ok || claims.UserID == 0 || claims.Username == "" {
				// Should not happen on a gated route; tolerate rather
				// than fabricate a record with no actor.
				logger.WarnContext(ctx, "skipping audit event without actor",
					"path", r.URL.Path,
					"request_id", GetRequestID(ctx),
				)
				return
			}

			recorder.Record(ctx, audit.Event{
				UserID:     claims.UserID,
				Username:   claims.Username,
				ActionType: audit.ActionTypeFromMethod(r.Method),
				EntityType: entityType,
				EntityID:   extractEntityID(r, body),
				Details: audit.Detail{
					Method: r.Method,
					Path:   r.URL.Path,
					Body:   redactBody(body),
					Query:  nonEmptyQuery(r.URL.Query()),
				},
				IPAddress: GetClientIP(ctx),
				Timestamp: time.Now(),
			})
		})
	}
}

// extractEntityID resolves the affected entity id with a fixed precedence:
// the `id` path parameter, then a body field `id`, then a body field
// `employeeId`. First non-empty wins; no id at all is acceptable.
func extractEntityID(r *http.Request, body []byte) string {
	if id := chi.URLParam(r, "id"); id != "" {
		return id
	}

	if len(body) == 0 {
		return ""
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return ""
	}

	for _, key := range []string{"id", "employeeId"} {
		if raw, ok := fields[key]; ok {
			if id := stringifyID(raw); id != "" {
				return id
			}
		}
	}
	return ""
}

// stringifyID normalizes a JSON id value (string or number) to a string.
func stringifyID(raw json.RawMessage) string {
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString
	}
	var asNumber json.Number
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return asNumber.String()
	}
	return ""
}

// redactBody returns the request body for the detail payload with
// credential fields removed. The original system persisted bodies verbatim,
// passwords included; that is the one behavior deliberately not reproduced.
func redactBody(body []byte) json.RawMessage {
	if len(body) == 0 {
		return nil
	}

	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		// Not JSON we can inspect; safer to drop it than to persist
		// something that may embed credentials.
		return nil
	}

	redacted, err := json.Marshal(redactValue(value))
	if err != nil {
		return nil
	}
	return redacted
}

func redactValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		for key, inner := range v {
			if isSensitiveField(key) {
				v[key] = "[REDACTED]"
				continue
			}
			v[key] = redactValue(inner)
		}
		return v
	case []any:
		for i, inner := range v {
			v[i] = redactValue(inner)
		}
		return v
	default:
		return value
	}
}

func isSensitiveField(key string) bool {
	return strings.Contains(strings.ToLower(key), "password")
}

// nonEmptyQuery mirrors the recorded-only-when-present rule for query
// parameters.
func nonEmptyQuery(values url.Values) url.Values {
	if len(values) == 0 {
		return nil
	}
	return values
}
