package middleware

import (
	"log/slog"
	"net/http"

	"muniadmin/internal/platform/metrics"
	"muniadmin/pkg/platform/httputil"
)

// RequirePermission gates a route on a single permission tag. It assumes
// RequireAuth already ran; the decision itself is pure and synchronous.
//
// Three outcomes, in order of precedence:
//   - no claims in context: the route was wired without RequireAuth, an
//     internal fault (500), never an access decision
//   - claims present but the permission data was unparseable: corrupted
//     token contents, also an internal fault (500) - never silently allow
//   - tag missing from the set: 403, and the handler is never invoked
func RequirePermission(tag string, logger *slog.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			claims, ok := GetClaims(ctx)
			if !ok {
				logger.ErrorContext(ctx, "permission gate reached without verified claims",
					"permission", tag,
					"path", r.URL.Path,
					"request_id", GetRequestID(ctx),
				)
				writeInternalError(w)
				return
			}

			if err := claims.Permissions.Err(); err != nil {
				logger.ErrorContext(ctx, "unparseable permission claims",
					"error", err,
					"user_id", claims.UserID,
					"request_id", GetRequestID(ctx),
				)
				writeInternalError(w)
				return
			}

			if !claims.Permissions.Has(tag) {
				if m != nil {
					m.PermissionDenied.WithLabelValues(tag).Inc()
				}
				logger.WarnContext(ctx, "access denied",
					"permission", tag,
					"user_id", claims.UserID,
					"path", r.URL.Path,
					"request_id", GetRequestID(ctx),
				)
				httputil.WriteError(w, http.StatusForbidden, "forbidden", "Access denied")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeInternalError(w http.ResponseWriter) {
	httputil.WriteError(w, http.StatusInternalServerError, "internal", "Internal Server Error")
}
