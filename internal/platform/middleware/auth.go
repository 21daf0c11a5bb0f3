package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"muniadmin/pkg/domain"
	"muniadmin/pkg/platform/httputil"
)

// TokenVerifier is the interface the auth middleware needs from the token
// service. Defined here so the middleware does not depend on the JWT
// implementation.
type TokenVerifier interface {
	Verify(tokenString string) (*Claims, error)
}

// Claims is the verified identity attached to a request: who is calling and
// the permission snapshot embedded in their token.
type Claims struct {
	UserID      int64
	Username    string
	Permissions domain.PermissionSet
}

type contextKeyClaims struct{}

// ContextKeyClaims is exported for use in tests that bypass the middleware.
var ContextKeyClaims = contextKeyClaims{}

// GetClaims retrieves the authenticated caller's claims from the context.
func GetClaims(ctx context.Context) (Claims, bool) {
	claims, ok := ctx.Value(ContextKeyClaims).(Claims)
	return claims, ok
}

// WithClaims injects claims into a context. Handlers under RequireAuth get
// this for free; tests use it directly.
func WithClaims(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, ContextKeyClaims, claims)
}

// RequireAuth verifies the bearer token and stores the caller's claims in
// the request context. Requests without a valid token are answered with 401
// before any downstream middleware or handler runs.
func RequireAuth(verifier TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			const bearerPrefix = "Bearer "

			token, ok := strings.CutPrefix(authHeader, bearerPrefix)
			if !ok || token == "" {
				ctx := r.Context()
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", GetRequestID(ctx),
				)
				writeUnauthorized(w, "Missing or invalid Authorization header")
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				ctx := r.Context()
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", GetRequestID(ctx),
				)
				writeUnauthorized(w, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), *claims)))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, description string) {
	httputil.WriteError(w, http.StatusUnauthorized, "unauthorized", description)
}
