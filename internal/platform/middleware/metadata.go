package middleware

import (
	"context"
	"net/http"
	"strings"
)

type contextKeyClientIP struct{}

// ClientMetadata extracts the client IP address from the request and adds it
// to the context for the action logger. Applied early in the chain.
// Forwarding headers are client-supplied, so they are honored only when the
// deployment declares a trusted proxy in front of the service; otherwise the
// address recorded in the trail is the transport-level peer.
func ClientMetadata(trustProxyHeaders bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), contextKeyClientIP{}, ClientIPFromRequest(r, trustProxyHeaders))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClientIP retrieves the client IP address from the context.
func GetClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(contextKeyClientIP{}).(string); ok {
		return ip
	}
	return ""
}

// WithClientIP injects a client IP into a context. For tests that skip the
// HTTP middleware chain.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, contextKeyClientIP{}, ip)
}

// ClientIPFromRequest extracts the client IP. With trustProxyHeaders set it
// reads the forwarding headers a proxy or load balancer prepends; without it
// only RemoteAddr counts.
func ClientIPFromRequest(r *http.Request, trustProxyHeaders bool) string {
	if trustProxyHeaders {
		// X-Forwarded-For can contain multiple IPs (client, proxy1,
		// proxy2); the first is the original client.
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			if idx := strings.Index(xff, ","); idx != -1 {
				return strings.TrimSpace(xff[:idx])
			}
			return strings.TrimSpace(xff)
		}

		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return strings.TrimSpace(xri)
		}
	}

	// RemoteAddr is "ip:port" for IPv4 and "[::1]:port" for IPv6.
	if addr := r.RemoteAddr; addr != "" {
		if idx := strings.LastIndex(addr, ":"); idx != -1 {
			return strings.Trim(addr[:idx], "[]")
		}
		return addr
	}

	return "unknown"
}
