package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"muniadmin/internal/platform/middleware"
)

func TestClientIPFromRequest(t *testing.T) {
	cases := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		trustProxy bool
		want       string
	}{
		{
			name:       "remote addr only",
			remoteAddr: "192.0.2.10:51234",
			want:       "192.0.2.10",
		},
		{
			name:       "ipv6 remote addr",
			remoteAddr: "[::1]:51234",
			want:       "::1",
		},
		{
			name:       "forwarded-for ignored without trusted proxy",
			remoteAddr: "192.0.2.10:51234",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.9"},
			want:       "192.0.2.10",
		},
		{
			name:       "real-ip ignored without trusted proxy",
			remoteAddr: "192.0.2.10:51234",
			headers:    map[string]string{"X-Real-IP": "203.0.113.9"},
			want:       "192.0.2.10",
		},
		{
			name:       "forwarded-for honored behind trusted proxy",
			remoteAddr: "10.0.0.1:4000",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.1"},
			trustProxy: true,
			want:       "203.0.113.9",
		},
		{
			name:       "real-ip honored behind trusted proxy",
			remoteAddr: "10.0.0.1:4000",
			headers:    map[string]string{"X-Real-IP": "203.0.113.9"},
			trustProxy: true,
			want:       "203.0.113.9",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/employees", nil)
			req.RemoteAddr = tc.remoteAddr
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tc.want, middleware.ClientIPFromRequest(req, tc.trustProxy))
		})
	}
}

// The default deployment has no proxy in front, so a spoofed forwarding
// header must not end up as the recorded origin address.
func TestClientMetadata_DefaultIgnoresSpoofedHeader(t *testing.T) {
	var seen string
	handler := middleware.ClientMetadata(false)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = middleware.GetClientIP(r.Context())
			w.WriteHeader(http.StatusOK)
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "/api/employees", nil)
	req.RemoteAddr = "192.0.2.10:51234"
	req.Header.Set("X-Forwarded-For", "203.0.113.99")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "192.0.2.10", seen)
}
