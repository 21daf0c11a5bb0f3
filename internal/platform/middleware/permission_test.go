package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"muniadmin/internal/platform/logger"
	"muniadmin/internal/platform/middleware"
	"muniadmin/pkg/domain"
)

func countingHandler(counter *atomic.Int64) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		counter.Add(1)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"success":true}`))
	})
}

func requestWithClaims(claims middleware.Claims) *http.Request {
	req := httptest.NewRequest(http.MethodDelete, "/api/departments/7", nil)
	return req.WithContext(middleware.WithClaims(req.Context(), claims))
}

func adminClaims() middleware.Claims {
	return middleware.Claims{
		UserID:      1,
		Username:    "admin",
		Permissions: domain.NewPermissionSet(domain.PermAdmin),
	}
}

func TestRequirePermission_AllowsMatchingTag(t *testing.T) {
	var invocations atomic.Int64
	gate := middleware.RequirePermission(domain.PermAdmin, logger.NewNop(), nil)
	handler := gate(countingHandler(&invocations))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, requestWithClaims(adminClaims()))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, int64(1), invocations.Load())
}

// A caller without the required tag gets 403 and the business handler is
// never invoked.
func TestRequirePermission_DeniesMissingTag(t *testing.T) {
	var invocations atomic.Int64
	gate := middleware.RequirePermission(domain.PermAdmin, logger.NewNop(), nil)
	handler := gate(countingHandler(&invocations))

	claims := middleware.Claims{
		UserID:      2,
		Username:    "viewer",
		Permissions: domain.NewPermissionSet(domain.PermViewer),
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, requestWithClaims(claims))

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, int64(0), invocations.Load())
}

// Membership must hold whether the permission claim arrived as a native
// array or as the legacy JSON-encoded string.
func TestRequirePermission_BothClaimRepresentations(t *testing.T) {
	for name, payload := range map[string]string{
		"native array":  `["ADMIN","VIEWER"]`,
		"legacy string": `"[\"ADMIN\",\"VIEWER\"]"`,
	} {
		t.Run(name, func(t *testing.T) {
			var perms domain.PermissionSet
			require.NoError(t, json.Unmarshal([]byte(payload), &perms))

			var invocations atomic.Int64
			gate := middleware.RequirePermission(domain.PermAdmin, logger.NewNop(), nil)
			handler := gate(countingHandler(&invocations))

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, requestWithClaims(middleware.Claims{
				UserID: 3, Username: "clerk", Permissions: perms,
			}))

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, int64(1), invocations.Load())
		})
	}
}

// Corrupted permission data is an internal fault, not a deny: 500, and
// definitely never an allow.
func TestRequirePermission_CorruptedClaimsAreAFault(t *testing.T) {
	var perms domain.PermissionSet
	require.NoError(t, json.Unmarshal([]byte(`"{broken"`), &perms))
	require.Error(t, perms.Err())

	var invocations atomic.Int64
	gate := middleware.RequirePermission(domain.PermAdmin, logger.NewNop(), nil)
	handler := gate(countingHandler(&invocations))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, requestWithClaims(middleware.Claims{
		UserID: 4, Username: "clerk", Permissions: perms,
	}))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, int64(0), invocations.Load())
}

// A gate without upstream auth is a wiring bug, reported as 500.
func TestRequirePermission_MissingClaims(t *testing.T) {
	var invocations atomic.Int64
	gate := middleware.RequirePermission(domain.PermAdmin, logger.NewNop(), nil)
	handler := gate(countingHandler(&invocations))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/users", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, int64(0), invocations.Load())
}
