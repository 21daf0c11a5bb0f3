// Package httptransport is the thin HTTP layer: routing, decoding and the
// error envelope. Business rules live in the services; the middleware chain
// owns authentication, authorization and audit emission.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"muniadmin/internal/audit"
	"muniadmin/internal/dashboard"
	"muniadmin/internal/directory"
	"muniadmin/internal/identity"
	"muniadmin/internal/platform/metrics"
	"muniadmin/internal/platform/middleware"
	"muniadmin/pkg/domain"
)

type Dependencies struct {
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
	Verifier  middleware.TokenVerifier
	Recorder  middleware.ActionRecorder
	Identity  *identity.Service
	Directory *directory.Service
	Audit     *audit.Service
	Dashboard *dashboard.Service

	// MetricsHandler serves the Prometheus scrape endpoint. Optional.
	MetricsHandler http.Handler

	// TrustProxyHeaders forwards the deployment's proxy topology to the
	// client-IP middleware.
	TrustProxyHeaders bool
}

// NewRouter assembles the full middleware chain and route table. Every /api
// route except the auth pair runs behind token verification; mutating entity
// routes additionally run behind a permission gate and the action logger.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.ClientMetadata(deps.TrustProxyHeaders))
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	requireAdmin := middleware.RequirePermission(domain.PermAdmin, deps.Logger, deps.Metrics)
	requireIssue := middleware.RequirePermission(domain.PermRequestIssue, deps.Logger, deps.Metrics)

	authHandler := NewAuthHandler(deps.Identity)
	userHandler := NewUserHandler(deps.Identity)
	directoryHandler := NewDirectoryHandler(deps.Directory)
	employeeHandler := NewEmployeeHandler(deps.Directory)
	auditHandler := NewAuditHandler(deps.Audit)
	dashboardHandler := NewDashboardHandler(deps.Dashboard)

	r.Route("/api", func(api chi.Router) {
		api.Route("/auth", authHandler.Mount)

		api.Group(func(priv chi.Router) {
			priv.Use(middleware.RequireAuth(deps.Verifier, deps.Logger))

			priv.Route("/users", func(users chi.Router) {
				users.Use(requireAdmin)
				users.Use(middleware.LogAction("user", deps.Recorder, deps.Logger))
				userHandler.Mount(users)
			})

			priv.Route("/departments", func(departments chi.Router) {
				departments.Use(requireAdmin)
				departments.Use(middleware.LogAction("department", deps.Recorder, deps.Logger))
				directoryHandler.MountDepartments(departments)
			})

			priv.Route("/municipalities", func(municipalities chi.Router) {
				municipalities.Use(requireAdmin)
				municipalities.Use(middleware.LogAction("municipality", deps.Recorder, deps.Logger))
				directoryHandler.MountMunicipalities(municipalities)
			})

			// Employee routes mix permission levels: any authenticated
			// staffer can read, creating a record is an issue request,
			// and only administrators change or remove records.
			priv.Route("/employees", func(employees chi.Router) {
				employees.Use(middleware.LogAction("employee", deps.Recorder, deps.Logger))
				employees.Get("/", employeeHandler.handleList)
				employees.Get("/{id}", employeeHandler.handleGet)
				employees.With(requireIssue).Post("/", employeeHandler.handleCreate)
				employees.With(requireAdmin).Put("/{id}", employeeHandler.handleUpdate)
				employees.With(requireAdmin).Delete("/{id}", employeeHandler.handleDelete)
			})

			priv.With(requireAdmin).Get("/audit-logs", auditHandler.handleList)
			priv.Get("/dashboard/stats", dashboardHandler.handleStats)
		})
	})

	return otelhttp.NewHandler(r, "muniadmin.http")
}
