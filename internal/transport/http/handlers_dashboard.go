package httptransport

import (
	"net/http"

	"muniadmin/internal/dashboard"
)

type DashboardHandler struct {
	dashboard *dashboard.Service
}

func NewDashboardHandler(dashboardSvc *dashboard.Service) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboardSvc}
}

func (h *DashboardHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboard.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
