package httptransport

import (
	"net/http"
	"strconv"
	"time"

	"muniadmin/internal/audit"
	dErrors "muniadmin/pkg/domain-errors"
)

type AuditHandler struct {
	audit *audit.Service
}

func NewAuditHandler(auditSvc *audit.Service) *AuditHandler {
	return &AuditHandler{audit: auditSvc}
}

// handleList answers GET /api/audit-logs. All filters are optional and
// combine with AND; the date range is inclusive at both ends.
func (h *AuditHandler) handleList(w http.ResponseWriter, r *http.Request) {
	query, page, err := parseAuditQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.audit.List(r.Context(), query, page)
	if err != nil {
		writeError(w, dErrors.Wrap(dErrors.CodeInternal, "query audit logs", err))
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func parseAuditQuery(r *http.Request) (audit.Query, audit.PageRequest, error) {
	values := r.URL.Query()

	var query audit.Query
	if raw := values.Get("userId"); raw != "" {
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return audit.Query{}, audit.PageRequest{}, dErrors.New(dErrors.CodeInvalidInput, "invalid userId")
		}
		query.UserID = userID
	}
	query.ActionType = audit.ActionType(values.Get("actionType"))
	query.EntityType = values.Get("entityType")
	query.EntityID = values.Get("entityId")

	if raw := values.Get("startDate"); raw != "" {
		start, err := parseDateBound(raw, false)
		if err != nil {
			return audit.Query{}, audit.PageRequest{}, dErrors.New(dErrors.CodeInvalidInput, "invalid startDate")
		}
		query.StartDate = &start
	}
	if raw := values.Get("endDate"); raw != "" {
		end, err := parseDateBound(raw, true)
		if err != nil {
			return audit.Query{}, audit.PageRequest{}, dErrors.New(dErrors.CodeInvalidInput, "invalid endDate")
		}
		query.EndDate = &end
	}

	page := audit.PageRequest{
		Page:  intOr(values.Get("page"), 1),
		Limit: intOr(values.Get("limit"), 0),
	}
	return query, page, nil
}

// parseDateBound accepts RFC 3339 timestamps and plain dates. A date-only
// end bound is pushed to the last instant of that day so the range stays
// inclusive.
func parseDateBound(raw string, isEnd bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}

	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, err
	}
	if isEnd {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

func intOr(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
