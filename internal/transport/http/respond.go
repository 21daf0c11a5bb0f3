package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "muniadmin/pkg/domain-errors"
	"muniadmin/pkg/platform/httputil"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	httputil.WriteJSON(w, status, payload)
}

// writeError translates a domain error into the JSON error envelope. Unknown
// errors collapse to a generic 500 so internals never leak to clients.
func writeError(w http.ResponseWriter, err error) {
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		httputil.WriteError(w, dErrors.ToHTTPStatus(domainErr.Code), string(domainErr.Code), domainErr.Message)
		return
	}
	httputil.WriteError(w, http.StatusInternalServerError, string(dErrors.CodeInternal), "Internal Server Error")
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid request body")
	}
	return nil
}
