package httptransport

import (
	"net/http"

	"muniadmin/internal/directory"
)

type EmployeeHandler struct {
	directory *directory.Service
}

func NewEmployeeHandler(directorySvc *directory.Service) *EmployeeHandler {
	return &EmployeeHandler{directory: directorySvc}
}

func (h *EmployeeHandler) handleList(w http.ResponseWriter, r *http.Request) {
	employees, err := h.directory.ListEmployees(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, employees)
}

func (h *EmployeeHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	e, err := h.directory.GetEmployee(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *EmployeeHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var in directory.EmployeeInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}

	created, err := h.directory.CreateEmployee(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *EmployeeHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var in directory.EmployeeInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}

	updated, err := h.directory.UpdateEmployee(r.Context(), id, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *EmployeeHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.directory.DeleteEmployee(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
