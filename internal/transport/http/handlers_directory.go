package httptransport

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"muniadmin/internal/directory"
	dErrors "muniadmin/pkg/domain-errors"
)

type DirectoryHandler struct {
	directory *directory.Service
}

func NewDirectoryHandler(directorySvc *directory.Service) *DirectoryHandler {
	return &DirectoryHandler{directory: directorySvc}
}

type namePayload struct {
	Name string `json:"name"`
}

func (h *DirectoryHandler) MountDepartments(r chi.Router) {
	r.Get("/", h.listDepartments)
	r.Post("/", h.createDepartment)
	r.Get("/{id}", h.getDepartment)
	r.Put("/{id}", h.updateDepartment)
	r.Delete("/{id}", h.deleteDepartment)
}

func (h *DirectoryHandler) MountMunicipalities(r chi.Router) {
	r.Get("/", h.listMunicipalities)
	r.Post("/", h.createMunicipality)
	r.Get("/{id}", h.getMunicipality)
	r.Put("/{id}", h.updateMunicipality)
	r.Delete("/{id}", h.deleteMunicipality)
}

func (h *DirectoryHandler) listDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.directory.ListDepartments(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, departments)
}

func (h *DirectoryHandler) createDepartment(w http.ResponseWriter, r *http.Request) {
	var in namePayload
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}

	created, err := h.directory.CreateDepartment(r.Context(), in.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *DirectoryHandler) getDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	d, err := h.directory.GetDepartment(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *DirectoryHandler) updateDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var in namePayload
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}

	updated, err := h.directory.UpdateDepartment(r.Context(), id, in.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *DirectoryHandler) deleteDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.directory.DeleteDepartment(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *DirectoryHandler) listMunicipalities(w http.ResponseWriter, r *http.Request) {
	municipalities, err := h.directory.ListMunicipalities(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, municipalities)
}

func (h *DirectoryHandler) createMunicipality(w http.ResponseWriter, r *http.Request) {
	var in namePayload
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}

	created, err := h.directory.CreateMunicipality(r.Context(), in.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *DirectoryHandler) getMunicipality(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	m, err := h.directory.GetMunicipality(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *DirectoryHandler) updateMunicipality(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var in namePayload
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}

	updated, err := h.directory.UpdateMunicipality(r.Context(), id, in.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *DirectoryHandler) deleteMunicipality(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.directory.DeleteMunicipality(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// pathID parses the {id} route parameter shared by every entity route.
func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "invalid id")
	}
	return id, nil
}
