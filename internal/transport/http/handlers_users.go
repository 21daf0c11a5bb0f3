package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"muniadmin/internal/identity"
)

type UserHandler struct {
	identity *identity.Service
}

func NewUserHandler(identitySvc *identity.Service) *UserHandler {
	return &UserHandler{identity: identitySvc}
}

func (h *UserHandler) Mount(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Get("/{id}", h.handleGet)
	r.Put("/{id}", h.handleUpdate)
	r.Delete("/{id}", h.handleDelete)
}

func (h *UserHandler) handleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.identity.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// handleCreate provisions an account on someone's behalf; unlike register it
// returns only the user, never a session token.
func (h *UserHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var in identity.RegisterInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.identity.Register(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result.User)
}

func (h *UserHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := h.identity.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var in identity.UpdateUserInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.identity.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.identity.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
