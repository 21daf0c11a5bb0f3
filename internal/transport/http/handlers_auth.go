package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"muniadmin/internal/identity"
)

// AuthHandler serves the pre-auth endpoints. Neither route sits behind the
// permission gate or the action logger: there is no actor yet.
type AuthHandler struct {
	identity *identity.Service
}

func NewAuthHandler(identitySvc *identity.Service) *AuthHandler {
	return &AuthHandler{identity: identitySvc}
}

func (h *AuthHandler) Mount(r chi.Router) {
	r.Post("/register", h.handleRegister)
	r.Post("/login", h.handleLogin)
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
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
	writeJSON(w, http.StatusCreated, result)
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in identity.LoginInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.identity.Login(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
