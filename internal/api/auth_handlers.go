package api

import (
	"net/http"

	"github.com/neexbeast/pickyourtrail/internal/travel"
)

// Register handles POST /api/auth/register.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	const generic = "Server error during registration"

	var in travel.RegisterInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeError(w, r, err, generic)
		return
	}

	res, err := h.svc.Register(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err, generic)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// Login handles POST /api/auth/login.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	const generic = "Server error during login"

	var in travel.LoginInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeError(w, r, err, generic)
		return
	}

	res, err := h.svc.Login(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err, generic)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Me handles GET /api/users/me.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, currentUser(r))
}
