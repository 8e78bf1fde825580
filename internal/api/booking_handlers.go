package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/neexbeast/pickyourtrail/internal/travel"
)

// ListBookings handles GET /api/bookings.
func (h *Handlers) ListBookings(w http.ResponseWriter, r *http.Request) {
	bs, err := h.svc.ListBookings(r.Context(), currentUser(r))
	if err != nil {
		h.writeError(w, r, err, "Server error fetching bookings")
		return
	}
	writeJSON(w, http.StatusOK, bs)
}

// GetBooking handles GET /api/bookings/{id}.
func (h *Handlers) GetBooking(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.Booking(r.Context(), currentUser(r), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err, "Server error fetching booking")
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// CreateBooking handles POST /api/bookings.
func (h *Handlers) CreateBooking(w http.ResponseWriter, r *http.Request) {
	const generic = "Server error creating booking"

	var in travel.BookingInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeError(w, r, err, generic)
		return
	}
	b, err := h.svc.CreateBooking(r.Context(), currentUser(r), in)
	if err != nil {
		h.writeError(w, r, err, generic)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

// CancelBooking handles PUT /api/bookings/{id}/cancel.
func (h *Handlers) CancelBooking(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.CancelBooking(r.Context(), currentUser(r), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err, "Server error cancelling booking")
		return
	}
	writeJSON(w, http.StatusOK, b)
}
