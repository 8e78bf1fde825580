package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/neexbeast/pickyourtrail/internal/travel"
)

// ListReviews handles GET /api/reviews?packageId=&destinationId=.
func (h *Handlers) ListReviews(w http.ResponseWriter, r *http.Request) {
	var f travel.ReviewFilter
	q := r.URL.Query()
	for _, p := range []struct {
		name string
		dst  **uuid.UUID
	}{
		{"packageId", &f.PackageID},
		{"destinationId", &f.DestinationID},
	} {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		id, err := uuid.Parse(v)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, p.name+" must be a valid id")
			return
		}
		*p.dst = &id
	}

	rs, err := h.svc.ListReviews(r.Context(), f)
	if err != nil {
		h.writeError(w, r, err, "Server error fetching reviews")
		return
	}
	writeJSON(w, http.StatusOK, rs)
}

// CreateReview handles POST /api/reviews.
func (h *Handlers) CreateReview(w http.ResponseWriter, r *http.Request) {
	const generic = "Server error creating review"

	var in travel.ReviewInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeError(w, r, err, generic)
		return
	}
	rv, err := h.svc.CreateReview(r.Context(), currentUser(r), in)
	if err != nil {
		h.writeError(w, r, err, generic)
		return
	}
	writeJSON(w, http.StatusCreated, rv)
}
