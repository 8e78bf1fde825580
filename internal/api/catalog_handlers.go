package api

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/neexbeast/pickyourtrail/internal/travel"
)

// ListDestinations handles GET /api/destinations?region=&search=.
func (h *Handlers) ListDestinations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ds, err := h.svc.ListDestinations(r.Context(), travel.DestinationFilter{
		Region: q.Get("region"),
		Search: q.Get("search"),
	})
	if err != nil {
		h.writeError(w, r, err, "Server error fetching destinations")
		return
	}
	writeJSON(w, http.StatusOK, ds)
}

// GetDestination handles GET /api/destinations/{id}.
func (h *Handlers) GetDestination(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Destination(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err, "Server error fetching destination")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// CreateDestination handles POST /api/destinations.
func (h *Handlers) CreateDestination(w http.ResponseWriter, r *http.Request) {
	const generic = "Server error creating destination"

	var d travel.Destination
	if err := decodeJSON(w, r, &d); err != nil {
		h.writeError(w, r, err, generic)
		return
	}
	created, err := h.svc.CreateDestination(r.Context(), &d)
	if err != nil {
		h.writeError(w, r, err, generic)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateDestination handles PUT /api/destinations/{id}.
func (h *Handlers) UpdateDestination(w http.ResponseWriter, r *http.Request) {
	const generic = "Server error updating destination"

	patch, err := readBody(w, r)
	if err != nil {
		h.writeError(w, r, err, generic)
		return
	}
	d, err := h.svc.UpdateDestination(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		h.writeError(w, r, err, generic)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// DeleteDestination handles DELETE /api/destinations/{id}.
func (h *Handlers) DeleteDestination(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteDestination(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err, "Server error deleting destination")
		return
	}
	writeMessage(w, http.StatusOK, "Destination deleted successfully")
}

// ListPackages handles GET /api/packages with optional destination, featured,
// minPrice, maxPrice and duration filters.
func (h *Handlers) ListPackages(w http.ResponseWriter, r *http.Request) {
	f, err := packageFilter(r.URL.Query())
	if err != nil {
		h.writeError(w, r, err, "")
		return
	}
	ps, err := h.svc.ListPackages(r.Context(), f)
	if err != nil {
		h.writeError(w, r, err, "Server error fetching packages")
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

// GetPackage handles GET /api/packages/{id}.
func (h *Handlers) GetPackage(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Package(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err, "Server error fetching package")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// CreatePackage handles POST /api/packages.
func (h *Handlers) CreatePackage(w http.ResponseWriter, r *http.Request) {
	const generic = "Server error creating package"

	var p travel.Package
	if err := decodeJSON(w, r, &p); err != nil {
		h.writeError(w, r, err, generic)
		return
	}
	created, err := h.svc.CreatePackage(r.Context(), &p)
	if err != nil {
		h.writeError(w, r, err, generic)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdatePackage handles PUT /api/packages/{id}.
func (h *Handlers) UpdatePackage(w http.ResponseWriter, r *http.Request) {
	const generic = "Server error updating package"

	patch, err := readBody(w, r)
	if err != nil {
		h.writeError(w, r, err, generic)
		return
	}
	p, err := h.svc.UpdatePackage(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		h.writeError(w, r, err, generic)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DeletePackage handles DELETE /api/packages/{id}.
func (h *Handlers) DeletePackage(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeletePackage(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err, "Server error deleting package")
		return
	}
	writeMessage(w, http.StatusOK, "Package deleted successfully")
}

// packageFilter parses package list query parameters. featured is true only
// for the literal "true"; any other non-empty value filters for non-featured.
func packageFilter(q url.Values) (travel.PackageFilter, error) {
	var f travel.PackageFilter

	if v := q.Get("destination"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return f, travel.Errorf(travel.KindValidation, "destination must be a valid id")
		}
		f.DestinationID = &id
	}
	if v := q.Get("featured"); v != "" {
		featured := v == "true"
		f.Featured = &featured
	}
	for _, p := range []struct {
		name string
		dst  **float64
	}{
		{"minPrice", &f.MinPrice},
		{"maxPrice", &f.MaxPrice},
	} {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return f, travel.Errorf(travel.KindValidation, "%s must be a number", p.name)
		}
		*p.dst = &n
	}
	if v := q.Get("duration"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return f, travel.Errorf(travel.KindValidation, "duration must be a whole number")
		}
		f.Duration = &n
	}
	return f, nil
}
