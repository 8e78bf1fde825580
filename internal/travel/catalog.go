package travel

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// ListDestinations returns every destination matching f. Results are unbounded.
func (s *Service) ListDestinations(ctx context.Context, f DestinationFilter) ([]Destination, error) {
	ds, err := s.store.ListDestinations(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("listing destinations: %w", err)
	}
	if ds == nil {
		ds = []Destination{}
	}
	return ds, nil
}

// Destination returns one destination, served from cache when possible.
func (s *Service) Destination(ctx context.Context, rawID string) (*Destination, error) {
	id, err := parseID(rawID, "Destination")
	if err != nil {
		return nil, err
	}
	d, err := s.loadDestination(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, Errorf(KindNotFound, "Destination not found")
	}
	return d, nil
}

// CreateDestination stores a new destination. Rating fields start at zero.
func (s *Service) CreateDestination(ctx context.Context, d *Destination) (*Destination, error) {
	d.ID = s.newID()
	d.CreatedAt = s.now()
	d.Rating, d.ReviewCount = 0, 0
	if err := check(d); err != nil {
		return nil, err
	}
	if err := s.store.CreateDestination(ctx, d); err != nil {
		return nil, fmt.Errorf("creating destination: %w", err)
	}
	return d, nil
}

// UpdateDestination replaces the fields named by the JSON document patch on the
// stored destination. Fields the patch does not name keep their stored value.
func (s *Service) UpdateDestination(ctx context.Context, rawID string, patch []byte) (*Destination, error) {
	id, err := parseID(rawID, "Destination")
	if err != nil {
		return nil, err
	}
	d, err := s.store.GetDestination(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting destination %s: %w", id, err)
	}
	if d == nil {
		return nil, Errorf(KindNotFound, "Destination not found")
	}

	createdAt := d.CreatedAt
	fields, err := mergeDocument(d, patch)
	if err != nil {
		return nil, err
	}
	d.ID, d.CreatedAt = id, createdAt
	if err := check(d); err != nil {
		return nil, err
	}

	ok, err := s.store.UpdateDestination(ctx, d, fields.has("rating", "reviewCount"))
	if err != nil {
		return nil, fmt.Errorf("updating destination %s: %w", id, err)
	}
	if !ok {
		return nil, Errorf(KindNotFound, "Destination not found")
	}
	s.forgetDestination(ctx, id)
	return d, nil
}

// DeleteDestination removes a destination. Packages referencing it are kept.
func (s *Service) DeleteDestination(ctx context.Context, rawID string) error {
	id, err := parseID(rawID, "Destination")
	if err != nil {
		return err
	}
	ok, err := s.store.DeleteDestination(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting destination %s: %w", id, err)
	}
	if !ok {
		return Errorf(KindNotFound, "Destination not found")
	}
	s.forgetDestination(ctx, id)
	return nil
}

// ListPackages returns every package matching f with its destination populated.
func (s *Service) ListPackages(ctx context.Context, f PackageFilter) ([]Package, error) {
	ps, err := s.store.ListPackages(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("listing packages: %w", err)
	}
	if ps == nil {
		ps = []Package{}
	}
	if err := s.populateDestinations(ctx, ps); err != nil {
		return nil, err
	}
	return ps, nil
}

// Package returns one package with its destination populated.
func (s *Service) Package(ctx context.Context, rawID string) (*Package, error) {
	id, err := parseID(rawID, "Package")
	if err != nil {
		return nil, err
	}
	p, err := s.loadPackage(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, Errorf(KindNotFound, "Package not found")
	}
	if p.Destination, err = s.loadDestination(ctx, p.DestinationID); err != nil {
		return nil, err
	}
	return p, nil
}

// CreatePackage stores a new package. The destination reference is not checked.
func (s *Service) CreatePackage(ctx context.Context, p *Package) (*Package, error) {
	p.ID = s.newID()
	p.CreatedAt = s.now()
	p.Destination = nil
	p.Rating, p.ReviewCount = 0, 0
	if err := check(p); err != nil {
		return nil, err
	}
	if err := s.store.CreatePackage(ctx, p); err != nil {
		return nil, fmt.Errorf("creating package: %w", err)
	}
	return p, nil
}

// UpdatePackage replaces the fields named by the JSON document patch on the
// stored package. A string "destination" is accepted as the destination id.
func (s *Service) UpdatePackage(ctx context.Context, rawID string, patch []byte) (*Package, error) {
	id, err := parseID(rawID, "Package")
	if err != nil {
		return nil, err
	}
	p, err := s.store.GetPackage(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting package %s: %w", id, err)
	}
	if p == nil {
		return nil, Errorf(KindNotFound, "Package not found")
	}

	createdAt := p.CreatedAt
	fields, err := mergeDocument(p, patch)
	if err != nil {
		return nil, err
	}
	p.ID, p.CreatedAt, p.Destination = id, createdAt, nil
	if err := check(p); err != nil {
		return nil, err
	}

	ok, err := s.store.UpdatePackage(ctx, p, fields.has("rating", "reviewCount"))
	if err != nil {
		return nil, fmt.Errorf("updating package %s: %w", id, err)
	}
	if !ok {
		return nil, Errorf(KindNotFound, "Package not found")
	}
	s.forgetPackage(ctx, id)
	return p, nil
}

// DeletePackage removes a package. Bookings and reviews referencing it are kept.
func (s *Service) DeletePackage(ctx context.Context, rawID string) error {
	id, err := parseID(rawID, "Package")
	if err != nil {
		return err
	}
	ok, err := s.store.DeletePackage(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting package %s: %w", id, err)
	}
	if !ok {
		return Errorf(KindNotFound, "Package not found")
	}
	s.forgetPackage(ctx, id)
	return nil
}

// loadDestination is a read-through lookup. A missing destination is nil, nil.
func (s *Service) loadDestination(ctx context.Context, id uuid.UUID) (*Destination, error) {
	cached, err := s.cache.GetDestination(ctx, id)
	if err != nil {
		s.log.Warn("cache get failed", "destination", id, "err", err)
	}
	if cached != nil {
		return cached, nil
	}

	d, err := s.store.GetDestination(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting destination %s: %w", id, err)
	}
	if d == nil {
		return nil, nil
	}
	if err := s.cache.SetDestination(ctx, d); err != nil {
		s.log.Warn("cache set failed", "destination", id, "err", err)
	}
	return d, nil
}

// loadPackage is a read-through lookup of the unpopulated package.
func (s *Service) loadPackage(ctx context.Context, id uuid.UUID) (*Package, error) {
	cached, err := s.cache.GetPackage(ctx, id)
	if err != nil {
		s.log.Warn("cache get failed", "package", id, "err", err)
	}
	if cached != nil {
		return cached, nil
	}

	p, err := s.store.GetPackage(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting package %s: %w", id, err)
	}
	if p == nil {
		return nil, nil
	}
	if err := s.cache.SetPackage(ctx, p); err != nil {
		s.log.Warn("cache set failed", "package", id, "err", err)
	}
	return p, nil
}

func (s *Service) forgetDestination(ctx context.Context, id uuid.UUID) {
	if err := s.cache.DeleteDestination(ctx, id); err != nil {
		s.log.Warn("cache delete failed", "destination", id, "err", err)
	}
}

func (s *Service) forgetPackage(ctx context.Context, id uuid.UUID) {
	if err := s.cache.DeletePackage(ctx, id); err != nil {
		s.log.Warn("cache delete failed", "package", id, "err", err)
	}
}
