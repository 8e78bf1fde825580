package travel

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Populate helpers expand stored references into the referenced documents with
// one batched lookup per reference kind. Dangling references stay nil.

func (s *Service) populateDestinations(ctx context.Context, ps []Package) error {
	if len(ps) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(ps))
	for _, p := range ps {
		ids = append(ids, p.DestinationID)
	}

	ds, err := s.store.GetDestinations(ctx, unique(ids))
	if err != nil {
		return fmt.Errorf("populating destinations: %w", err)
	}
	byID := make(map[uuid.UUID]*Destination, len(ds))
	for i := range ds {
		byID[ds[i].ID] = &ds[i]
	}
	for i := range ps {
		ps[i].Destination = byID[ps[i].DestinationID]
	}
	return nil
}

func (s *Service) populatePackages(ctx context.Context, bs []Booking) error {
	if len(bs) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(bs))
	for _, b := range bs {
		ids = append(ids, b.PackageID)
	}

	ps, err := s.store.GetPackages(ctx, unique(ids))
	if err != nil {
		return fmt.Errorf("populating packages: %w", err)
	}
	byID := make(map[uuid.UUID]*Package, len(ps))
	for i := range ps {
		byID[ps[i].ID] = &ps[i]
	}
	for i := range bs {
		bs[i].Package = byID[bs[i].PackageID]
	}
	return nil
}

func (s *Service) populateReviewers(ctx context.Context, rs []Review) error {
	if len(rs) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(rs))
	for _, r := range rs {
		ids = append(ids, r.UserID)
	}

	us, err := s.store.GetUsers(ctx, unique(ids))
	if err != nil {
		return fmt.Errorf("populating users: %w", err)
	}
	byID := make(map[uuid.UUID]*UserSummary, len(us))
	for _, u := range us {
		byID[u.ID] = &UserSummary{ID: u.ID, Name: u.Name}
	}
	for i := range rs {
		rs[i].User = byID[rs[i].UserID]
	}
	return nil
}

func unique(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
