package travel

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// ListReviews returns matching reviews newest first with reviewer names populated.
func (s *Service) ListReviews(ctx context.Context, f ReviewFilter) ([]Review, error) {
	rs, err := s.store.ListReviews(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("listing reviews: %w", err)
	}
	if rs == nil {
		rs = []Review{}
	}
	if err := s.populateReviewers(ctx, rs); err != nil {
		return nil, err
	}
	return rs, nil
}

// CreateReview stores a review and then recomputes the aggregate rating of the
// reviewed package and/or destination. The two steps are separate writes: if
// the recomputation fails the review is kept and an error is returned.
func (s *Service) CreateReview(ctx context.Context, user *User, in ReviewInput) (*Review, error) {
	if in.PackageID == "" && in.DestinationID == "" {
		return nil, Errorf(KindValidation, "packageId or destinationId is required")
	}
	if err := check(in); err != nil {
		return nil, err
	}

	r := &Review{
		ID:        s.newID(),
		UserID:    user.ID,
		Rating:    in.Rating,
		Comment:   in.Comment,
		Images:    in.Images,
		CreatedAt: s.now(),
	}
	if r.Images == nil {
		r.Images = []string{}
	}

	if in.PackageID != "" {
		id, err := s.requirePackage(ctx, in.PackageID)
		if err != nil {
			return nil, err
		}
		r.PackageID = &id
	}
	if in.DestinationID != "" {
		id, err := s.requireDestination(ctx, in.DestinationID)
		if err != nil {
			return nil, err
		}
		r.DestinationID = &id
	}

	if err := s.store.CreateReview(ctx, r); err != nil {
		return nil, fmt.Errorf("creating review: %w", err)
	}

	if err := s.refreshRatings(ctx, r.PackageID, r.DestinationID); err != nil {
		return nil, fmt.Errorf("review %s saved but rating not updated: %w", r.ID, err)
	}
	return r, nil
}

func (s *Service) requirePackage(ctx context.Context, rawID string) (uuid.UUID, error) {
	id, err := parseID(rawID, "Package")
	if err != nil {
		return uuid.Nil, err
	}
	p, err := s.store.GetPackage(ctx, id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("getting package %s: %w", id, err)
	}
	if p == nil {
		return uuid.Nil, Errorf(KindNotFound, "Package not found")
	}
	return id, nil
}

func (s *Service) requireDestination(ctx context.Context, rawID string) (uuid.UUID, error) {
	id, err := parseID(rawID, "Destination")
	if err != nil {
		return uuid.Nil, err
	}
	d, err := s.store.GetDestination(ctx, id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("getting destination %s: %w", id, err)
	}
	if d == nil {
		return uuid.Nil, Errorf(KindNotFound, "Destination not found")
	}
	return id, nil
}
