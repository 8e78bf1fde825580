package travel

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// AverageRating returns the arithmetic mean of ratings and how many there are.
// The mean is stored unrounded.
func AverageRating(ratings []int) (float64, int) {
	if len(ratings) == 0 {
		return 0, 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return float64(sum) / float64(len(ratings)), len(ratings)
}

// refreshRatings recomputes the aggregate of each non-nil target from a full
// rescan of its reviews. Package and destination are independent and run
// concurrently.
func (s *Service) refreshRatings(ctx context.Context, packageID, destinationID *uuid.UUID) error {
	g, gCtx := errgroup.WithContext(ctx)
	if packageID != nil {
		id := *packageID
		g.Go(func() error { return s.refreshPackageRating(gCtx, id) })
	}
	if destinationID != nil {
		id := *destinationID
		g.Go(func() error { return s.refreshDestinationRating(gCtx, id) })
	}
	return g.Wait()
}

func (s *Service) refreshPackageRating(ctx context.Context, id uuid.UUID) error {
	ratings, err := s.store.PackageRatings(ctx, id)
	if err != nil {
		return fmt.Errorf("loading ratings for package %s: %w", id, err)
	}
	if len(ratings) == 0 {
		return nil
	}

	avg, n := AverageRating(ratings)
	if err := s.store.SetPackageRating(ctx, id, avg, n); err != nil {
		return fmt.Errorf("saving rating for package %s: %w", id, err)
	}
	s.forgetPackage(ctx, id)
	return nil
}

func (s *Service) refreshDestinationRating(ctx context.Context, id uuid.UUID) error {
	ratings, err := s.store.DestinationRatings(ctx, id)
	if err != nil {
		return fmt.Errorf("loading ratings for destination %s: %w", id, err)
	}
	if len(ratings) == 0 {
		return nil
	}

	avg, n := AverageRating(ratings)
	if err := s.store.SetDestinationRating(ctx, id, avg, n); err != nil {
		return fmt.Errorf("saving rating for destination %s: %w", id, err)
	}
	s.forgetDestination(ctx, id)
	return nil
}
