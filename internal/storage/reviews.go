package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/neexbeast/pickyourtrail/internal/travel"
)

const reviewColumns = `id, user_id, package_id, destination_id, rating, comment, images, created_at`

func scanReview(s scanner) (travel.Review, error) {
	var rv travel.Review
	var images []byte

	err := s.Scan(
		&rv.ID,
		&rv.UserID,
		&rv.PackageID,
		&rv.DestinationID,
		&rv.Rating,
		&rv.Comment,
		&images,
		&rv.CreatedAt,
	)
	if err != nil {
		return rv, err
	}
	if err := fromJSONB(images, &rv.Images); err != nil {
		return rv, fmt.Errorf("review %s images: %w", rv.ID, err)
	}
	return rv, nil
}

// CreateReview inserts rv.
func (r *Repository) CreateReview(ctx context.Context, rv *travel.Review) error {
	images, err := toJSONB(rv.Images)
	if err != nil {
		return err
	}

	const q = `
		INSERT INTO reviews (id, user_id, package_id, destination_id, rating, comment, images, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	if _, err := r.q.Exec(ctx, q,
		rv.ID, rv.UserID, rv.PackageID, rv.DestinationID, rv.Rating, rv.Comment, images, rv.CreatedAt,
	); err != nil {
		return fmt.Errorf("inserting review %s: %w", rv.ID, err)
	}
	return nil
}

// ListReviews returns reviews matching f, newest first.
func (r *Repository) ListReviews(ctx context.Context, f travel.ReviewFilter) ([]travel.Review, error) {
	var w where
	if f.PackageID != nil {
		w.add("package_id = ?", *f.PackageID)
	}
	if f.DestinationID != nil {
		w.add("destination_id = ?", *f.DestinationID)
	}
	q := `SELECT ` + reviewColumns + ` FROM reviews` + w.String() + ` ORDER BY created_at DESC`

	rows, err := r.q.Query(ctx, q, w.args...)
	if err != nil {
		return nil, fmt.Errorf("querying reviews: %w", err)
	}
	rs, err := collect(rows, scanReview)
	if err != nil {
		return nil, fmt.Errorf("reading reviews: %w", err)
	}
	return rs, nil
}

// PackageRatings returns the rating of every review of a package.
func (r *Repository) PackageRatings(ctx context.Context, packageID uuid.UUID) ([]int, error) {
	return r.ratings(ctx, `SELECT rating FROM reviews WHERE package_id = $1`, packageID)
}

// DestinationRatings returns the rating of every review of a destination.
func (r *Repository) DestinationRatings(ctx context.Context, destinationID uuid.UUID) ([]int, error) {
	return r.ratings(ctx, `SELECT rating FROM reviews WHERE destination_id = $1`, destinationID)
}

func (r *Repository) ratings(ctx context.Context, q string, id uuid.UUID) ([]int, error) {
	rows, err := r.q.Query(ctx, q, id)
	if err != nil {
		return nil, fmt.Errorf("querying ratings of %s: %w", id, err)
	}
	ratings, err := collect(rows, func(s scanner) (int, error) {
		var n int
		err := s.Scan(&n)
		return n, err
	})
	if err != nil {
		return nil, fmt.Errorf("reading ratings of %s: %w", id, err)
	}
	return ratings, nil
}
