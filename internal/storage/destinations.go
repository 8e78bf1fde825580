package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/neexbeast/pickyourtrail/internal/travel"
)

const destinationColumns = `id, name, country, region, description, image, gallery, highlights,
	price_range, best_time_to_visit, rating, review_count, created_at`

func scanDestination(s scanner) (travel.Destination, error) {
	var d travel.Destination
	var gallery, highlights []byte

	err := s.Scan(
		&d.ID,
		&d.Name,
		&d.Country,
		&d.Region,
		&d.Description,
		&d.Image,
		&gallery,
		&highlights,
		&d.PriceRange,
		&d.BestTimeToVisit,
		&d.Rating,
		&d.ReviewCount,
		&d.CreatedAt,
	)
	if err != nil {
		return d, err
	}
	if err := fromJSONB(gallery, &d.Gallery); err != nil {
		return d, fmt.Errorf("destination %s gallery: %w", d.ID, err)
	}
	if err := fromJSONB(highlights, &d.Highlights); err != nil {
		return d, fmt.Errorf("destination %s highlights: %w", d.ID, err)
	}
	return d, nil
}

// ListDestinations returns destinations matching f. Region matches exactly;
// Search matches name, country or description case-insensitively.
func (r *Repository) ListDestinations(ctx context.Context, f travel.DestinationFilter) ([]travel.Destination, error) {
	var w where
	if f.Region != "" {
		w.add("region = ?", f.Region)
	}
	if f.Search != "" {
		w.add("(name ILIKE ? OR country ILIKE ? OR description ILIKE ?)", containsPattern(f.Search))
	}
	q := `SELECT ` + destinationColumns + ` FROM destinations` + w.String() + ` ORDER BY created_at`

	rows, err := r.q.Query(ctx, q, w.args...)
	if err != nil {
		return nil, fmt.Errorf("querying destinations: %w", err)
	}
	ds, err := collect(rows, scanDestination)
	if err != nil {
		return nil, fmt.Errorf("reading destinations: %w", err)
	}
	return ds, nil
}

// GetDestination retrieves a destination by id.
func (r *Repository) GetDestination(ctx context.Context, id uuid.UUID) (*travel.Destination, error) {
	q := `SELECT ` + destinationColumns + ` FROM destinations WHERE id = $1`

	d, err := scanDestination(r.q.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying destination %s: %w", id, err)
	}
	return &d, nil
}

// GetDestinations retrieves the destinations with the given ids.
func (r *Repository) GetDestinations(ctx context.Context, ids []uuid.UUID) ([]travel.Destination, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := `SELECT ` + destinationColumns + ` FROM destinations WHERE id = ANY($1::uuid[])`

	rows, err := r.q.Query(ctx, q, idStrings(ids))
	if err != nil {
		return nil, fmt.Errorf("querying destinations by id: %w", err)
	}
	ds, err := collect(rows, scanDestination)
	if err != nil {
		return nil, fmt.Errorf("reading destinations: %w", err)
	}
	return ds, nil
}

// CreateDestination inserts d.
func (r *Repository) CreateDestination(ctx context.Context, d *travel.Destination) error {
	gallery, err := toJSONB(d.Gallery)
	if err != nil {
		return err
	}
	highlights, err := toJSONB(d.Highlights)
	if err != nil {
		return err
	}

	const q = `
		INSERT INTO destinations (id, name, country, region, description, image, gallery, highlights,
			price_range, best_time_to_visit, rating, review_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	if _, err := r.q.Exec(ctx, q,
		d.ID, d.Name, d.Country, d.Region, d.Description, d.Image, gallery, highlights,
		d.PriceRange, d.BestTimeToVisit, d.Rating, d.ReviewCount, d.CreatedAt,
	); err != nil {
		return fmt.Errorf("inserting destination %s: %w", d.Name, err)
	}
	return nil
}

// UpdateDestination overwrites the mutable fields of d. rating and review_count
// are written only when withRating is set. It reports false when no destination
// has d.ID.
func (r *Repository) UpdateDestination(ctx context.Context, d *travel.Destination, withRating bool) (bool, error) {
	gallery, err := toJSONB(d.Gallery)
	if err != nil {
		return false, err
	}
	highlights, err := toJSONB(d.Highlights)
	if err != nil {
		return false, err
	}

	q := `
		UPDATE destinations
		SET name = $2, country = $3, region = $4, description = $5, image = $6,
		    gallery = $7, highlights = $8, price_range = $9, best_time_to_visit = $10`
	args := []any{
		d.ID, d.Name, d.Country, d.Region, d.Description, d.Image, gallery, highlights,
		d.PriceRange, d.BestTimeToVisit,
	}
	if withRating {
		q += `, rating = $11, review_count = $12`
		args = append(args, d.Rating, d.ReviewCount)
	}
	q += ` WHERE id = $1`

	tag, err := r.q.Exec(ctx, q, args...)
	if err != nil {
		return false, fmt.Errorf("updating destination %s: %w", d.ID, err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteDestination removes a destination. It reports false when none matched.
func (r *Repository) DeleteDestination(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM destinations WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("deleting destination %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

// SetDestinationRating writes the aggregate rating and review count.
func (r *Repository) SetDestinationRating(ctx context.Context, id uuid.UUID, rating float64, count int) error {
	const q = `UPDATE destinations SET rating = $2, review_count = $3 WHERE id = $1`
	if _, err := r.q.Exec(ctx, q, id, rating, count); err != nil {
		return fmt.Errorf("updating rating of destination %s: %w", id, err)
	}
	return nil
}
