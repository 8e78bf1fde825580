package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/neexbeast/pickyourtrail/internal/travel"
)

const packageColumns = `id, name, destination_id, description, duration, price, image, gallery,
	inclusions, exclusions, itinerary, featured, rating, review_count, created_at`

func scanPackage(s scanner) (travel.Package, error) {
	var p travel.Package
	var gallery, inclusions, exclusions, itinerary []byte

	err := s.Scan(
		&p.ID,
		&p.Name,
		&p.DestinationID,
		&p.Description,
		&p.Duration,
		&p.Price,
		&p.Image,
		&gallery,
		&inclusions,
		&exclusions,
		&itinerary,
		&p.Featured,
		&p.Rating,
		&p.ReviewCount,
		&p.CreatedAt,
	)
	if err != nil {
		return p, err
	}
	for _, col := range []struct {
		name string
		raw  []byte
		dst  *[]string
	}{
		{"gallery", gallery, &p.Gallery},
		{"inclusions", inclusions, &p.Inclusions},
		{"exclusions", exclusions, &p.Exclusions},
	} {
		if err := fromJSONB(col.raw, col.dst); err != nil {
			return p, fmt.Errorf("package %s %s: %w", p.ID, col.name, err)
		}
	}
	if err := fromJSONB(itinerary, &p.Itinerary); err != nil {
		return p, fmt.Errorf("package %s itinerary: %w", p.ID, err)
	}
	return p, nil
}

// packageDocs holds the JSONB-encoded array fields of a package.
type packageDocs struct {
	gallery, inclusions, exclusions, itinerary []byte
}

func encodePackageDocs(p *travel.Package) (packageDocs, error) {
	var docs packageDocs
	var err error
	if docs.gallery, err = toJSONB(p.Gallery); err != nil {
		return docs, err
	}
	if docs.inclusions, err = toJSONB(p.Inclusions); err != nil {
		return docs, err
	}
	if docs.exclusions, err = toJSONB(p.Exclusions); err != nil {
		return docs, err
	}
	if docs.itinerary, err = toJSONB(p.Itinerary); err != nil {
		return docs, err
	}
	return docs, nil
}

// ListPackages returns packages matching every non-nil field of f.
func (r *Repository) ListPackages(ctx context.Context, f travel.PackageFilter) ([]travel.Package, error) {
	var w where
	if f.DestinationID != nil {
		w.add("destination_id = ?", *f.DestinationID)
	}
	if f.Featured != nil {
		w.add("featured = ?", *f.Featured)
	}
	if f.MinPrice != nil {
		w.add("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		w.add("price <= ?", *f.MaxPrice)
	}
	if f.Duration != nil {
		w.add("duration = ?", *f.Duration)
	}
	q := `SELECT ` + packageColumns + ` FROM packages` + w.String() + ` ORDER BY created_at`

	rows, err := r.q.Query(ctx, q, w.args...)
	if err != nil {
		return nil, fmt.Errorf("querying packages: %w", err)
	}
	ps, err := collect(rows, scanPackage)
	if err != nil {
		return nil, fmt.Errorf("reading packages: %w", err)
	}
	return ps, nil
}

// GetPackage retrieves a package by id.
func (r *Repository) GetPackage(ctx context.Context, id uuid.UUID) (*travel.Package, error) {
	q := `SELECT ` + packageColumns + ` FROM packages WHERE id = $1`

	p, err := scanPackage(r.q.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying package %s: %w", id, err)
	}
	return &p, nil
}

// GetPackages retrieves the packages with the given ids.
func (r *Repository) GetPackages(ctx context.Context, ids []uuid.UUID) ([]travel.Package, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := `SELECT ` + packageColumns + ` FROM packages WHERE id = ANY($1::uuid[])`

	rows, err := r.q.Query(ctx, q, idStrings(ids))
	if err != nil {
		return nil, fmt.Errorf("querying packages by id: %w", err)
	}
	ps, err := collect(rows, scanPackage)
	if err != nil {
		return nil, fmt.Errorf("reading packages: %w", err)
	}
	return ps, nil
}

// CreatePackage inserts p.
func (r *Repository) CreatePackage(ctx context.Context, p *travel.Package) error {
	docs, err := encodePackageDocs(p)
	if err != nil {
		return err
	}

	const q = `
		INSERT INTO packages (id, name, destination_id, description, duration, price, image, gallery,
			inclusions, exclusions, itinerary, featured, rating, review_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	if _, err := r.q.Exec(ctx, q,
		p.ID, p.Name, p.DestinationID, p.Description, p.Duration, p.Price, p.Image, docs.gallery,
		docs.inclusions, docs.exclusions, docs.itinerary, p.Featured, p.Rating, p.ReviewCount, p.CreatedAt,
	); err != nil {
		return fmt.Errorf("inserting package %s: %w", p.Name, err)
	}
	return nil
}

// UpdatePackage overwrites the mutable fields of p. rating and review_count are
// written only when withRating is set, so a concurrent rating refresh is not
// rolled back. It reports false when no package has p.ID.
func (r *Repository) UpdatePackage(ctx context.Context, p *travel.Package, withRating bool) (bool, error) {
	docs, err := encodePackageDocs(p)
	if err != nil {
		return false, err
	}

	q := `
		UPDATE packages
		SET name = $2, destination_id = $3, description = $4, duration = $5, price = $6,
		    image = $7, gallery = $8, inclusions = $9, exclusions = $10, itinerary = $11,
		    featured = $12`
	args := []any{
		p.ID, p.Name, p.DestinationID, p.Description, p.Duration, p.Price, p.Image, docs.gallery,
		docs.inclusions, docs.exclusions, docs.itinerary, p.Featured,
	}
	if withRating {
		q += `, rating = $13, review_count = $14`
		args = append(args, p.Rating, p.ReviewCount)
	}
	q += ` WHERE id = $1`

	tag, err := r.q.Exec(ctx, q, args...)
	if err != nil {
		return false, fmt.Errorf("updating package %s: %w", p.ID, err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeletePackage removes a package. It reports false when none matched.
func (r *Repository) DeletePackage(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM packages WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("deleting package %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

// SetPackageRating writes the aggregate rating and review count.
func (r *Repository) SetPackageRating(ctx context.Context, id uuid.UUID, rating float64, count int) error {
	const q = `UPDATE packages SET rating = $2, review_count = $3 WHERE id = $1`
	if _, err := r.q.Exec(ctx, q, id, rating, count); err != nil {
		return fmt.Errorf("updating rating of package %s: %w", id, err)
	}
	return nil
}
