package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/neexbeast/pickyourtrail/internal/travel"
)

const bookingColumns = `id, user_id, package_id, start_date, end_date, travelers, total_price,
	status, payment_status, special_requests, created_at`

func scanBooking(s scanner) (travel.Booking, error) {
	var b travel.Booking
	err := s.Scan(
		&b.ID,
		&b.UserID,
		&b.PackageID,
		&b.StartDate,
		&b.EndDate,
		&b.Travelers,
		&b.TotalPrice,
		&b.Status,
		&b.PaymentStatus,
		&b.SpecialRequests,
		&b.CreatedAt,
	)
	return b, err
}

// CreateBooking inserts b.
func (r *Repository) CreateBooking(ctx context.Context, b *travel.Booking) error {
	const q = `
		INSERT INTO bookings (id, user_id, package_id, start_date, end_date, travelers, total_price,
			status, payment_status, special_requests, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	if _, err := r.q.Exec(ctx, q,
		b.ID, b.UserID, b.PackageID, b.StartDate, b.EndDate, b.Travelers, b.TotalPrice,
		b.Status, b.PaymentStatus, b.SpecialRequests, b.CreatedAt,
	); err != nil {
		return fmt.Errorf("inserting booking %s: %w", b.ID, err)
	}
	return nil
}

// GetBooking retrieves a booking by id.
func (r *Repository) GetBooking(ctx context.Context, id uuid.UUID) (*travel.Booking, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	b, err := scanBooking(r.q.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying booking %s: %w", id, err)
	}
	return &b, nil
}

// ListBookingsByUser returns a user's bookings, newest first.
func (r *Repository) ListBookingsByUser(ctx context.Context, userID uuid.UUID) ([]travel.Booking, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.q.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("querying bookings of user %s: %w", userID, err)
	}
	bs, err := collect(rows, scanBooking)
	if err != nil {
		return nil, fmt.Errorf("reading bookings: %w", err)
	}
	return bs, nil
}

// UpdateBookingStatus sets the status of a booking.
func (r *Repository) UpdateBookingStatus(ctx context.Context, id uuid.UUID, status string) error {
	if _, err := r.q.Exec(ctx, `UPDATE bookings SET status = $2 WHERE id = $1`, id, status); err != nil {
		return fmt.Errorf("updating status of booking %s: %w", id, err)
	}
	return nil
}
