package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/neexbeast/pickyourtrail/internal/travel"
)

const uniqueViolation = "23505"

const userColumns = `id, name, email, password_hash, is_admin, created_at`

func scanUser(s scanner) (travel.User, error) {
	var u travel.User
	err := s.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt)
	return u, err
}

// CreateUser inserts u. A duplicate email yields travel.ErrEmailTaken.
func (r *Repository) CreateUser(ctx context.Context, u *travel.User) error {
	const q = `
		INSERT INTO users (id, name, email, password_hash, is_admin, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if _, err := r.q.Exec(ctx, q, u.ID, u.Name, u.Email, u.PasswordHash, u.IsAdmin, u.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return travel.ErrEmailTaken
		}
		return fmt.Errorf("inserting user %s: %w", u.Email, err)
	}
	return nil
}

// GetUser retrieves a user by id.
func (r *Repository) GetUser(ctx context.Context, id uuid.UUID) (*travel.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(r.q.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying user %s: %w", id, err)
	}
	return &u, nil
}

// GetUserByEmail retrieves a user by exact email.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*travel.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	u, err := scanUser(r.q.QueryRow(ctx, q, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying user by email: %w", err)
	}
	return &u, nil
}

// GetUsers retrieves the users with the given ids, in no particular order.
func (r *Repository) GetUsers(ctx context.Context, ids []uuid.UUID) ([]travel.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := `SELECT ` + userColumns + ` FROM users WHERE id = ANY($1::uuid[])`

	rows, err := r.q.Query(ctx, q, idStrings(ids))
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	users, err := collect(rows, scanUser)
	if err != nil {
		return nil, fmt.Errorf("reading users: %w", err)
	}
	return users, nil
}
