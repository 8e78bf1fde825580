package travel

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/neexbeast/pickyourtrail/internal/auth"
)

const msgBadCredentials = "Invalid email or password"

// Register creates a non-admin account and returns a token for it.
// An email that is already registered yields ErrEmailTaken and writes nothing.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	if len(in.Password) > auth.MaxPasswordBytes {
		return nil, Errorf(KindValidation, "password must be at most %d bytes", auth.MaxPasswordBytes)
	}

	existing, err := s.store.GetUserByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("looking up email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u := &User{
		ID:           s.newID(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	return s.authResult(u)
}

// Login checks credentials. Unknown email and wrong password are indistinguishable.
func (s *Service) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	if err := check(in); err != nil {
		return nil, err
	}

	u, err := s.store.GetUserByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("looking up email: %w", err)
	}
	if u == nil || !auth.CheckPassword(u.PasswordHash, in.Password) {
		return nil, Errorf(KindValidation, msgBadCredentials)
	}

	return s.authResult(u)
}

// User returns the account with the given id.
func (s *Service) User(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting user %s: %w", id, err)
	}
	if u == nil {
		return nil, Errorf(KindNotFound, "User not found")
	}
	return u, nil
}

func (s *Service) authResult(u *User) (*AuthResult, error) {
	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}
	return &AuthResult{Token: token, User: u}, nil
}
