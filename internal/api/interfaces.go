package api

import (
	"context"

	"github.com/google/uuid"

	"github.com/neexbeast/pickyourtrail/internal/travel"
)

// Accounts defines the user operations needed by handlers and the auth guard.
type Accounts interface {
	Register(ctx context.Context, in travel.RegisterInput) (*travel.AuthResult, error)
	Login(ctx context.Context, in travel.LoginInput) (*travel.AuthResult, error)
	User(ctx context.Context, id uuid.UUID) (*travel.User, error)
}

// Catalog defines the destination and package operations needed by handlers.
type Catalog interface {
	ListDestinations(ctx context.Context, f travel.DestinationFilter) ([]travel.Destination, error)
	Destination(ctx context.Context, id string) (*travel.Destination, error)
	CreateDestination(ctx context.Context, d *travel.Destination) (*travel.Destination, error)
	UpdateDestination(ctx context.Context, id string, patch []byte) (*travel.Destination, error)
	DeleteDestination(ctx context.Context, id string) error

	ListPackages(ctx context.Context, f travel.PackageFilter) ([]travel.Package, error)
	Package(ctx context.Context, id string) (*travel.Package, error)
	CreatePackage(ctx context.Context, p *travel.Package) (*travel.Package, error)
	UpdatePackage(ctx context.Context, id string, patch []byte) (*travel.Package, error)
	DeletePackage(ctx context.Context, id string) error
}

// Bookings defines the booking operations needed by handlers.
type Bookings interface {
	CreateBooking(ctx context.Context, user *travel.User, in travel.BookingInput) (*travel.Booking, error)
	ListBookings(ctx context.Context, user *travel.User) ([]travel.Booking, error)
	Booking(ctx context.Context, user *travel.User, id string) (*travel.Booking, error)
	CancelBooking(ctx context.Context, user *travel.User, id string) (*travel.Booking, error)
}

// Reviews defines the review operations needed by handlers.
type Reviews interface {
	ListReviews(ctx context.Context, f travel.ReviewFilter) ([]travel.Review, error)
	CreateReview(ctx context.Context, user *travel.User, in travel.ReviewInput) (*travel.Review, error)
}

// Service is everything the HTTP layer calls. *travel.Service satisfies it.
type Service interface {
	Accounts
	Catalog
	Bookings
	Reviews
}

var _ Service = (*travel.Service)(nil)

// TokenVerifier resolves a bearer token to the user id it was issued for.
type TokenVerifier interface {
	Verify(token string) (uuid.UUID, error)
}
