package travel

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// UserStore persists users. Getters return nil, nil when nothing matches.
type UserStore interface {
	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUsers(ctx context.Context, ids []uuid.UUID) ([]User, error)
}

// DestinationStore persists destinations. Update and Delete report whether a row
// matched. Update leaves the rating aggregate alone unless withRating is set.
type DestinationStore interface {
	ListDestinations(ctx context.Context, f DestinationFilter) ([]Destination, error)
	GetDestination(ctx context.Context, id uuid.UUID) (*Destination, error)
	GetDestinations(ctx context.Context, ids []uuid.UUID) ([]Destination, error)
	CreateDestination(ctx context.Context, d *Destination) error
	UpdateDestination(ctx context.Context, d *Destination, withRating bool) (bool, error)
	DeleteDestination(ctx context.Context, id uuid.UUID) (bool, error)
	SetDestinationRating(ctx context.Context, id uuid.UUID, rating float64, count int) error
}

// PackageStore persists packages. Returned packages are never populated. Update
// leaves the rating aggregate alone unless withRating is set.
type PackageStore interface {
	ListPackages(ctx context.Context, f PackageFilter) ([]Package, error)
	GetPackage(ctx context.Context, id uuid.UUID) (*Package, error)
	GetPackages(ctx context.Context, ids []uuid.UUID) ([]Package, error)
	CreatePackage(ctx context.Context, p *Package) error
	UpdatePackage(ctx context.Context, p *Package, withRating bool) (bool, error)
	DeletePackage(ctx context.Context, id uuid.UUID) (bool, error)
	SetPackageRating(ctx context.Context, id uuid.UUID, rating float64, count int) error
}

// BookingStore persists bookings. ListBookingsByUser is newest first.
type BookingStore interface {
	CreateBooking(ctx context.Context, b *Booking) error
	GetBooking(ctx context.Context, id uuid.UUID) (*Booking, error)
	ListBookingsByUser(ctx context.Context, userID uuid.UUID) ([]Booking, error)
	UpdateBookingStatus(ctx context.Context, id uuid.UUID, status string) error
}

// ReviewStore persists reviews. ListReviews is newest first.
type ReviewStore interface {
	CreateReview(ctx context.Context, r *Review) error
	ListReviews(ctx context.Context, f ReviewFilter) ([]Review, error)
	PackageRatings(ctx context.Context, packageID uuid.UUID) ([]int, error)
	DestinationRatings(ctx context.Context, destinationID uuid.UUID) ([]int, error)
}

// Store is everything the service needs from persistence.
type Store interface {
	UserStore
	DestinationStore
	PackageStore
	BookingStore
	ReviewStore
}

// Cache holds catalog documents by id. A miss is nil, nil.
type Cache interface {
	GetDestination(ctx context.Context, id uuid.UUID) (*Destination, error)
	SetDestination(ctx context.Context, d *Destination) error
	DeleteDestination(ctx context.Context, id uuid.UUID) error
	GetPackage(ctx context.Context, id uuid.UUID) (*Package, error)
	SetPackage(ctx context.Context, p *Package) error
	DeletePackage(ctx context.Context, id uuid.UUID) error
}

// TokenIssuer mints bearer tokens for a user id.
type TokenIssuer interface {
	Issue(userID uuid.UUID) (string, error)
}

// Service implements the booking site's use cases on top of a Store.
type Service struct {
	store  Store
	cache  Cache
	tokens TokenIssuer
	log    *slog.Logger

	now   func() time.Time
	newID func() uuid.UUID
}

// NewService wires a Service. A nil cache disables caching.
func NewService(store Store, cache Cache, tokens TokenIssuer, log *slog.Logger) *Service {
	if cache == nil {
		cache = nopCache{}
	}
	return &Service{
		store:  store,
		cache:  cache,
		tokens: tokens,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.New,
	}
}

// parseID turns a path or body id into a uuid. Malformed ids are reported as
// not found, the same as well-formed ids with no record.
func parseID(raw, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, Errorf(KindNotFound, "%s not found", what)
	}
	return id, nil
}

type nopCache struct{}

func (nopCache) GetDestination(context.Context, uuid.UUID) (*Destination, error) { return nil, nil }
func (nopCache) SetDestination(context.Context, *Destination) error              { return nil }
func (nopCache) DeleteDestination(context.Context, uuid.UUID) error              { return nil }
func (nopCache) GetPackage(context.Context, uuid.UUID) (*Package, error)         { return nil, nil }
func (nopCache) SetPackage(context.Context, *Package) error                      { return nil }
func (nopCache) DeletePackage(context.Context, uuid.UUID) error                  { return nil }
