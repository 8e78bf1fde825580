package travel

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// TotalPrice is the price of a booking: the package price per traveler.
func TotalPrice(packagePrice float64, travelers int) float64 {
	return packagePrice * float64(travelers)
}

// CreateBooking books a package for user. The total price is a snapshot of the
// package price at this moment and is never recomputed. There is no capacity
// or date-overlap check.
func (s *Service) CreateBooking(ctx context.Context, user *User, in BookingInput) (*Booking, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return nil, Errorf(KindValidation, "startDate and endDate are required")
	}

	pkgID, err := parseID(in.PackageID, "Package")
	if err != nil {
		return nil, err
	}
	pkg, err := s.store.GetPackage(ctx, pkgID)
	if err != nil {
		return nil, fmt.Errorf("getting package %s: %w", pkgID, err)
	}
	if pkg == nil {
		return nil, Errorf(KindNotFound, "Package not found")
	}

	b := &Booking{
		ID:              s.newID(),
		UserID:          user.ID,
		PackageID:       pkg.ID,
		StartDate:       in.StartDate.Time,
		EndDate:         in.EndDate.Time,
		Travelers:       in.Travelers,
		TotalPrice:      TotalPrice(pkg.Price, in.Travelers),
		Status:          StatusPending,
		PaymentStatus:   PaymentPending,
		SpecialRequests: in.SpecialRequests,
		CreatedAt:       s.now(),
	}
	if err := s.store.CreateBooking(ctx, b); err != nil {
		return nil, fmt.Errorf("creating booking: %w", err)
	}
	return b, nil
}

// ListBookings returns the user's own bookings, newest first, packages populated.
func (s *Service) ListBookings(ctx context.Context, user *User) ([]Booking, error) {
	bs, err := s.store.ListBookingsByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("listing bookings for %s: %w", user.ID, err)
	}
	if bs == nil {
		bs = []Booking{}
	}
	if err := s.populatePackages(ctx, bs); err != nil {
		return nil, err
	}
	return bs, nil
}

// Booking returns one booking to its owner or an admin, with package and user populated.
func (s *Service) Booking(ctx context.Context, user *User, rawID string) (*Booking, error) {
	b, err := s.ownedBooking(ctx, user, rawID, "Not authorized to view this booking")
	if err != nil {
		return nil, err
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.loadPackage(gCtx, b.PackageID)
		b.Package = p
		return err
	})
	g.Go(func() error {
		u, err := s.store.GetUser(gCtx, b.UserID)
		if err != nil {
			return fmt.Errorf("getting user %s: %w", b.UserID, err)
		}
		if u != nil {
			b.User = &UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("populating booking %s: %w", b.ID, err)
	}
	return b, nil
}

// CancelBooking marks a booking cancelled. The transition is allowed from any
// status, including completed and already cancelled.
func (s *Service) CancelBooking(ctx context.Context, user *User, rawID string) (*Booking, error) {
	b, err := s.ownedBooking(ctx, user, rawID, "Not authorized to cancel this booking")
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateBookingStatus(ctx, b.ID, StatusCancelled); err != nil {
		return nil, fmt.Errorf("cancelling booking %s: %w", b.ID, err)
	}
	b.Status = StatusCancelled
	return b, nil
}

func (s *Service) ownedBooking(ctx context.Context, user *User, rawID, denied string) (*Booking, error) {
	id, err := parseID(rawID, "Booking")
	if err != nil {
		return nil, err
	}
	b, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting booking %s: %w", id, err)
	}
	if b == nil {
		return nil, Errorf(KindNotFound, "Booking not found")
	}
	if b.UserID != user.ID && !user.IsAdmin {
		return nil, Errorf(KindForbidden, "%s", denied)
	}
	return b, nil
}
