package travel

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Booking statuses.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Payment statuses.
const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

// User is a registered account. PasswordHash never leaves the server.
type User struct {
	ID           uuid.UUID `json:"_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserSummary is the subset of a user embedded into other documents.
type UserSummary struct {
	ID    uuid.UUID `json:"_id"`
	Name  string    `json:"name"`
	Email string    `json:"email,omitempty"`
}

// Destination is a place packages are sold for.
type Destination struct {
	ID              uuid.UUID `json:"_id"`
	Name            string    `json:"name" validate:"required"`
	Country         string    `json:"country" validate:"required"`
	Region          string    `json:"region" validate:"required"`
	Description     string    `json:"description" validate:"required"`
	Image           string    `json:"image" validate:"required"`
	Gallery         []string  `json:"gallery"`
	Highlights      []string  `json:"highlights"`
	PriceRange      string    `json:"priceRange" validate:"required"`
	BestTimeToVisit string    `json:"bestTimeToVisit,omitempty"`
	Rating          float64   `json:"rating" validate:"min=0,max=5"`
	ReviewCount     int       `json:"reviewCount" validate:"min=0"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ItineraryDay is one entry of a package's day-by-day plan.
type ItineraryDay struct {
	Day         int      `json:"day"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Activities  []string `json:"activities"`
}

// Package is a sellable tour of a destination. Destination is populated on reads.
type Package struct {
	ID            uuid.UUID      `json:"_id"`
	Name          string         `json:"name" validate:"required"`
	DestinationID uuid.UUID      `json:"destinationId" validate:"required"`
	Destination   *Destination   `json:"destination,omitempty"`
	Description   string         `json:"description" validate:"required"`
	Duration      int            `json:"duration" validate:"gt=0"`
	Price         float64        `json:"price" validate:"gt=0"`
	Image         string         `json:"image" validate:"required"`
	Gallery       []string       `json:"gallery"`
	Inclusions    []string       `json:"inclusions"`
	Exclusions    []string       `json:"exclusions"`
	Itinerary     []ItineraryDay `json:"itinerary"`
	Featured      bool           `json:"featured"`
	Rating        float64        `json:"rating" validate:"min=0,max=5"`
	ReviewCount   int            `json:"reviewCount" validate:"min=0"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// UnmarshalJSON accepts "destination" either as the populated document or, as
// admin clients send it on writes, as a bare destination id. A bare id takes
// precedence over destinationId.
func (p *Package) UnmarshalJSON(b []byte) error {
	type plain Package
	aux := struct {
		*plain
		Destination json.RawMessage `json:"destination"`
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	raw := bytes.TrimSpace(aux.Destination)
	switch {
	case len(raw) == 0:
	case bytes.Equal(raw, []byte("null")):
		p.Destination = nil
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return fmt.Errorf("destination: invalid id %q", s)
		}
		p.DestinationID = id
		p.Destination = nil
	default:
		var d Destination
		if err := json.Unmarshal(raw, &d); err != nil {
			return fmt.Errorf("destination: %w", err)
		}
		p.Destination = &d
	}
	return nil
}

// Booking is a user's reservation of a package. TotalPrice is fixed at creation.
type Booking struct {
	ID              uuid.UUID    `json:"_id"`
	UserID          uuid.UUID    `json:"userId"`
	User            *UserSummary `json:"user,omitempty"`
	PackageID       uuid.UUID    `json:"packageId"`
	Package         *Package     `json:"package,omitempty"`
	StartDate       time.Time    `json:"startDate"`
	EndDate         time.Time    `json:"endDate"`
	Travelers       int          `json:"travelers"`
	TotalPrice      float64      `json:"totalPrice"`
	Status          string       `json:"status"`
	PaymentStatus   string       `json:"paymentStatus"`
	SpecialRequests string       `json:"specialRequests,omitempty"`
	CreatedAt       time.Time    `json:"createdAt"`
}

// Review is a rating of a package and/or a destination. Reviews are immutable.
type Review struct {
	ID            uuid.UUID    `json:"_id"`
	UserID        uuid.UUID    `json:"userId"`
	User          *UserSummary `json:"user,omitempty"`
	PackageID     *uuid.UUID   `json:"packageId,omitempty"`
	DestinationID *uuid.UUID   `json:"destinationId,omitempty"`
	Rating        int          `json:"rating"`
	Comment       string       `json:"comment"`
	Images        []string     `json:"images"`
	CreatedAt     time.Time    `json:"createdAt"`
}

// DestinationFilter narrows ListDestinations. Zero values mean "no filter".
type DestinationFilter struct {
	Region string
	Search string
}

// PackageFilter narrows ListPackages. Nil pointers mean "no filter".
type PackageFilter struct {
	DestinationID *uuid.UUID
	Featured      *bool
	MinPrice      *float64
	MaxPrice      *float64
	Duration      *int
}

// ReviewFilter narrows ListReviews.
type ReviewFilter struct {
	PackageID     *uuid.UUID
	DestinationID *uuid.UUID
}

// RegisterInput is the body of POST /api/auth/register.
type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginInput is the body of POST /api/auth/login.
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// BookingInput is the body of POST /api/bookings.
type BookingInput struct {
	PackageID       string `json:"packageId" validate:"required"`
	StartDate       Date   `json:"startDate"`
	EndDate         Date   `json:"endDate"`
	Travelers       int    `json:"travelers" validate:"required,min=1"`
	SpecialRequests string `json:"specialRequests"`
}

// ReviewInput is the body of POST /api/reviews.
type ReviewInput struct {
	PackageID     string   `json:"packageId"`
	DestinationID string   `json:"destinationId"`
	Rating        int      `json:"rating" validate:"required,min=1,max=5"`
	Comment       string   `json:"comment" validate:"required"`
	Images        []string `json:"images"`
}
