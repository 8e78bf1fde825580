package travel_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/neexbeast/pickyourtrail/internal/auth"
	"github.com/neexbeast/pickyourtrail/internal/travel"
)

// memStore is an in-memory travel.Store. It is safe for the concurrent
// populate and rating goroutines the service starts.
type memStore struct {
	mu           sync.Mutex
	users        map[uuid.UUID]travel.User
	destinations map[uuid.UUID]travel.Destination
	packages     map[uuid.UUID]travel.Package
	bookings     map[uuid.UUID]travel.Booking
	reviews      []travel.Review

	// failRatings makes the next rating write fail.
	failRatings error
	// beforeUpdate runs, with mu held, at the start of every catalog update.
	beforeUpdate func()
}

func newMemStore() *memStore {
	return &memStore{
		users:        map[uuid.UUID]travel.User{},
		destinations: map[uuid.UUID]travel.Destination{},
		packages:     map[uuid.UUID]travel.Package{},
		bookings:     map[uuid.UUID]travel.Booking{},
	}
}

var _ travel.Store = (*memStore)(nil)

func (m *memStore) CreateUser(_ context.Context, u *travel.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return travel.ErrEmailTaken
		}
	}
	m.users[u.ID] = *u
	return nil
}

func (m *memStore) GetUser(_ context.Context, id uuid.UUID) (*travel.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (*travel.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (m *memStore) GetUsers(_ context.Context, ids []uuid.UUID) ([]travel.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []travel.User
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memStore) ListDestinations(_ context.Context, f travel.DestinationFilter) ([]travel.Destination, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []travel.Destination
	for _, d := range m.destinations {
		if f.Region != "" && d.Region != f.Region {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) GetDestination(_ context.Context, id uuid.UUID) (*travel.Destination, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.destinations[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (m *memStore) GetDestinations(_ context.Context, ids []uuid.UUID) ([]travel.Destination, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []travel.Destination
	for _, id := range ids {
		if d, ok := m.destinations[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *memStore) CreateDestination(_ context.Context, d *travel.Destination) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.destinations[d.ID] = *d
	return nil
}

func (m *memStore) UpdateDestination(_ context.Context, d *travel.Destination, withRating bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.beforeUpdate != nil {
		m.beforeUpdate()
	}
	stored, ok := m.destinations[d.ID]
	if !ok {
		return false, nil
	}
	next := *d
	if !withRating {
		next.Rating, next.ReviewCount = stored.Rating, stored.ReviewCount
	}
	m.destinations[d.ID] = next
	return true, nil
}

func (m *memStore) DeleteDestination(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.destinations[id]; !ok {
		return false, nil
	}
	delete(m.destinations, id)
	return true, nil
}

func (m *memStore) SetDestinationRating(_ context.Context, id uuid.UUID, rating float64, count int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failRatings != nil {
		return m.failRatings
	}
	d := m.destinations[id]
	d.Rating, d.ReviewCount = rating, count
	m.destinations[id] = d
	return nil
}

func (m *memStore) ListPackages(_ context.Context, f travel.PackageFilter) ([]travel.Package, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []travel.Package
	for _, p := range m.packages {
		if f.DestinationID != nil && p.DestinationID != *f.DestinationID {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) GetPackage(_ context.Context, id uuid.UUID) (*travel.Package, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.packages[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *memStore) GetPackages(_ context.Context, ids []uuid.UUID) ([]travel.Package, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []travel.Package
	for _, id := range ids {
		if p, ok := m.packages[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) CreatePackage(_ context.Context, p *travel.Package) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.packages[p.ID] = *p
	return nil
}

func (m *memStore) UpdatePackage(_ context.Context, p *travel.Package, withRating bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.beforeUpdate != nil {
		m.beforeUpdate()
	}
	stored, ok := m.packages[p.ID]
	if !ok {
		return false, nil
	}
	next := *p
	if !withRating {
		next.Rating, next.ReviewCount = stored.Rating, stored.ReviewCount
	}
	m.packages[p.ID] = next
	return true, nil
}

func (m *memStore) DeletePackage(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.packages[id]; !ok {
		return false, nil
	}
	delete(m.packages, id)
	return true, nil
}

func (m *memStore) SetPackageRating(_ context.Context, id uuid.UUID, rating float64, count int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failRatings != nil {
		return m.failRatings
	}
	p := m.packages[id]
	p.Rating, p.ReviewCount = rating, count
	m.packages[id] = p
	return nil
}

func (m *memStore) CreateBooking(_ context.Context, b *travel.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[b.ID] = *b
	return nil
}

func (m *memStore) GetBooking(_ context.Context, id uuid.UUID) (*travel.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (m *memStore) ListBookingsByUser(_ context.Context, userID uuid.UUID) ([]travel.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []travel.Booking
	for _, b := range m.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) UpdateBookingStatus(_ context.Context, id uuid.UUID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return errors.New("no such booking")
	}
	b.Status = status
	m.bookings[id] = b
	return nil
}

func (m *memStore) CreateReview(_ context.Context, r *travel.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reviews = append(m.reviews, *r)
	return nil
}

func (m *memStore) ListReviews(_ context.Context, f travel.ReviewFilter) ([]travel.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []travel.Review
	for i := len(m.reviews) - 1; i >= 0; i-- {
		r := m.reviews[i]
		if f.PackageID != nil && (r.PackageID == nil || *r.PackageID != *f.PackageID) {
			continue
		}
		if f.DestinationID != nil && (r.DestinationID == nil || *r.DestinationID != *f.DestinationID) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *memStore) PackageRatings(_ context.Context, id uuid.UUID) ([]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []int
	for _, r := range m.reviews {
		if r.PackageID != nil && *r.PackageID == id {
			out = append(out, r.Rating)
		}
	}
	return out, nil
}

func (m *memStore) DestinationRatings(_ context.Context, id uuid.UUID) ([]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []int
	for _, r := range m.reviews {
		if r.DestinationID != nil && *r.DestinationID == id {
			out = append(out, r.Rating)
		}
	}
	return out, nil
}

// memCache is a map-backed travel.Cache that counts deletions.
type memCache struct {
	mu           sync.Mutex
	destinations map[uuid.UUID]travel.Destination
	packages     map[uuid.UUID]travel.Package
	deleted      map[uuid.UUID]int
	err          error
}

func newMemCache() *memCache {
	return &memCache{
		destinations: map[uuid.UUID]travel.Destination{},
		packages:     map[uuid.UUID]travel.Package{},
		deleted:      map[uuid.UUID]int{},
	}
}

func (c *memCache) GetDestination(_ context.Context, id uuid.UUID) (*travel.Destination, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	d, ok := c.destinations[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (c *memCache) SetDestination(_ context.Context, d *travel.Destination) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.destinations[d.ID] = *d
	return nil
}

func (c *memCache) DeleteDestination(_ context.Context, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleted[id]++
	delete(c.destinations, id)
	return c.err
}

func (c *memCache) GetPackage(_ context.Context, id uuid.UUID) (*travel.Package, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	p, ok := c.packages[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (c *memCache) SetPackage(_ context.Context, p *travel.Package) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	stored := *p
	stored.Destination = nil
	c.packages[p.ID] = stored
	return nil
}

func (c *memCache) DeletePackage(_ context.Context, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleted[id]++
	delete(c.packages, id)
	return c.err
}

// ---- fixtures ----

var tokens = auth.NewTokens("test-secret", time.Hour)

type fixture struct {
	svc   *travel.Service
	store *memStore
	cache *memCache
}

func newFixture() *fixture {
	store := newMemStore()
	cache := newMemCache()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &fixture{
		svc:   travel.NewService(store, cache, tokens, log),
		store: store,
		cache: cache,
	}
}

func (f *fixture) addUser(name string, admin bool) *travel.User {
	u := travel.User{ID: uuid.New(), Name: name, Email: name + "@example.com", IsAdmin: admin, CreatedAt: time.Now()}
	f.store.users[u.ID] = u
	return &u
}

func (f *fixture) addDestination(t *testing.T, name string) *travel.Destination {
	t.Helper()
	d, err := f.svc.CreateDestination(context.Background(), &travel.Destination{
		Name:        name,
		Country:     "Indonesia",
		Region:      "Asia",
		Description: "Island of the gods",
		Image:       "bali.jpg",
		PriceRange:  "$$",
	})
	require.NoError(t, err)
	return d
}

func (f *fixture) addPackage(t *testing.T, destID uuid.UUID, price float64) *travel.Package {
	t.Helper()
	p, err := f.svc.CreatePackage(context.Background(), &travel.Package{
		Name:          "Escape",
		DestinationID: destID,
		Description:   "Seven days",
		Duration:      7,
		Price:         price,
		Image:         "pkg.jpg",
	})
	require.NoError(t, err)
	return p
}
