package travel_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neexbeast/pickyourtrail/internal/travel"
)

func TestAverageRating(t *testing.T) {
	tests := []struct {
		ratings   []int
		wantAvg   float64
		wantCount int
	}{
		{nil, 0, 0},
		{[]int{5}, 5, 1},
		{[]int{4, 2}, 3, 2},
		{[]int{5, 4, 4}, 13.0 / 3.0, 3},
	}
	for _, tt := range tests {
		avg, n := travel.AverageRating(tt.ratings)
		assert.InDelta(t, tt.wantAvg, avg, 1e-9)
		assert.Equal(t, tt.wantCount, n)
	}
}

func TestCreateReview_RecomputesPackageRating(t *testing.T) {
	f := newFixture()
	alice := f.addUser("alice", false)
	bob := f.addUser("bob", false)
	p := f.addPackage(t, uuid.New(), 500)

	_, err := f.svc.CreateReview(context.Background(), alice, travel.ReviewInput{
		PackageID: p.ID.String(), Rating: 4, Comment: "Great",
	})
	require.NoError(t, err)
	_, err = f.svc.CreateReview(context.Background(), bob, travel.ReviewInput{
		PackageID: p.ID.String(), Rating: 2, Comment: "Meh",
	})
	require.NoError(t, err)

	stored := f.store.packages[p.ID]
	assert.Equal(t, 3.0, stored.Rating)
	assert.Equal(t, 2, stored.ReviewCount)
	assert.Equal(t, 2, f.cache.deleted[p.ID])
}

func TestCreateReview_BothTargets(t *testing.T) {
	f := newFixture()
	alice := f.addUser("alice", false)
	d := f.addDestination(t, "Bali")
	p := f.addPackage(t, d.ID, 500)

	r, err := f.svc.CreateReview(context.Background(), alice, travel.ReviewInput{
		PackageID: p.ID.String(), DestinationID: d.ID.String(), Rating: 5, Comment: "Perfect",
	})
	require.NoError(t, err)
	require.NotNil(t, r.PackageID)
	require.NotNil(t, r.DestinationID)
	assert.Equal(t, []string{}, r.Images)

	assert.Equal(t, 5.0, f.store.packages[p.ID].Rating)
	assert.Equal(t, 5.0, f.store.destinations[d.ID].Rating)
	assert.Equal(t, 1, f.store.destinations[d.ID].ReviewCount)
}

func TestCreateReview_RequiresTarget(t *testing.T) {
	f := newFixture()
	_, err := f.svc.CreateReview(context.Background(), f.addUser("alice", false), travel.ReviewInput{
		Rating: 5, Comment: "Nice",
	})
	var te *travel.Error
	require.ErrorAs(t, err, &te)
	assert.Equal(t, travel.KindValidation, te.Kind)
	assert.Equal(t, "packageId or destinationId is required", te.Message)
}

func TestCreateReview_RatingOutOfRange(t *testing.T) {
	f := newFixture()
	p := f.addPackage(t, uuid.New(), 500)

	for rating, want := range map[int]string{
		6: "rating must be at most 5",
		0: "rating is required",
	} {
		_, err := f.svc.CreateReview(context.Background(), f.addUser("alice", false), travel.ReviewInput{
			PackageID: p.ID.String(), Rating: rating, Comment: "x",
		})
		var te *travel.Error
		require.ErrorAs(t, err, &te)
		assert.Equal(t, want, te.Message)
	}
	assert.Empty(t, f.store.reviews)
}

func TestCreateReview_UnknownTarget(t *testing.T) {
	f := newFixture()
	alice := f.addUser("alice", false)

	_, err := f.svc.CreateReview(context.Background(), alice, travel.ReviewInput{
		DestinationID: uuid.NewString(), Rating: 3, Comment: "x",
	})
	var te *travel.Error
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "Destination not found", te.Message)
	assert.Empty(t, f.store.reviews)
}

func TestCreateReview_RatingFailureKeepsReview(t *testing.T) {
	f := newFixture()
	p := f.addPackage(t, uuid.New(), 500)
	f.store.failRatings = errors.New("write conflict")

	_, err := f.svc.CreateReview(context.Background(), f.addUser("alice", false), travel.ReviewInput{
		PackageID: p.ID.String(), Rating: 4, Comment: "x",
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, travel.ErrValidation)
	assert.Len(t, f.store.reviews, 1)
	assert.Zero(t, f.store.packages[p.ID].ReviewCount)
}

func TestListReviews_PopulatesReviewerName(t *testing.T) {
	f := newFixture()
	alice := f.addUser("alice", false)
	p := f.addPackage(t, uuid.New(), 500)
	other := f.addPackage(t, uuid.New(), 600)

	for _, pkg := range []*travel.Package{p, other} {
		_, err := f.svc.CreateReview(context.Background(), alice, travel.ReviewInput{
			PackageID: pkg.ID.String(), Rating: 4, Comment: "x",
		})
		require.NoError(t, err)
	}

	rs, err := f.svc.ListReviews(context.Background(), travel.ReviewFilter{PackageID: &p.ID})
	require.NoError(t, err)
	require.Len(t, rs, 1)
	require.NotNil(t, rs[0].User)
	assert.Equal(t, "alice", rs[0].User.Name)
	assert.Empty(t, rs[0].User.Email)
}
