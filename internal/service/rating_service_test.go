package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/touristapp/booking-backend/internal/models"
	"gorm.io/gorm"
)

// --- Mock RatingRepository ---

type mockRatingRepo struct {
	createFn        func(ctx context.Context, tx *gorm.DB, rating *models.Rating) error
	findByPackageFn func(ctx context.Context, packageID uint) ([]models.Rating, error)
	findByTouristFn func(ctx context.Context, touristID uint) ([]models.Rating, error)
}

func (m *mockRatingRepo) Create(ctx context.Context, tx *gorm.DB, rating *models.Rating) error {
	if m.createFn != nil {
		return m.createFn(ctx, tx, rating)
	}
	return nil
}
func (m *mockRatingRepo) Aggregate(ctx context.Context, tx *gorm.DB, packageID uint) (float64, int64, error) {
	return 0, 0, nil
}
func (m *mockRatingRepo) FindByPackage(ctx context.Context, packageID uint) ([]models.Rating, error) {
	return m.findByPackageFn(ctx, packageID)
}
func (m *mockRatingRepo) FindByTourist(ctx context.Context, touristID uint) ([]models.Rating, error) {
	return m.findByTouristFn(ctx, touristID)
}
func (m *mockRatingRepo) GetDB() *gorm.DB { return nil }

// --- Tests ---

func TestCreateRating_RejectsOutOfRangeValues(t *testing.T) {
	svc := NewRatingService(&mockRatingRepo{}, &mockBookingRepo{}, &mockPackageRepo{}, nil)

	for _, value := range []int{-1, 0, 6, 100} {
		_, err := svc.CreateRating(context.Background(), CreateRatingInput{
			TourPackageID: 1,
			TouristID:     1,
			Rating:        value,
		})
		assert.ErrorIs(t, err, ErrInvalidRatingValue, "rating %d must be rejected", value)
	}
}

func TestListPackageRatings_Passthrough(t *testing.T) {
	repo := &mockRatingRepo{
		findByPackageFn: func(ctx context.Context, packageID uint) ([]models.Rating, error) {
			return []models.Rating{{ID: 1, TourPackageID: packageID, Rating: 5}}, nil
		},
	}
	svc := NewRatingService(repo, &mockBookingRepo{}, &mockPackageRepo{}, nil)

	ratings, err := svc.ListPackageRatings(context.Background(), 7)
	assert.NoError(t, err)
	assert.Len(t, ratings, 1)
	assert.Equal(t, uint(7), ratings[0].TourPackageID)
}

func TestListUserRatings_Passthrough(t *testing.T) {
	repo := &mockRatingRepo{
		findByTouristFn: func(ctx context.Context, touristID uint) ([]models.Rating, error) {
			return []models.Rating{{ID: 2, TouristID: touristID, Rating: 4}}, nil
		},
	}
	svc := NewRatingService(repo, &mockBookingRepo{}, &mockPackageRepo{}, nil)

	ratings, err := svc.ListUserRatings(context.Background(), 3)
	assert.NoError(t, err)
	assert.Len(t, ratings, 1)
	assert.Equal(t, uint(3), ratings[0].TouristID)
}
