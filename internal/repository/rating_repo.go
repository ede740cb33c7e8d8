package repository

import (
	"context"

	"github.com/touristapp/booking-backend/internal/models"
	"gorm.io/gorm"
)

type RatingRepository interface {
	Create(ctx context.Context, tx *gorm.DB, rating *models.Rating) error
	Aggregate(ctx context.Context, tx *gorm.DB, packageID uint) (avg float64, count int64, err error)
	FindByPackage(ctx context.Context, packageID uint) ([]models.Rating, error)
	FindByTourist(ctx context.Context, touristID uint) ([]models.Rating, error)
	GetDB() *gorm.DB
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *ratingRepository) Create(ctx context.Context, tx *gorm.DB, rating *models.Rating) error {
	return tx.WithContext(ctx).Create(rating).Error
}

// Aggregate recomputes the full mean and count over every rating for the
// package. Returns 0, 0 when no ratings exist.
func (r *ratingRepository) Aggregate(ctx context.Context, tx *gorm.DB, packageID uint) (float64, int64, error) {
	var result struct {
		Avg   float64
		Count int64
	}
	err := tx.WithContext(ctx).
		Model(&models.Rating{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("tour_package_id = ?", packageID).
		Scan(&result).Error
	return result.Avg, result.Count, err
}

func (r *ratingRepository) FindByPackage(ctx context.Context, packageID uint) ([]models.Rating, error) {
	var ratings []models.Rating
	err := r.db.WithContext(ctx).
		Where("tour_package_id = ?", packageID).
		Order("created_at DESC").
		Find(&ratings).Error
	return ratings, err
}

func (r *ratingRepository) FindByTourist(ctx context.Context, touristID uint) ([]models.Rating, error) {
	var ratings []models.Rating
	err := r.db.WithContext(ctx).
		Where("tourist_id = ?", touristID).
		Order("created_at DESC").
		Find(&ratings).Error
	return ratings, err
}
