package repository

import (
	"context"

	"github.com/touristapp/booking-backend/internal/models"
	"gorm.io/gorm"
)

type SpotRatingRepository interface {
	Create(ctx context.Context, tx *gorm.DB, rating *models.SpotRating) error
	Save(ctx context.Context, tx *gorm.DB, rating *models.SpotRating) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	FindByID(ctx context.Context, tx *gorm.DB, id uint) (*models.SpotRating, error)
	Aggregate(ctx context.Context, tx *gorm.DB, spotID uint) (avg float64, count int64, err error)
	FindBySpot(ctx context.Context, spotID uint) ([]models.SpotRating, error)
	FindByTourist(ctx context.Context, touristID uint) ([]models.SpotRating, error)
	GetDB() *gorm.DB
}

type spotRatingRepository struct {
	db *gorm.DB
}

func NewSpotRatingRepository(db *gorm.DB) SpotRatingRepository {
	return &spotRatingRepository{db: db}
}

func (r *spotRatingRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *spotRatingRepository) Create(ctx context.Context, tx *gorm.DB, rating *models.SpotRating) error {
	return tx.WithContext(ctx).Create(rating).Error
}

func (r *spotRatingRepository) Save(ctx context.Context, tx *gorm.DB, rating *models.SpotRating) error {
	return tx.WithContext(ctx).Save(rating).Error
}

func (r *spotRatingRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	return tx.WithContext(ctx).Delete(&models.SpotRating{}, id).Error
}

func (r *spotRatingRepository) FindByID(ctx context.Context, tx *gorm.DB, id uint) (*models.SpotRating, error) {
	var rating models.SpotRating
	if err := tx.WithContext(ctx).First(&rating, id).Error; err != nil {
		return nil, err
	}
	return &rating, nil
}

// Aggregate recomputes the full mean and count over every rating for the
// spot. Returns 0, 0 when no ratings exist.
func (r *spotRatingRepository) Aggregate(ctx context.Context, tx *gorm.DB, spotID uint) (float64, int64, error) {
	var result struct {
		Avg   float64
		Count int64
	}
	err := tx.WithContext(ctx).
		Model(&models.SpotRating{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("tourist_spot_id = ?", spotID).
		Scan(&result).Error
	return result.Avg, result.Count, err
}

func (r *spotRatingRepository) FindBySpot(ctx context.Context, spotID uint) ([]models.SpotRating, error) {
	var ratings []models.SpotRating
	err := r.db.WithContext(ctx).
		Where("tourist_spot_id = ?", spotID).
		Order("created_at DESC").
		Find(&ratings).Error
	return ratings, err
}

func (r *spotRatingRepository) FindByTourist(ctx context.Context, touristID uint) ([]models.SpotRating, error) {
	var ratings []models.SpotRating
	err := r.db.WithContext(ctx).
		Where("tourist_id = ?", touristID).
		Order("created_at DESC").
		Find(&ratings).Error
	return ratings, err
}
