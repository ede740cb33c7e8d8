package repository

import (
	"context"

	"github.com/touristapp/booking-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SpotFilter narrows ListSpots results. Nil fields are ignored.
type SpotFilter struct {
	Search   string
	Region   string
	Category string
	Status   *models.SpotStatus
	Offset   int
	Limit    int
}

type SpotRepository interface {
	Create(ctx context.Context, spot *models.TouristSpot) error
	FindByID(ctx context.Context, id uint) (*models.TouristSpot, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.TouristSpot, error)
	List(ctx context.Context, filter SpotFilter) ([]models.TouristSpot, error)
	Save(ctx context.Context, spot *models.TouristSpot) error
	Delete(ctx context.Context, id uint) (int64, error)
	UpdateRatingStats(ctx context.Context, tx *gorm.DB, id uint, avg float64, count int64) error
	GetDB() *gorm.DB
}

type spotRepository struct {
	db *gorm.DB
}

func NewSpotRepository(db *gorm.DB) SpotRepository {
	return &spotRepository{db: db}
}

func (r *spotRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *spotRepository) Create(ctx context.Context, spot *models.TouristSpot) error {
	return r.db.WithContext(ctx).Create(spot).Error
}

func (r *spotRepository) FindByID(ctx context.Context, id uint) (*models.TouristSpot, error) {
	var spot models.TouristSpot
	if err := r.db.WithContext(ctx).First(&spot, id).Error; err != nil {
		return nil, err
	}
	return &spot, nil
}

// FindByIDForUpdate locks the spot row within the given transaction,
// serializing concurrent rating-stat recomputes against the same spot.
func (r *spotRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.TouristSpot, error) {
	var spot models.TouristSpot
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&spot, id).Error; err != nil {
		return nil, err
	}
	return &spot, nil
}

func (r *spotRepository) List(ctx context.Context, filter SpotFilter) ([]models.TouristSpot, error) {
	q := r.db.WithContext(ctx).Model(&models.TouristSpot{})

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("name ILIKE ? OR description ILIKE ? OR address ILIKE ?", like, like, like)
	}
	if filter.Region != "" {
		q = q.Where("region = ?", filter.Region)
	}
	if filter.Category != "" {
		// Categories is a JSON array stored as text; match the quoted value.
		q = q.Where("categories LIKE ?", "%\""+filter.Category+"\"%")
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var spots []models.TouristSpot
	if err := q.Order("id ASC").Find(&spots).Error; err != nil {
		return nil, err
	}
	return spots, nil
}

func (r *spotRepository) Save(ctx context.Context, spot *models.TouristSpot) error {
	return r.db.WithContext(ctx).Save(spot).Error
}

func (r *spotRepository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.TouristSpot{}, id)
	return res.RowsAffected, res.Error
}

func (r *spotRepository) UpdateRatingStats(ctx context.Context, tx *gorm.DB, id uint, avg float64, count int64) error {
	return tx.WithContext(ctx).
		Model(&models.TouristSpot{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"average_rating": avg,
			"total_ratings":  count,
		}).Error
}
