package repository

import (
	"context"
	"log"

	"github.com/touristapp/booking-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PackageFilter narrows ListPackages results. Nil fields are ignored.
type PackageFilter struct {
	Search    string
	MinPrice  *float64
	MaxPrice  *float64
	Duration  *int
	Status    *models.PackageStatus
	CompanyID *uint
	Offset    int
	Limit     int
}

type PackageRepository interface {
	Create(ctx context.Context, pkg *models.TourPackage) error
	FindByID(ctx context.Context, id uint) (*models.TourPackage, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.TourPackage, error)
	List(ctx context.Context, filter PackageFilter) ([]models.TourPackage, error)
	Save(ctx context.Context, pkg *models.TourPackage) error
	ReserveSlots(ctx context.Context, tx *gorm.DB, id uint, n int) (int64, error)
	ReleaseSlots(ctx context.Context, tx *gorm.DB, id uint, n int) error
	UpdateRatingStats(ctx context.Context, tx *gorm.DB, id uint, avg float64, count int64) error
	GetDB() *gorm.DB
}

type packageRepository struct {
	db *gorm.DB
}

func NewPackageRepository(db *gorm.DB) PackageRepository {
	return &packageRepository{db: db}
}

func (r *packageRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *packageRepository) Create(ctx context.Context, pkg *models.TourPackage) error {
	return r.db.WithContext(ctx).Create(pkg).Error
}

func (r *packageRepository) FindByID(ctx context.Context, id uint) (*models.TourPackage, error) {
	var pkg models.TourPackage
	if err := r.db.WithContext(ctx).First(&pkg, id).Error; err != nil {
		return nil, err
	}
	return &pkg, nil
}

// FindByIDForUpdate acquires a row-level lock on the package within the given
// transaction, serializing concurrent reservations against the same package.
func (r *packageRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.TourPackage, error) {
	var pkg models.TourPackage
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&pkg, id).Error; err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (r *packageRepository) List(ctx context.Context, filter PackageFilter) ([]models.TourPackage, error) {
	q := r.db.WithContext(ctx).Model(&models.TourPackage{})

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("name ILIKE ? OR description ILIKE ? OR category ILIKE ?", like, like, like)
	}
	if filter.MinPrice != nil {
		q = q.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.Duration != nil {
		q = q.Where("duration_days = ?", *filter.Duration)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.CompanyID != nil {
		q = q.Where("company_id = ?", *filter.CompanyID)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var packages []models.TourPackage
	if err := q.Order("id ASC").Find(&packages).Error; err != nil {
		return nil, err
	}
	return packages, nil
}

func (r *packageRepository) Save(ctx context.Context, pkg *models.TourPackage) error {
	return r.db.WithContext(ctx).Save(pkg).Error
}

// ReserveSlots increments current_participants by n in a single guarded
// statement: the update only applies while the package is active and the
// result stays within max_participants. Returns the number of rows updated;
// zero means the guard rejected the reservation and the caller must diagnose
// why (missing row, inactive package, or not enough capacity).
func (r *packageRepository) ReserveSlots(ctx context.Context, tx *gorm.DB, id uint, n int) (int64, error) {
	res := tx.WithContext(ctx).
		Model(&models.TourPackage{}).
		Where("id = ? AND status = ? AND current_participants + ? <= max_participants",
			id, models.PackageActive, n).
		Update("current_participants", gorm.Expr("current_participants + ?", n))
	return res.RowsAffected, res.Error
}

// ReleaseSlots decrements current_participants by n, never below zero. A
// decrement that would go negative indicates a prior accounting bug: it is
// logged loudly and the counter is clamped to zero as a fallback.
func (r *packageRepository) ReleaseSlots(ctx context.Context, tx *gorm.DB, id uint, n int) error {
	res := tx.WithContext(ctx).
		Model(&models.TourPackage{}).
		Where("id = ? AND current_participants >= ?", id, n).
		Update("current_participants", gorm.Expr("current_participants - ?", n))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var pkg models.TourPackage
	if err := tx.WithContext(ctx).First(&pkg, id).Error; err != nil {
		return err
	}
	log.Printf("[PackageRepo] accounting bug: release of %d slots on package %d would drop counter below zero (current=%d), clamping to 0",
		n, id, pkg.CurrentParticipants)
	return tx.WithContext(ctx).
		Model(&models.TourPackage{}).
		Where("id = ?", id).
		Update("current_participants", 0).Error
}

func (r *packageRepository) UpdateRatingStats(ctx context.Context, tx *gorm.DB, id uint, avg float64, count int64) error {
	return tx.WithContext(ctx).
		Model(&models.TourPackage{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"average_rating": avg,
			"total_ratings":  count,
		}).Error
}
